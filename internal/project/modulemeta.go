package project

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"aetherscript/internal/source"
)

type ImportMeta struct {
	Path string
	Span source.Span
}

type ModuleKind uint8

const (
	ModuleKindUnknown ModuleKind = iota
	ModuleKindModule
	ModuleKindBinary
)

type ModuleFileMeta struct {
	Path string
	Span source.Span
	Hash Digest
}

type ModuleMeta struct {
	Name            string
	Path            string     // normalized module path: "a/b"
	Dir             string     // normalized module directory path: "a/b"
	Kind            ModuleKind // module or binary
	HasModulePragma bool
	Span            source.Span  // span of the whole file (or the module declaration site)
	Imports         []ImportMeta // normalized import paths with their spans
	Files           []ModuleFileMeta
	ContentHash     Digest // hash of the file's content (from FileSet)
	ModuleHash      Digest // aggregated module hash accounting for dependencies
}

func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NormalizeModulePath reduces a module path (import or own file) to its
// canonical form "a/b": strips a trailing ".aeth" extension, maps slashes to
// '/', and rejects empty segments, ".", "..".
func NormalizeModulePath(path string) (string, error) {
	ext := ".aeth"
	if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
		path = path[:len(path)-len(ext)]
	}
	for path != "" && (path[0] == '/' || path[0] == '\\') {
		path = path[1:]
	}
	// filepath.Clean would normalize slashes and strip ./, ../, but we still
	// need to validate individual segments, so split manually instead.
	cleaned := []string{}
	curr := ""
	for _, r := range path {
		if r == '\\' || r == '/' {
			if curr != "" {
				cleaned = append(cleaned, curr)
				curr = ""
			} else {
				// empty segment, e.g. "a//b"
				return "", errors.New("invalid module path")
			}
		} else {
			curr += string(r)
		}
	}
	if curr != "" {
		cleaned = append(cleaned, curr)
	}
	if len(cleaned) == 0 {
		return "", errors.New("invalid module path")
	}
	for _, seg := range cleaned {
		if seg == "" || seg == "." || seg == ".." {
			return "", errors.New("invalid module path")
		}
	}
	out := ""
	for i, seg := range cleaned {
		if i != 0 {
			out += "/"
		}
		out += seg
	}
	return out, nil
}

// ResolveImportPath normalizes an import path relative to modulePath and
// basePath. segments is the list of path segments (including "." and "..").
func ResolveImportPath(modulePath, basePath string, segments []string) (string, error) {
	if len(segments) == 0 {
		return "", errors.New("empty import path")
	}

	joined := strings.Join(segments, "/")
	if len(segments) > 0 && (segments[0] == "stdlib" || segments[0] == "core") {
		return NormalizeModulePath(joined)
	}

	var baseSegments []string
	if basePath != "" {
		clean := strings.Trim(basePath, "/")
		if clean != "" {
			baseSegments = strings.Split(strings.ReplaceAll(clean, "\\", "/"), "/")
		}
	}

	var moduleDir []string
	if modulePath != "" {
		parts := strings.Split(modulePath, "/")
		if len(parts) > 1 {
			moduleDir = append(moduleDir, parts[:len(parts)-1]...)
		}
	}

	target := make([]string, 0, len(moduleDir)+len(segments))
	if len(moduleDir) > 0 {
		target = append(target, moduleDir...)
	}

	useRelative := segments[0] == "." || segments[0] == ".."
	if !useRelative {
		absolute := false
		if len(baseSegments) > 0 && len(segments) >= len(baseSegments) {
			absolute = true
			for i := range baseSegments {
				if segments[i] != baseSegments[i] {
					absolute = false
					break
				}
			}
		}
		if !absolute && len(segments) >= len(moduleDir) {
			absolute = true
			for i := range moduleDir {
				if moduleDir[i] != segments[i] {
					absolute = false
					break
				}
			}
		}
		if !absolute && len(moduleDir) > 0 {
			parent := moduleDir[:len(moduleDir)-1]
			if len(parent) > 0 && len(segments) >= len(parent) {
				absolute = true
				for i := range parent {
					if parent[i] != segments[i] {
						absolute = false
						break
					}
				}
			}
		}
		if absolute {
			target = target[:0]
		}
	}

	for _, seg := range segments {
		switch seg {
		case "":
			return "", errors.New("empty import segment")
		case ".":
			continue
		case "..":
			if len(target) == 0 {
				return "", errors.New("import path escapes project root")
			}
			target = target[:len(target)-1]
		default:
			if strings.Contains(seg, "/") {
				return "", fmt.Errorf("import segment %q contains '/'", seg)
			}
			target = append(target, seg)
		}
	}

	if len(target) == 0 {
		return "", errors.New("import resolves to empty path")
	}

	return NormalizeModulePath(strings.Join(target, "/"))
}
