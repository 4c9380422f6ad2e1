package main

import (
	"encoding/json"
	"fmt"
	"os"

	"aetherscript/internal/source"
	"aetherscript/internal/token"
)

// tokenRecord is the on-disk shape of one token, as produced by whatever
// tokenizer sits upstream of this package (§6: the lexical tokenizer is an
// external collaborator, out of scope here). Kind is the raw token.Kind
// value rather than a symbolic name: this package only deserializes a
// token stream, it never classifies source text into one.
type tokenRecord struct {
	Kind  token.Kind `json:"kind"`
	Text  string     `json:"text"`
	Start uint32     `json:"start"`
	End   uint32     `json:"end"`
}

// tokenUnit is one compilation unit's worth of pre-tokenized input: the
// original source text (kept so diagnostics can render source excerpts)
// plus the token stream over it.
type tokenUnit struct {
	Path   string        `json:"path"`
	Source string        `json:"source"`
	Tokens []tokenRecord `json:"tokens"`
}

// loadTokenUnit reads a tokenUnit from path and installs its source text
// into a fresh FileSet, returning the file's tokens ready for parser.New.
func loadTokenUnit(path string) ([]token.Token, *source.FileSet, source.FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path is an explicit CLI argument
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read %s: %w", path, err)
	}

	var unit tokenUnit
	if err := json.Unmarshal(raw, &unit); err != nil {
		return nil, nil, 0, fmt.Errorf("%s: invalid token unit: %w", path, err)
	}

	displayPath := unit.Path
	if displayPath == "" {
		displayPath = path
	}

	fs := source.NewFileSet()
	fileID := fs.AddVirtual(displayPath, []byte(unit.Source))

	toks := make([]token.Token, len(unit.Tokens))
	for i, r := range unit.Tokens {
		toks[i] = token.Token{
			Kind: r.Kind,
			Text: r.Text,
			Span: source.Span{File: fileID, Start: r.Start, End: r.End},
		}
	}
	return toks, fs, fileID, nil
}
