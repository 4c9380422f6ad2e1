package main

import (
	"os"
	"path/filepath"
	"testing"

	"aetherscript/internal/token"
)

func TestLoadTokenUnitBuildsTokensOverInstalledSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.json")
	const body = `{
		"path": "main.aeth",
		"source": "let x = 1",
		"tokens": [
			{"kind": 14, "text": "let", "start": 0, "end": 3},
			{"kind": 2, "text": "x", "start": 4, "end": 5},
			{"kind": 57, "text": "1", "start": 8, "end": 9}
		]
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	toks, fs, fileID, err := loadTokenUnit(path)
	if err != nil {
		t.Fatalf("loadTokenUnit: %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	if toks[0].Kind != token.KwLet || toks[0].Text != "let" {
		t.Fatalf("expected first token to be KwLet %q, got %v %q", "let", toks[0].Kind, toks[0].Text)
	}
	if toks[0].Span.File != fileID {
		t.Fatalf("expected token spans to reference the installed file ID")
	}

	f := fs.Get(fileID)
	if string(f.Content) != "let x = 1" {
		t.Fatalf("expected installed source text to match, got %q", string(f.Content))
	}
}

func TestLoadTokenUnitRejectsMissingFile(t *testing.T) {
	if _, _, _, err := loadTokenUnit(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected an error for a missing token unit file")
	}
}
