package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validRecipe = `
base: python:3.12-slim
env:
  PYTHONDONTWRITEBYTECODE: "1"
  PYTHONUNBUFFERED: "1"
packages:
  - git
workdir: /app
requirements: requirements.txt
`

func TestParseValid(t *testing.T) {
	r, err := Parse([]byte(validRecipe))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Base != "python:3.12-slim" {
		t.Errorf("base = %q, want python:3.12-slim", r.Base)
	}
	if r.Workdir != "/app" {
		t.Errorf("workdir = %q, want /app", r.Workdir)
	}
	if r.Requirements != "requirements.txt" {
		t.Errorf("requirements = %q, want requirements.txt", r.Requirements)
	}
	if len(r.Packages) != 1 || r.Packages[0] != "git" {
		t.Errorf("packages = %v, want [git]", r.Packages)
	}
	if r.Env["PYTHONDONTWRITEBYTECODE"] != "1" || r.Env["PYTHONUNBUFFERED"] != "1" {
		t.Errorf("env = %v, want both python flags set to 1", r.Env)
	}
	if len(r.Entrypoint) != 0 {
		t.Errorf("entrypoint = %v, want empty", r.Entrypoint)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing base",
			input: "workdir: /app",
		},
		{
			name:  "missing workdir",
			input: "base: python:3.12-slim",
		},
		{
			name:  "relative workdir",
			input: "base: python:3.12-slim\nworkdir: app",
		},
		{
			name:  "unknown field",
			input: "base: python:3.12-slim\nworkdir: /app\nports: [80]",
		},
		{
			name:  "absolute requirements path",
			input: "base: python:3.12-slim\nworkdir: /app\nrequirements: /etc/requirements.txt",
		},
		{
			name:  "package with whitespace",
			input: "base: python:3.12-slim\nworkdir: /app\npackages: [\"git curl\"]",
		},
		{
			name:  "empty package name",
			input: "base: python:3.12-slim\nworkdir: /app\npackages: [\"  \"]",
		},
		{
			name:  "env name with equals",
			input: "base: python:3.12-slim\nworkdir: /app\nenv:\n  \"A=B\": \"1\"",
		},
		{
			name:  "not yaml",
			input: "{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, ErrInvalidRecipe) {
				t.Fatalf("error = %v, want ErrInvalidRecipe", err)
			}
		})
	}
}

func TestParseOptionalFields(t *testing.T) {
	r, err := Parse([]byte("base: alpine:3.20\nworkdir: /srv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.HasPackages() {
		t.Error("HasPackages = true for empty package list")
	}
	if r.HasRequirements() {
		t.Error("HasRequirements = true for empty requirements")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFilename)
	if err := os.WriteFile(path, []byte(validRecipe), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Base != "python:3.12-slim" {
		t.Errorf("base = %q, want python:3.12-slim", r.Base)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrRecipeUnreadable) {
		t.Fatalf("error = %v, want ErrRecipeUnreadable", err)
	}
}
