package runtime

import (
	"errors"
	"testing"
)

func TestNormalizeReference(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short name",
			input: "alpine",
			want:  "docker.io/library/alpine:latest",
		},
		{
			name:  "short name with tag",
			input: "python:3.12-slim",
			want:  "docker.io/library/python:3.12-slim",
		},
		{
			name:  "namespaced name",
			input: "library/python:3.12",
			want:  "docker.io/library/python:3.12",
		},
		{
			name:  "explicit registry",
			input: "ghcr.io/acme/app:v1",
			want:  "ghcr.io/acme/app:v1",
		},
		{
			name:  "digest reference",
			input: "alpine@sha256:9a839e63dad54c3a6d1834e29692c8492d93f90c59c978c1ed79109ea4fb9a54",
			want:  "docker.io/library/alpine@sha256:9a839e63dad54c3a6d1834e29692c8492d93f90c59c978c1ed79109ea4fb9a54",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeReference(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeReference(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeReferenceInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "uppercase repository", input: "Python:3.12"},
		{name: "spaces", input: "python :3.12"},
		{name: "bad tag", input: "python:-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeReference(tt.input)
			if !errors.Is(err, ErrImageUnavailable) {
				t.Fatalf("error = %v, want ErrImageUnavailable", err)
			}
		})
	}
}
