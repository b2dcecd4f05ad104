package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default recipe filename, looked up in the build context when no explicit
// path is given.
const DefaultFilename = "kiln.yaml"

// Describes a single image build.
//
// A recipe is executed strictly in declaration order: the base image is
// pulled, environment variables are recorded, OS packages are installed,
// the build context is copied into the working directory, and the
// requirements manifest is installed. Fields other than Base and Workdir
// are optional; empty optional fields skip their step.
type Recipe struct {
	Base         string            `yaml:"base"`         // Base image reference (e.g. "python:3.12-slim").
	Env          map[string]string `yaml:"env"`          // Environment variables baked into the image.
	Packages     []string          `yaml:"packages"`     // OS packages installed via apt-get.
	Workdir      string            `yaml:"workdir"`      // Absolute destination for the build context.
	Requirements string            `yaml:"requirements"` // Dependency manifest path, relative to Workdir.
	Entrypoint   []string          `yaml:"entrypoint"`   // Optional OCI entrypoint. Empty leaves it to the consumer.
}

// Reads and validates a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipeUnreadable, err)
	}

	return Parse(data)
}

// Decodes and validates recipe YAML.
//
// Unknown fields are rejected so that a typo in a recipe fails the build
// instead of silently skipping a step.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	return &r, nil
}

// Checks the structural constraints of a recipe.
//
// Base image availability is not checked here; that is the pull's job.
func (r *Recipe) validate() error {
	if strings.TrimSpace(r.Base) == "" {
		return fmt.Errorf("%w: base image is required", ErrInvalidRecipe)
	}

	if strings.TrimSpace(r.Workdir) == "" {
		return fmt.Errorf("%w: workdir is required", ErrInvalidRecipe)
	}
	if !filepath.IsAbs(r.Workdir) {
		return fmt.Errorf("%w: workdir %q must be absolute", ErrInvalidRecipe, r.Workdir)
	}

	for _, pkg := range r.Packages {
		if strings.TrimSpace(pkg) == "" {
			return fmt.Errorf("%w: empty package name", ErrInvalidRecipe)
		}
		if strings.ContainsAny(pkg, " \t\n") {
			return fmt.Errorf("%w: package name %q contains whitespace", ErrInvalidRecipe, pkg)
		}
	}

	for name := range r.Env {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty environment variable name", ErrInvalidRecipe)
		}
		if strings.Contains(name, "=") {
			return fmt.Errorf("%w: environment variable name %q contains '='", ErrInvalidRecipe, name)
		}
	}

	if filepath.IsAbs(r.Requirements) {
		return fmt.Errorf("%w: requirements path %q must be relative to workdir", ErrInvalidRecipe, r.Requirements)
	}

	return nil
}

// Whether the recipe has OS packages to install.
func (r *Recipe) HasPackages() bool {
	return len(r.Packages) > 0
}

// Whether the recipe has a dependency manifest to install.
func (r *Recipe) HasRequirements() bool {
	return strings.TrimSpace(r.Requirements) != ""
}
