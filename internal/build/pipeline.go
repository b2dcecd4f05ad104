package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/emberworks/kiln/internal/manifest"
)

// Shell used for commands executed inside the build container.
const defaultShell = "/bin/sh"

// Holds shared state for one build pass.
type pipeline struct {
	rt       Runtime          // Container runtime for image and container operations.
	recipe   *manifest.Recipe // Recipe being executed.
	name     string           // Build name, used as a prefix for the container ID.
	output   string           // Output directory for the exported image.
	context  string           // Build context directory.
	platform string           // Target OCI platform.

	base string    // Normalized base reference, set by selectBase.
	ctr  Container // Build container, set by selectBase and destroyed after the run.
}

// Creates a new [pipeline] from the given options.
func newPipeline(rt Runtime, opts Options) *pipeline {
	return &pipeline{
		rt:       rt,
		recipe:   opts.Recipe,
		name:     opts.Name,
		output:   opts.Output,
		context:  opts.Context,
		platform: opts.Platform,
	}
}

// Runs the build steps in order.
//
// The step order is fixed: a failure in an earlier step is always reported
// before any later step runs. On success the container is stopped, the
// filesystem diff is exported, and a build record is written. The container
// is destroyed when the run completes, whatever the outcome.
func (p *pipeline) run(ctx context.Context) (*Result, error) {
	defer p.destroy(ctx)

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"select base", p.selectBase},
		{"install packages", p.installPackages},
		{"copy context", p.copyContext},
		{"install requirements", p.installRequirements},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return nil, fmt.Errorf("%w: step %q: %w", ErrBuild, step.name, err)
		}
	}

	result, err := p.export(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: step %q: %w", ErrBuild, "export", err)
	}

	return result, nil
}

// Pulls the base image and starts the build container.
//
// An unparsable reference or an image that cannot be retrieved is a
// [ErrBaseImageUnavailable]; nothing later in the pipeline runs after that.
func (p *pipeline) selectBase(ctx context.Context) error {
	ref, err := p.rt.Pull(ctx, p.recipe.Base, p.platform)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBaseImageUnavailable, err)
	}
	p.base = ref

	ctr, err := p.rt.StartContainer(ctx, ref, p.containerID(), p.platform)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBaseImageUnavailable, err)
	}
	p.ctr = ctr

	return nil
}

// Installs the recipe's OS packages inside the build container.
//
// The package index is refreshed, the packages are installed without
// recommended extras, and the cached index data is removed to keep the
// layer small. The underlying package manager offers no all-or-nothing
// guarantee: a failed install may leave some packages behind, but the
// build aborts either way. Skipped when the recipe lists no packages.
func (p *pipeline) installPackages(ctx context.Context) error {
	if !p.recipe.HasPackages() {
		slog.Debug("no packages to install")
		return nil
	}

	cmd := aptInstallCommand(p.recipe.Packages)
	slog.Info("installing packages", "packages", p.recipe.Packages)

	result, err := p.ctr.Exec(ctx, defaultShell, cmd, p.environ(), "")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPackageInstall, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: exit code %d: %s", ErrPackageInstall, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return nil
}

// Copies the entire build context into the recipe's working directory.
//
// The copy is wholesale and unfiltered: exactly the files present in the
// context land in the working directory. The base layer is fresh for every
// build, so there are no stale leftovers from a prior build to remove.
func (p *pipeline) copyContext(ctx context.Context) error {
	if _, err := os.Stat(p.context); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	if err := p.ctr.MkdirAll(ctx, p.recipe.Workdir); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	slog.Info("copying build context", "context", p.context, "workdir", p.recipe.Workdir)

	if err := streamTree(ctx, p.ctr, p.context, p.recipe.Workdir); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	return nil
}

// Installs the recipe's dependency manifest inside the working directory.
//
// The manifest must exist in the copied context. Any dependency or version
// constraint the installer cannot satisfy fails the build; there is no
// partial-success path. Skipped when the recipe names no manifest.
func (p *pipeline) installRequirements(ctx context.Context) error {
	if !p.recipe.HasRequirements() {
		slog.Debug("no dependency manifest to install")
		return nil
	}

	if _, err := os.Stat(filepath.Join(p.context, p.recipe.Requirements)); err != nil {
		return fmt.Errorf("%w: manifest %q: %w", ErrDependencyResolution, p.recipe.Requirements, err)
	}

	cmd := pipInstallCommand(p.recipe.Requirements)
	slog.Info("installing dependencies", "manifest", p.recipe.Requirements)

	result, err := p.ctr.Exec(ctx, defaultShell, cmd, p.environ(), p.recipe.Workdir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDependencyResolution, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: exit code %d: %s", ErrDependencyResolution, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return nil
}

// Stops the container, exports the committed image, and writes the build
// record.
func (p *pipeline) export(ctx context.Context) (*Result, error) {
	if err := p.ctr.Stop(ctx); err != nil {
		return nil, err
	}

	if err := p.ctr.Export(ctx, p.output, p.environ(), p.recipe.Entrypoint); err != nil {
		return nil, err
	}

	p.writeRecord()

	return &Result{Output: p.output, Base: p.base}, nil
}

// Destroys the build container, if one was started.
func (p *pipeline) destroy(ctx context.Context) {
	if p.ctr != nil {
		p.ctr.Destroy(ctx)
	}
}

// Returns the recipe's environment as sorted "key=value" entries.
func (p *pipeline) environ() []string {
	return environ(p.recipe.Env)
}

// Returns the container ID for this build, scoped to name and platform.
func (p *pipeline) containerID() string {
	return fmt.Sprintf("%s-%s-build", p.name, platformSlug(p.platform))
}

// Converts a platform string to a filesystem-safe slug.
//
// Replaces slashes with dashes (e.g., "linux/amd64" becomes "linux-amd64").
func platformSlug(platform string) string {
	return strings.ReplaceAll(platform, "/", "-")
}
