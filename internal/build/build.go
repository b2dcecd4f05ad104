package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	goruntime "runtime"

	"github.com/emberworks/kiln/internal/manifest"
	"github.com/emberworks/kiln/internal/paths"
	"github.com/emberworks/kiln/internal/runtime"
)

// Controls recipe execution.
type Options struct {
	Recipe   *manifest.Recipe // Recipe to execute.
	Name     string           // Build name, used as a prefix for the container ID.
	Output   string           // Directory for the exported image.
	Context  string           // Build context directory, copied into the image wholesale.
	Platform string           // Target platform (e.g., "linux/amd64"). Defaults to host.
}

// Returned after successful recipe execution.
type Result struct {
	Output string // Directory containing the exported image.
	Base   string // Normalized base image reference the build started from.
}

// Pulls and starts build containers.
type Runtime interface {
	Pull(ctx context.Context, ref, platform string) (string, error)
	StartContainer(ctx context.Context, ref, id, platform string) (Container, error)
}

// Operations the pipeline performs against a running build container.
type Container interface {
	Exec(ctx context.Context, shell, command string, env []string, workdir string) (*runtime.ExecResult, error)
	MkdirAll(ctx context.Context, path string) error
	CopyTo(ctx context.Context, r io.Reader, destDir string) error
	Stop(ctx context.Context) error
	Export(ctx context.Context, output string, env, entrypoint []string) error
	Destroy(ctx context.Context)
}

// Adapts a containerd-backed [runtime.Runtime] to the [Runtime] interface.
type containerdRuntime struct {
	rt *runtime.Runtime
}

// Wraps a containerd runtime for use with [Run].
func NewRuntime(rt *runtime.Runtime) Runtime {
	return containerdRuntime{rt: rt}
}

func (c containerdRuntime) Pull(ctx context.Context, ref, platform string) (string, error) {
	return c.rt.Pull(ctx, ref, platform)
}

func (c containerdRuntime) StartContainer(ctx context.Context, ref, id, platform string) (Container, error) {
	return c.rt.StartContainer(ctx, ref, id, platform)
}

// Executes a recipe against the container runtime.
//
// The build runs strictly in order: base image selection, OS package
// installation, build context copy, dependency installation, export. Each
// step must succeed before the next begins; the first failure aborts the
// build and no image is written. The build container is destroyed when the
// build finishes, on both success and failure.
func Run(ctx context.Context, rt Runtime, opts Options) (*Result, error) {
	if opts.Platform == "" {
		opts.Platform = "linux/" + goruntime.GOARCH
	}

	slog.Info("executing recipe",
		"name", opts.Name,
		"base", opts.Recipe.Base,
		"output", opts.Output,
		"context", opts.Context,
		"platform", opts.Platform,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	return newPipeline(rt, opts).run(ctx)
}
