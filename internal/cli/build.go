package cli

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/emberworks/kiln/internal/build"
	"github.com/emberworks/kiln/internal/manifest"
	"github.com/emberworks/kiln/internal/runtime"
)

// Represents the 'kiln build' command.
type BuildCmd struct {
	File       string `short:"f" help:"Path to the recipe file. Defaults to kiln.yaml in the context." placeholder:"PATH"`
	Context    string `short:"c" default:"." help:"Build context directory, copied into the image wholesale." placeholder:"DIR"`
	Output     string `short:"o" default:"dist" help:"Output directory for the exported image." placeholder:"DIR"`
	Name       string `help:"Build name. Defaults to the context directory name."`
	Containerd string `help:"Containerd socket address." placeholder:"PATH"`
	Namespace  string `help:"Containerd namespace."`
	Platform   string `help:"Target platform (e.g. linux/amd64). Defaults to the host."`
}

// Executes the build command.
//
// Loads the recipe, connects to containerd, and runs the build pipeline.
// Any step failure aborts the build with a non-zero exit; the failing step
// is identifiable from the error printed by main.
func (c *BuildCmd) Run(ctx context.Context) error {
	contextDir, err := filepath.Abs(c.Context)
	if err != nil {
		return err
	}

	recipePath := c.File
	if recipePath == "" {
		recipePath = filepath.Join(contextDir, manifest.DefaultFilename)
	}

	recipe, err := manifest.Load(recipePath)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = filepath.Base(contextDir)
	}

	address := c.Containerd
	if address == "" {
		address = runtime.DefaultAddress
	}
	namespace := c.Namespace
	if namespace == "" {
		namespace = runtime.DefaultNamespace
	}

	rt, err := runtime.New(address, namespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := build.Run(ctx, build.NewRuntime(rt), build.Options{
		Recipe:   recipe,
		Name:     name,
		Output:   c.Output,
		Context:  contextDir,
		Platform: c.Platform,
	})
	if err != nil {
		return err
	}

	slog.Info("build complete", "output", result.Output, "base", result.Base)
	return nil
}
