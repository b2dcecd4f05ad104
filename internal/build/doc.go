// Package build executes image build recipes against a container runtime.
//
// A recipe names a base image, environment variables, OS packages, a
// working directory, and an optional dependency manifest. The pipeline
// pulls the base image, starts a build container, installs the packages,
// streams the build context into the working directory, installs the
// dependency manifest, and exports the committed filesystem as an OCI
// archive. The steps run strictly in order; the first failure aborts the
// build, no image is written, and the build container is destroyed.
//
// Each failing step is identifiable from the error chain: base selection
// failures match [ErrBaseImageUnavailable], package installs
// [ErrPackageInstall], context copies [ErrCopy], and dependency installs
// [ErrDependencyResolution]. All of them also match [ErrBuild].
//
// Container operations are delegated to the runtime package through the
// [Runtime] and [Container] interfaces.
//
// Example usage:
//
//	result, err := build.Run(ctx, build.NewRuntime(rt), build.Options{
//	    Recipe:  recipe,
//	    Name:    "my-app",
//	    Output:  "dist",
//	    Context: ".",
//	})
//	if err != nil {
//	    return err
//	}
package build
