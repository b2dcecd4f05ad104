// Package runtime manages build containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and provides base image
// pulls and container creation. Image references are normalized to their
// canonical registry form, pulled, unpacked for the target platform, and
// used to create containers with overlayfs snapshots.
//
// Each [Container] wraps a running containerd task. Commands can be
// executed inside the container, files can be streamed in as tar archives,
// and the final filesystem state can be committed and exported as a new
// OCI archive. When the container is no longer needed it should be
// destroyed to release its snapshot and task resources.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "kiln")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ref, err := rt.Pull(ctx, "python:3.12-slim", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//
//	ctr, err := rt.StartContainer(ctx, ref, "app-build", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "echo hello", nil, "")
//	if err != nil {
//	    return err
//	}
//
//	if err := ctr.Export(ctx, "dist", []string{"DEBUG=1"}, nil); err != nil {
//	    return err
//	}
package runtime
