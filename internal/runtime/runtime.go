package runtime

import (
	"context"
	"fmt"
	"log/slog"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/platforms"
	"github.com/distribution/reference"
)

const (

	// Default containerd socket address.
	DefaultAddress = "/run/containerd/containerd.sock"

	// Default containerd namespace for images and containers.
	DefaultNamespace = "kiln"

	// Snapshotter used for container filesystems. fuse-overlayfs provides
	// overlay semantics without requiring root privileges (no mount(2)),
	// allowing kiln to run as a regular user.
	snapshotter = "fuse-overlayfs"

	// OCI runtime shim for running build containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Manages the containerd client and provides image and container operations.
type Runtime struct {
	client *containerd.Client // Containerd client for managing containers and images.
}

// Creates a runtime connected to the containerd socket at the given address.
//
// The namespace scopes all containerd operations to a single tenant. The
// runtime must be closed when no longer needed.
func New(address, namespace string) (*Runtime, error) {
	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return &Runtime{client: client}, nil
}

// Closes the containerd client connection.
func (rt *Runtime) Close() error {
	return rt.client.Close()
}

// Pulls a base image from its registry and unpacks it for the target
// platform.
//
// The reference is normalized before the pull so that short names like
// "python:3.12-slim" resolve to their canonical registry form. A reference
// that does not parse, or an image that cannot be retrieved for the given
// platform, is reported as [ErrImageUnavailable].
func (rt *Runtime) Pull(ctx context.Context, ref, platform string) (string, error) {
	normalized, err := NormalizeReference(ref)
	if err != nil {
		return "", err
	}

	p, err := platforms.Parse(platform)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageUnavailable, err)
	}

	slog.Info("pulling base image", "ref", normalized, "platform", platform)

	_, err = rt.client.Pull(ctx, normalized,
		containerd.WithPlatformMatcher(platforms.Only(p)),
		containerd.WithPullUnpack,
		containerd.WithPullSnapshotter(snapshotter),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrImageUnavailable, normalized, err)
	}

	return normalized, nil
}

// Starts a build container from a previously pulled image reference.
//
// Any stale container with the same ID from a prior build is removed first.
// The container runs a long-lived task (sleep infinity) so that subsequent
// Exec calls have a running process to attach to. Building for a platform
// other than the host requires QEMU / binfmt_misc support in the kernel.
func (rt *Runtime) StartContainer(ctx context.Context, ref, id, platform string) (*Container, error) {
	c := &Container{
		client:   rt.client,
		id:       id,
		platform: platform,
	}

	// Remove any stale container from a previous build with the same ID.
	c.remove(ctx)

	image, err := rt.resolveImage(ctx, ref, platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	ctr, err := c.create(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("container started", "id", id, "image", ref)

	return c, nil
}

// Looks up a stored image and selects the manifest for the given platform.
//
// Multi-platform images contain manifests for multiple architectures. This
// method selects one, so that subsequent operations target the correct
// architecture.
func (rt *Runtime) resolveImage(ctx context.Context, ref, platform string) (containerd.Image, error) {
	p, err := platforms.Parse(platform)
	if err != nil {
		return nil, err
	}

	img, err := rt.client.ImageService().Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	return containerd.NewImageWithPlatform(rt.client, img, platforms.Only(p)), nil
}

// Normalizes a user-provided image reference to its canonical form.
//
// Short names gain their implied registry and tag (e.g. "python:3.12-slim"
// becomes "docker.io/library/python:3.12-slim", "alpine" becomes
// "docker.io/library/alpine:latest"). Digest references pass through
// unchanged. An unparsable reference is an [ErrImageUnavailable]: the
// named image can never be retrieved.
func NormalizeReference(ref string) (string, error) {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return "", fmt.Errorf("%w: reference %q: %w", ErrImageUnavailable, ref, err)
	}

	if _, ok := named.(reference.Canonical); ok {
		return named.String(), nil
	}

	return reference.TagNameOnly(named).String(), nil
}
