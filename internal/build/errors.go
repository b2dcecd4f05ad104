package build

import "errors"

var (
	ErrBuild                = errors.New("build failed")
	ErrBaseImageUnavailable = errors.New("base image unavailable")
	ErrPackageInstall       = errors.New("package install failed")
	ErrCopy                 = errors.New("copy failed")
	ErrDependencyResolution = errors.New("dependency resolution failed")
	ErrFileSystemOperation  = errors.New("file system operation failed")
)
