package build

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/emberworks/kiln/internal"
)

// Streams the contents of a directory tree into the container as a tar
// archive extracted at destDir.
//
// The tree is walked and written to a pipe while the container extracts
// from the other end, so the archive is never materialized on disk. File
// bytes are counted against a progress bar sized by a pre-walk of the tree.
func streamTree(ctx context.Context, ctr Container, dir, destDir string) error {
	size, err := treeSize(dir)
	if err != nil {
		return err
	}

	// Assign the bar to the io.Writer only when it exists. A nil
	// *ProgressBar stored in a non-nil interface would slip past the
	// nil checks below and panic on the first write.
	bar := copyProgress(size)
	var progress io.Writer
	if bar != nil {
		progress = bar
	}

	pr, pw := io.Pipe()
	defer pr.Close()

	go func() {
		tw := tar.NewWriter(pw)
		err := tarTree(tw, dir, progress)
		tw.Close()
		pw.CloseWithError(err)
	}()

	if err := ctr.CopyTo(ctx, pr, destDir); err != nil {
		return err
	}

	if bar != nil {
		bar.Finish()
	}

	return nil
}

// Returns a byte progress bar for the context copy, or nil in quiet mode.
func copyProgress(size int64) *progressbar.ProgressBar {
	if internal.IsQuiet() {
		return nil
	}
	return progressbar.DefaultBytes(size, "copying context")
}

// Sums the sizes of all regular files under dir.
func treeSize(dir string) (int64, error) {
	var size int64
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// Writes a directory tree to a tar writer.
//
// Archive paths are relative to dir, so extracting the archive reproduces
// the tree's contents directly in the destination (the root directory
// itself is not an entry). File bytes are mirrored to progress when it is
// non-nil.
func tarTree(tw *tar.Writer, dir string, progress io.Writer) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		return writeTarEntry(tw, path, filepath.ToSlash(relPath), d, progress)
	})
}

// Writes a single file or directory entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d os.DirEntry, progress io.Writer) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(hostPath); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	header.Name = archivePath

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = tw
	if progress != nil {
		w = io.MultiWriter(tw, progress)
	}

	_, err = io.Copy(w, f)
	return err
}
