package build

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/emberworks/kiln/internal"
)

// Builds a small context tree:
//
//	app.py
//	requirements.txt
//	pkg/
//	pkg/__init__.py
func makeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"app.py":           "print('hi')\n",
		"requirements.txt": "pyyaml==6.0\n",
		"pkg/__init__.py":  "",
	}

	if err := os.Mkdir(filepath.Join(dir, "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func TestTarTree(t *testing.T) {
	dir := makeTree(t)

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tarTree(tw, dir, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw.Close()

	entries := map[string]string{}
	tr := tar.NewReader(&buf)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		entries[hdr.Name] = string(content)
	}

	var names []string
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	want := []string{"app.py", "pkg", "pkg/__init__.py", "requirements.txt"}
	if len(names) != len(want) {
		t.Fatalf("entries = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("entries = %v, want %v", names, want)
		}
	}

	if entries["app.py"] != "print('hi')\n" {
		t.Errorf("app.py content = %q", entries["app.py"])
	}
}

func TestTarTreeCountsBytes(t *testing.T) {
	dir := makeTree(t)

	var buf, counted bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tarTree(tw, dir, &counted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw.Close()

	size, err := treeSize(dir)
	if err != nil {
		t.Fatal(err)
	}

	if int64(counted.Len()) != size {
		t.Errorf("progress saw %d bytes, treeSize = %d", counted.Len(), size)
	}
}

func TestTreeSize(t *testing.T) {
	dir := makeTree(t)

	size, err := treeSize(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// app.py (12) + requirements.txt (13) + empty __init__.py.
	want := int64(len("print('hi')\n") + len("pyyaml==6.0\n"))
	if size != want {
		t.Errorf("treeSize = %d, want %d", size, want)
	}
}

func TestTreeSizeMissingDir(t *testing.T) {
	if _, err := treeSize(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestStreamTreeQuietMode(t *testing.T) {
	internal.SetQuiet(true)
	t.Cleanup(func() { internal.SetQuiet(false) })

	dir := makeTree(t)
	calls := []string{}
	ctr := &fakeContainer{calls: &calls}

	if err := streamTree(context.Background(), ctr, dir, "/app"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ctr.copied) != 4 {
		t.Errorf("copied %d entries, want 4: %v", len(ctr.copied), ctr.copied)
	}
}

func TestStreamTreeUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	internal.SetQuiet(true)
	t.Cleanup(func() { internal.SetQuiet(false) })

	dir := makeTree(t)
	locked := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(locked, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0644) })

	calls := []string{}
	ctr := &fakeContainer{calls: &calls}

	if err := streamTree(context.Background(), ctr, dir, "/app"); err == nil {
		t.Fatal("expected error for unreadable file in context")
	}
}

func TestTarTreeSymlink(t *testing.T) {
	dir := makeTree(t)
	if err := os.Symlink("app.py", filepath.Join(dir, "main.py")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tarTree(tw, dir, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw.Close()

	tr := tar.NewReader(&buf)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if hdr.Name == "main.py" {
			if hdr.Typeflag != tar.TypeSymlink || hdr.Linkname != "app.py" {
				t.Errorf("main.py: typeflag=%v linkname=%q", hdr.Typeflag, hdr.Linkname)
			}
			return
		}
	}
	t.Fatal("symlink entry not found in archive")
}
