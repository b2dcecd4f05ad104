package build

import (
	"sort"
	"strings"
)

// Builds the shell command that installs OS packages.
//
// The index refresh, the install, and the index cleanup run as one command
// so a failure at any point fails the step. Recommended extras are skipped
// and the cached index data is removed to keep the resulting layer small.
func aptInstallCommand(packages []string) string {
	return "apt-get update && " +
		"apt-get install -y --no-install-recommends " + strings.Join(packages, " ") + " && " +
		"rm -rf /var/lib/apt/lists/*"
}

// Builds the shell command that installs the dependency manifest.
//
// The pip download cache is disabled; cached wheels would only bloat the
// image layer since each build starts from a fresh base.
func pipInstallCommand(manifest string) string {
	return "pip install --no-cache-dir -r " + manifest
}

// Flattens an env map into sorted "key=value" entries.
//
// Sorting makes the result deterministic, so identical recipes produce
// identical exec environments and identical exported image configs.
func environ(env map[string]string) []string {
	entries := make([]string, 0, len(env))
	for k, v := range env {
		entries = append(entries, k+"="+v)
	}
	sort.Strings(entries)
	return entries
}
