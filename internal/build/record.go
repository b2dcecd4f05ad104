package build

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/emberworks/kiln/internal/paths"
)

// Describes a completed build.
//
// Records exist for inspection after the fact; they are not consulted by
// later builds, which always start from a fresh base layer.
type Record struct {
	Name         string    `json:"name"`
	Base         string    `json:"base"`
	Platform     string    `json:"platform"`
	Env          []string  `json:"env,omitempty"`
	Packages     []string  `json:"packages,omitempty"`
	Workdir      string    `json:"workdir"`
	Requirements string    `json:"requirements,omitempty"`
	Output       string    `json:"output"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Writes the build record for a successful build.
//
// The record is written to the per-user state directory, one file per
// build name, replacing the record of any earlier build with the same
// name. A record write failure does not fail the build; the image has
// already been exported.
func (p *pipeline) writeRecord() {
	record := Record{
		Name:         p.name,
		Base:         p.base,
		Platform:     p.platform,
		Env:          p.environ(),
		Packages:     p.recipe.Packages,
		Workdir:      p.recipe.Workdir,
		Requirements: p.recipe.Requirements,
		Output:       p.output,
		FinishedAt:   time.Now().UTC(),
	}

	path := filepath.Join(paths.Records(), p.name+".json")

	if err := writeRecordFile(path, record); err != nil {
		slog.Warn("failed to write build record", "path", path, "error", err)
		return
	}

	slog.Debug("build record written", "path", path)
}

// Serializes a record and writes it to path, creating parent directories.
func writeRecordFile(path string, record Record) error {
	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, paths.DefaultFileMode)
}
