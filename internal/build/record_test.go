package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteRecordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builds", "app.json")

	record := Record{
		Name:       "app",
		Base:       "docker.io/library/python:3.12-slim",
		Platform:   "linux/amd64",
		Env:        []string{"PYTHONDONTWRITEBYTECODE=1", "PYTHONUNBUFFERED=1"},
		Packages:   []string{"git"},
		Workdir:    "/app",
		Output:     "dist",
		FinishedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := writeRecordFile(path, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != record.Name || got.Base != record.Base || got.Workdir != record.Workdir {
		t.Errorf("round-tripped record = %+v, want %+v", got, record)
	}
	if !got.FinishedAt.Equal(record.FinishedAt) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, record.FinishedAt)
	}
}
