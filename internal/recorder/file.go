package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"StockGym/internal/model"
)

// FileRecorder writes episode history to disk: one directory per run, one
// subdirectory per episode containing a history_values.csv total-value series,
// per-step JSON documents, and a final summary.json.
type FileRecorder struct {
	runDir     string
	episodeDir string
	history    *os.File
}

// NewFileRecorder creates the run directory under baseDir using a
// timestamp + short run id name.
func NewFileRecorder(baseDir string) (*FileRecorder, error) {
	runDir := filepath.Join(baseDir,
		fmt.Sprintf("%s_%s", time.Now().Format("2006-01-02_15-04-05"), uuid.NewString()[:8]))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	return &FileRecorder{runDir: runDir}, nil
}

// RunDir returns the directory this run records into.
func (f *FileRecorder) RunDir() string { return f.runDir }

func (f *FileRecorder) StartEpisode(episode int) error {
	if f.history != nil {
		f.history.Close()
		f.history = nil
	}
	f.episodeDir = filepath.Join(f.runDir, fmt.Sprintf("episode_%04d", episode))
	if err := os.MkdirAll(f.episodeDir, 0o755); err != nil {
		return fmt.Errorf("create episode directory: %w", err)
	}
	h, err := os.Create(filepath.Join(f.episodeDir, "history_values.csv"))
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	f.history = h
	return nil
}

func (f *FileRecorder) RecordStep(rec *StepRecord) error {
	if f.history == nil {
		return fmt.Errorf("recorder: episode not started")
	}
	if _, err := fmt.Fprintf(f.history, "%s,%g\n", rec.DateTime, rec.TotalValue); err != nil {
		return fmt.Errorf("write history line: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal step record: %w", err)
	}
	name := filepath.Join(f.episodeDir, fmt.Sprintf("step_%06d.json", rec.Step))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write step record: %w", err)
	}
	return nil
}

func (f *FileRecorder) RecordEpisode(summary *model.EpisodeSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal episode summary: %w", err)
	}
	name := filepath.Join(f.episodeDir, "summary.json")
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write episode summary: %w", err)
	}
	return nil
}

func (f *FileRecorder) Close() error {
	if f.history != nil {
		err := f.history.Close()
		f.history = nil
		return err
	}
	return nil
}
