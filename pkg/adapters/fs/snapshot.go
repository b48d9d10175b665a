package fs

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/valog/pkg/core"
)

// SnapshotWriter persists the human-readable site snapshot (base.yaml).
type SnapshotWriter struct {
	Path string
}

// NewSnapshotWriter creates a writer targeting path.
func NewSnapshotWriter(path string) *SnapshotWriter {
	return &SnapshotWriter{Path: path}
}

// Write serializes v as YAML and replaces the snapshot file.
func (w *SnapshotWriter) Write(v any) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", core.ErrPersistence, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", core.ErrPersistence, err)
	}

	if err := writeFileAtomic(w.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}
	return nil
}
