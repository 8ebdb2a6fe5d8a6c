// Package store persists the résumé snapshot under a single key.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cvBuilder/internal/resume"
)

// DefaultKey is the key the snapshot is saved under.
const DefaultKey = "cv_builder_data"

var (
	// ErrNotFound is returned by Load when nothing has been saved yet.
	ErrNotFound = errors.New("snapshot not found")
	// ErrCorrupt is wrapped by Load when the stored value cannot be decoded.
	ErrCorrupt = errors.New("snapshot corrupt")
)

// Store loads and saves one snapshot.
type Store interface {
	Load(ctx context.Context) (resume.Snapshot, error)
	Save(ctx context.Context, snap resume.Snapshot) error
	Clear(ctx context.Context) error
}

// ExportEntry is one exported file.
type ExportEntry struct {
	RunID     string    `json:"runId"`
	Format    string    `json:"format"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Pages     int       `json:"pages"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExportLog is implemented by stores that keep an export history.
type ExportLog interface {
	RecordExports(ctx context.Context, entries []ExportEntry) error
	Exports(ctx context.Context, limit int) ([]ExportEntry, error)
}

func encode(snap resume.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decode(raw []byte) (resume.Snapshot, error) {
	var snap resume.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return resume.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	snap.Normalize()
	return snap, nil
}
