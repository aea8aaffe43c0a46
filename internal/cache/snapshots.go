// Package cache persists one metadata snapshot file per content hash. The
// snapshots are never read back by the pipeline; they exist for reuse and
// debugging.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot is the full extraction result recorded at ingestion time.
type Snapshot struct {
	IngestionId string `json:"ingestionId"`
	Url         string `json:"url"`
	StatusCode  int    `json:"statusCode"`
	Status      string `json:"statusMessage"`
	Title       string `json:"title"`
	Icon        string `json:"favicon"`
	Excerpt     string `json:"excerpt,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	ElapsedMs   int64  `json:"elapsedMs"`
	Timestamp   int64  `json:"timestamp"`
}

type SnapshotStore struct {
	Dir string
}

func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &SnapshotStore{Dir: dir}, nil
}

// Write stores the snapshot under <dir>/<contentKey>.json, replacing any
// previous snapshot for the same key.
func (store *SnapshotStore) Write(contentKey string, snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	path := filepath.Join(store.Dir, contentKey+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Read loads a snapshot back; only used by tools and tests.
func (store *SnapshotStore) Read(contentKey string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(store.Dir, contentKey+".json"))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snapshot, nil
}
