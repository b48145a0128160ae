package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
)

// VisitStore persists the cosmetic visitor counter in a small JSON file.
// Concurrent sessions may double count; that is acceptable.
type VisitStore struct {
	path string
}

func NewVisitStore(path string) *VisitStore {
	return &VisitStore{path: path}
}

type visitFile struct {
	Count int64 `json:"count"`
}

// Increment bumps the stored count and returns it. A missing file starts
// from a random base in [500, 1500). On a write error the incremented value
// is still returned.
func (v *VisitStore) Increment() (int64, error) {
	var stored visitFile

	data, err := os.ReadFile(v.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		stored.Count = 500 + rand.Int64N(1000)
	case err != nil:
		return 0, fmt.Errorf("read visit count: %w", err)
	default:
		if err := json.Unmarshal(data, &stored); err != nil {
			stored.Count = 500 + rand.Int64N(1000)
		}
	}

	stored.Count++

	payload, _ := json.Marshal(stored)
	if err := os.MkdirAll(filepath.Dir(v.path), 0o755); err != nil {
		return stored.Count, fmt.Errorf("create visit dir: %w", err)
	}
	if err := os.WriteFile(v.path, payload, 0o644); err != nil {
		return stored.Count, fmt.Errorf("write visit count: %w", err)
	}
	return stored.Count, nil
}
