// Package draft persists a terminal's open rows to disk so a restart
// picks up the unsubmitted work instead of waiting empty-handed for the
// next snapshot.
package draft

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dparedesb/servicetimes/internal/rows"
)

// Store is what the board writes through after every change.
type Store interface {
	Save(rs []rows.Row) error
	Load() ([]rows.Row, error)
}

type fileData struct {
	SavedAt time.Time  `json:"saved_at"`
	Rows    []rows.Row `json:"rows"`
}

// FileStore keeps the open rows in one JSON file. Writes go through a
// temp file and a rename so a crash mid-write never corrupts the
// previous draft set.
type FileStore struct {
	path    string
	mu      sync.Mutex
	timeNow func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:    path,
		timeNow: time.Now,
	}
}

func (fs *FileStore) Save(rs []rows.Row) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	// The editing flag is focus state, not row state. Persisting it
	// would shield restored rows from snapshot merges forever, since
	// nothing holds focus on a freshly restarted terminal.
	saved := make([]rows.Row, len(rs))
	for i, r := range rs {
		saved[i] = r.Clone()
		saved[i].IsEditing = false
	}

	data, err := json.MarshalIndent(fileData{SavedAt: fs.timeNow(), Rows: saved}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal drafts: %w", err)
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write drafts: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("failed to replace drafts file: %w", err)
	}
	return nil
}

// Load returns the persisted rows, or nothing when no draft file exists
// yet.
func (fs *FileStore) Load() ([]rows.Row, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read drafts: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode drafts: %w", err)
	}
	for i := range data.Rows {
		data.Rows[i].IsEditing = false
	}
	return data.Rows, nil
}
