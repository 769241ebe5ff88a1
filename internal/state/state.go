// Package state persists which folders are open, per root directory.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"
)

// OpenState is the saved open-folder set for one root.
type OpenState struct {
	Root      string    `json:"root"`
	Open      []string  `json:"open"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Dir is where state files live. Tests point it at a temp dir.
var Dir = defaultDir

func defaultDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return filepath.Join(cacheDir, "foldtree")
}

// statePath returns the state file for root. The name is derived from a
// hash of the full path so equally named roots don't collide.
func statePath(root string) string {
	sum := sha256.Sum256([]byte(root))
	key := filepath.Base(root) + "-" + hex.EncodeToString(sum[:6])
	return filepath.Join(Dir(), key+".json")
}

// Load returns the saved open folders for root, or nil if nothing usable
// is stored.
func Load(root string) []string {
	path := statePath(root)

	// Shared lock; blocks while a writer holds the exclusive lock.
	fileLock := flock.New(path + ".lock")
	if err := fileLock.RLock(); err != nil {
		return nil
	}
	defer fileLock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var st OpenState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil
	}

	if st.Root != root {
		return nil
	}

	return st.Open
}

// Save stores the open folders for root.
func Save(root string, open []string) error {
	sorted := slices.Clone(open)
	slices.Sort(sorted)

	data, err := json.Marshal(OpenState{
		Root:      root,
		Open:      sorted,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	path := statePath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return err
	}
	defer fileLock.Unlock()

	// Write to a temp file then rename so readers never see a partial file.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
