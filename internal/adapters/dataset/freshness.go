// Package dataset inspects the on-disk data directory: whether the scraped
// dataset is recent enough and when its contents change.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// DefaultMaxAge is the freshness window for the scraped dataset.
const DefaultMaxAge = 7 * 24 * time.Hour

// Freshness describes the dataset file at one instant.
type Freshness struct {
	Path    string        `json:"path"`
	Exists  bool          `json:"exists"`
	ModTime time.Time     `json:"modified_at,omitzero"`
	Age     time.Duration `json:"-"`
	Fresh   bool          `json:"fresh"`
}

// CheckFreshness reports whether path exists and was modified less than
// maxAge before now. A missing file is stale, not an error. A modification
// time in the future counts as age zero.
func CheckFreshness(path string, maxAge time.Duration, now time.Time) (Freshness, error) {
	f := Freshness{Path: path}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("stat dataset %s: %w", path, err)
	}

	f.Exists = true
	f.ModTime = info.ModTime()
	f.Age = max(now.Sub(f.ModTime), 0)
	f.Fresh = f.Age < maxAge
	return f, nil
}
