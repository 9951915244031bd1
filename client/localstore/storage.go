// Package localstore opens the on-disk fiber.Storage that keeps the cart and
// the admin session between shopctl runs.
package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/storage/bbolt"
)

const (
	// FileName is the database file created inside the state directory.
	FileName = "shopctl.db"

	// Bucket holds every client key.
	Bucket = "shopctl"

	lockTimeout = 5 * time.Second
)

// Open creates dir if needed and opens the bbolt storage inside it.
// The file stays locked until Close, so a second Open of the same dir waits
// up to lockTimeout and then fails.
func Open(dir string) (s *bbolt.Storage, err error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	// bbolt.New panics when the file cannot be opened or locked.
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("failed to open state file in %s: %v", dir, r)
		}
	}()

	return bbolt.New(bbolt.Config{
		Database: filepath.Join(dir, FileName),
		Bucket:   Bucket,
		Timeout:  lockTimeout,
	}), nil
}
