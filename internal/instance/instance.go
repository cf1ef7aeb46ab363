// Package instance enforces one viewer process per machine through an
// OS-level file lock.
package instance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock guards the viewer's single-instance invariant. It is held for the
// whole process lifetime and released implicitly at exit.
type Lock struct {
	fl *flock.Flock
}

// DefaultPath places the lock file in the OS temp directory.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "mapvas.lock")
}

// Acquire tries to take the lock without blocking. ok is false when another
// viewer already holds it; that is not an error, the second instance simply
// exits. A non-nil error means the lock file itself is unusable.
func Acquire(path string) (l *Lock, ok bool, err error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire instance lock %s: %w", path, err)
	}
	if !locked {
		return nil, false, nil
	}
	return &Lock{fl: fl}, true, nil
}

// Release unlocks explicitly; safe to call once at shutdown.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
