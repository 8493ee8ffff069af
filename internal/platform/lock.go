package platform

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrOutputLocked means another run is writing icons to the same directory.
var ErrOutputLocked = errors.New("another icon generation is writing to this directory")

type OutputLock struct {
	lock *flock.Flock
}

// LockOutputDir takes an exclusive, non-blocking lock for dir. The lock file
// lives in the OS temp dir so the output directory only ever holds icons.
func LockOutputDir(dir string) (*OutputLock, error) {
	lockPath, err := outputLockPath(dir)
	if err != nil {
		return nil, err
	}
	f := flock.New(lockPath)
	locked, err := f.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, dir)
	}
	return &OutputLock{lock: f}, nil
}

// Release deletes the lock file while the lock is still held, then unlocks.
// Windows cannot delete an open file; there the file stays for the next run.
func (l *OutputLock) Release() error {
	if l == nil || l.lock == nil || !l.lock.Locked() {
		return nil
	}
	_ = os.Remove(l.lock.Path())
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("unlock output lock: %w", err)
	}
	return nil
}

func outputLockPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(os.TempDir(), "icongen-"+hex.EncodeToString(sum[:8])+".lock"), nil
}
