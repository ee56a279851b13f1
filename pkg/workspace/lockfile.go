package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// LockFileName guards an output directory against concurrent runs.
const LockFileName = ".refold.lock"

// lockFilePath returns the path for an output directory's lock file.
func lockFilePath(outputDir string) string {
	return filepath.Join(outputDir, LockFileName)
}

// CreateLockFile creates a lock file for a run, writing the process ID to it.
// Acquisition is atomic: O_EXCL makes the existing file the loser's signal,
// so two simultaneous runs cannot both take the lock.
func CreateLockFile(outputDir string, pid int) error {
	path := lockFilePath(outputDir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			if existing, readErr := ReadLockFile(outputDir); readErr == nil {
				return fmt.Errorf("output directory is locked by pid %d (%s); remove the lock if that run is gone", existing, path)
			}
			return fmt.Errorf("output directory is locked (%s); remove the lock if that run is gone", path)
		}
		return err
	}
	defer f.Close()

	if _, err := f.Write([]byte(strconv.Itoa(pid))); err != nil {
		return fmt.Errorf("write lock file: %w", err)
	}
	return nil
}

// RemoveLockFile deletes a run's lock file.
func RemoveLockFile(outputDir string) error {
	err := os.Remove(lockFilePath(outputDir))
	// It's not an error if the file doesn't exist.
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ReadLockFile reads the PID from a run's lock file.
func ReadLockFile(outputDir string) (int, error) {
	content, err := os.ReadFile(lockFilePath(outputDir))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(string(content))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}
	return pid, nil
}
