package state

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrLocked is returned when another run holds the generated fields lock.
var ErrLocked = errors.New("generated fields are locked by another process")

// staleLockAge applies only to lock files that carry no readable pid.
const staleLockAge = 10 * time.Minute

// Lock is an advisory lock file next to the generated fields file.
type Lock struct {
	path    string
	content []byte
}

// NewLock returns the lock for the generated fields file at path.
func NewLock(path string) *Lock {
	return &Lock{path: path + ".lock"}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire creates the lock file. An existing lock is replaced only when the
// process recorded in it is no longer running.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	if l.isHeld() {
		return fmt.Errorf("%w (lock file: %s); remove it manually if no other run is active", ErrLocked, l.path)
	}
	_ = os.Remove(l.path)

	content := []byte(fmt.Sprintf("pid=%d\ntime=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339Nano)))
	// Fails if another process created the file since the check.
	// #nosec G304
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w (lock file: %s)", ErrLocked, l.path)
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	l.content = content
	return nil
}

// Release removes the lock file if it is still the one this lock wrote.
func (l *Lock) Release() error {
	if l.content == nil {
		return nil
	}
	// #nosec G304
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.content = nil
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}
	if !bytes.Equal(data, l.content) {
		l.content = nil
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	l.content = nil
	return nil
}

// isHeld reports whether an existing lock file belongs to a live process.
func (l *Lock) isHeld() bool {
	info, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	// #nosec G304
	data, err := os.ReadFile(l.path)
	if err != nil {
		return true
	}
	pid, ok := lockPID(data)
	if !ok {
		return time.Since(info.ModTime()) <= staleLockAge
	}
	return processAlive(pid)
}

func lockPID(data []byte) (int, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		v, found := strings.CutPrefix(strings.TrimSpace(sc.Text()), "pid=")
		if !found {
			continue
		}
		pid, err := strconv.Atoi(v)
		if err != nil || pid <= 0 {
			return 0, false
		}
		return pid, true
	}
	return 0, false
}

// processAlive probes pid with signal 0. EPERM means the process exists
// under another user.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
