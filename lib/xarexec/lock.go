// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock is the per-mount-directory advisory lock that serializes racing
// mount attempts across processes. It is held until the process exits
// or execs; a crashed holder releases it implicitly.
type Lock struct {
	file *os.File
	path string
}

// AcquireLock opens or creates the lockfile, sanity-checks it, and
// takes a blocking exclusive flock. The call suspends the process
// until the lock is free.
func AcquireLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("can't open lockfile: %w", err)
	}
	if err := checkFileSanity(path, expectFile, 0o600); err != nil {
		f.Close()
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("can't flock lockfile: %w", err)
	}
	return &Lock{file: f, path: path}, nil
}

// Touch updates the lockfile's modification time. External stale-mount
// reclamation uses the mtime as a liveness signal, so this runs after
// every successful mount confirmation.
func (l *Lock) Touch() error {
	if err := unix.Futimes(int(l.file.Fd()), nil); err != nil {
		return fmt.Errorf("touching lockfile %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lockfile path.
func (l *Lock) Path() string {
	return l.path
}
