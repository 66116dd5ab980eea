// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"
)

// Launcher execs into the bootstrap program inside the mounted XAR.
type Launcher struct {
	// XarPath is passed to the bootstrap as its first positional
	// argument.
	XarPath string

	// MountPath is the root of the mounted image.
	MountPath string

	// Target is the bootstrap path relative to MountPath, from the
	// header's XAREXEC_TARGET.
	Target string

	// Args are the caller-forwarded arguments appended after XarPath.
	Args []string

	// SavedUmask is restored immediately before exec.
	SavedUmask int

	heldFd int
	opened bool
}

// ExecPath returns the absolute in-mount path of the bootstrap.
func (l *Launcher) ExecPath() string {
	return filepath.Join(l.MountPath, l.Target)
}

// HoldOpen opens a read-only descriptor on the bootstrap, best effort.
// The descriptor is deliberately inherited across exec: the kernel
// parses the bootstrap script, runs a shell, and that shell reopens
// the script — and the interpreter it execs reopens files in the XAR
// again. In each of those gaps a concurrent cleanup could tear down
// the mount; a held descriptor keeps the filesystem busy. Failure here
// is ignored; Exec retries once the mount is confirmed ready.
func (l *Launcher) HoldOpen() {
	fd, err := unix.Open(l.ExecPath(), unix.O_RDONLY, 0)
	if err != nil {
		l.opened = false
		return
	}
	l.heldFd = fd
	l.opened = true
}

// DropHold closes the held descriptor. Used when the mount turned out
// to be absent, where the early open cannot reference the right file.
func (l *Launcher) DropHold() {
	if l.opened {
		unix.Close(l.heldFd)
		l.opened = false
	}
}

// buildArgv constructs the final argument vector: a shell wrapper
// invoking the bootstrap with the archive path as the first positional
// argument, then the forwarded arguments.
func (l *Launcher) buildArgv() []string {
	argv := []string{"/bin/sh", "-e", l.ExecPath(), l.XarPath}
	return append(argv, l.Args...)
}

// Exec replaces the process image with the bootstrap. freshMount sets
// the environment marker that lets the bootstrap distinguish cold from
// warm starts. On success Exec does not return.
func (l *Launcher) Exec(freshMount bool) error {
	if !l.opened {
		l.HoldOpen()
	}
	if !l.opened {
		return fmt.Errorf("unable to open %s", l.ExecPath())
	}

	env := os.Environ()
	if freshMount {
		env = append(env, "XARFUSE_NEW_MOUNT=1")
	}

	argv := l.buildArgv()
	unix.Umask(l.SavedUmask)
	if err := syscall.Exec(argv[0], argv, env); err != nil {
		return fmt.Errorf("execv %s: %w", argv[0], err)
	}
	return nil
}
