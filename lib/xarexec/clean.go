// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/facebookincubator/xar/lib/clock"
	"github.com/facebookincubator/xar/lib/platform"
)

// Cleaner reclaims idle XAR mounts. Every squashfuse instance already
// unmounts itself after its idle timeout, but the mount directories and
// lockfiles stay behind, and a helper that died uncleanly can leave the
// mount itself behind too. The cleaner walks the mount roots and
// removes whatever has been unused longer than MaxAge.
//
// The lockfile mtime is the liveness signal: every invocation touches
// it after mounting, so a recent mtime means the mount saw recent use.
// Holding the exclusive lock during cleanup excludes the window where
// an invocation has resolved its paths but not yet touched the file.
type Cleaner struct {
	// Roots are the mount roots to sweep.
	Roots []string

	// MaxAge is how long a lockfile may go untouched before its mount
	// is reclaimed.
	MaxAge time.Duration

	// DryRun reports what would be removed without removing it.
	DryRun bool

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger

	// Clock supplies the current time. Defaults to the real clock.
	Clock clock.Clock

	// Unmount detaches the fuse mount at path. Defaults to running the
	// platform unmount command.
	Unmount func(path string) error
}

// Clean sweeps every root. Per-entry failures are logged and skipped;
// the returned error reflects only a wholly unusable root. The number
// of reclaimed mounts is returned for reporting.
func (c *Cleaner) Clean() (reclaimed int, err error) {
	for _, root := range c.Roots {
		n, rootErr := c.cleanRoot(root)
		reclaimed += n
		if rootErr != nil && err == nil {
			err = rootErr
		}
	}
	return reclaimed, err
}

func (c *Cleaner) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Cleaner) cleanRoot(root string) (int, error) {
	userDirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading mount root %s: %w", root, err)
	}

	reclaimed := 0
	for _, userDir := range userDirs {
		if !userDir.IsDir() || !strings.HasPrefix(userDir.Name(), "uid-") {
			continue
		}
		baseDir := filepath.Join(root, userDir.Name())
		entries, err := os.ReadDir(baseDir)
		if err != nil {
			c.logger().Warn("skipping unreadable user directory",
				"dir", baseDir, "error", err)
			continue
		}
		for _, entry := range entries {
			name, ok := strings.CutPrefix(entry.Name(), "lockfile.")
			if !ok || name == "" {
				continue
			}
			if c.reclaim(baseDir, name) {
				reclaimed++
			}
		}
	}
	return reclaimed, nil
}

// reclaim handles one lockfile/mount pair and reports whether the
// mount directory was (or would be) removed.
func (c *Cleaner) reclaim(baseDir, name string) bool {
	lockfilePath := filepath.Join(baseDir, "lockfile."+name)
	mountPath := filepath.Join(baseDir, name)
	logger := c.logger().With("mount", mountPath)

	info, err := os.Stat(lockfilePath)
	if err != nil {
		logger.Warn("cannot stat lockfile", "error", err)
		return false
	}
	clk := c.Clock
	if clk == nil {
		clk = clock.Real()
	}
	age := clk.Now().Sub(info.ModTime())
	if age < c.MaxAge {
		logger.Debug("mount recently used", "age", age)
		return false
	}

	if c.DryRun {
		logger.Info("would reclaim idle mount", "age", age)
		return true
	}

	// A blocking lock here could stall behind a mount in active setup,
	// which is exactly the mount we must not touch.
	lockfile, err := os.OpenFile(lockfilePath, os.O_RDWR, 0o600)
	if err != nil {
		logger.Warn("cannot open lockfile", "error", err)
		return false
	}
	defer lockfile.Close()
	if err := unix.Flock(int(lockfile.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		logger.Debug("lockfile held, mount in use")
		return false
	}

	mounted, err := platform.IsFuseMount(mountPath)
	if err != nil && !os.IsNotExist(err) {
		logger.Warn("cannot inspect mountpoint", "error", err)
		return false
	}
	if mounted {
		unmount := c.Unmount
		if unmount == nil {
			unmount = runUnmountCommand
		}
		if err := unmount(mountPath); err != nil {
			logger.Warn("unmount failed", "error", err)
			return false
		}
	}

	// Rmdir refuses non-empty directories, so a mount that sprang back
	// to life between the unmount and here is left alone.
	if err := unix.Rmdir(mountPath); err != nil && !os.IsNotExist(err) {
		logger.Warn("cannot remove mount directory", "error", err)
		return false
	}
	if err := os.Remove(lockfilePath); err != nil {
		logger.Warn("cannot remove lockfile", "error", err)
	}
	logger.Info("reclaimed idle mount", "age", age)
	return true
}

func runUnmountCommand(path string) error {
	argv := platform.UnmountCommand(path)
	output, err := exec.Command(argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)",
			strings.Join(argv, " "), err, strings.TrimSpace(string(output)))
	}
	return nil
}
