// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/facebookincubator/xar/lib/platform"
)

// fileExpectation selects the file type checkFileSanity requires.
type fileExpectation int

const (
	expectDirectory fileExpectation = iota + 1
	expectFile
)

// checkFileSanity verifies that path is the expected kind of file,
// owned by the effective uid, group-owned by the effective gid or one
// of the process's groups, with permission bits exactly perms. These
// checks gate every filesystem object the privileged path trusts.
func checkFileSanity(path string, expected fileExpectation, perms uint32) error {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Uid != uint32(os.Geteuid()) {
		return fmt.Errorf("invalid owner of %s: uid %d", path, stat.Uid)
	}
	if stat.Gid != uint32(os.Getegid()) && !platform.IsUserInGroup(stat.Gid) {
		return fmt.Errorf("invalid group of %s: gid %d", path, stat.Gid)
	}
	switch expected {
	case expectDirectory:
		if stat.Mode&unix.S_IFMT != unix.S_IFDIR {
			return fmt.Errorf("should be a directory: %s", path)
		}
	case expectFile:
		if stat.Mode&unix.S_IFMT != unix.S_IFREG {
			return fmt.Errorf("should be a normal file: %s", path)
		}
	}
	if got := uint32(stat.Mode) & 0o7777; got != perms {
		return fmt.Errorf("invalid permissions on %s: expected %04o, got %04o",
			path, perms, got)
	}
	return nil
}
