// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// IsUserInGroup reports whether gid is one of the process's
// supplementary groups.
func IsUserInGroup(gid uint32) bool {
	groups, err := os.Getgroups()
	if err != nil {
		return false
	}
	for _, group := range groups {
		if uint32(group) == gid {
			return true
		}
	}
	return false
}

// NamespaceInode returns the inode of a namespace marker file such as
// /proc/self/ns/mnt. The inode is the namespace id. ok is false when
// the marker cannot be resolved (no /proc, or not on Linux).
func NamespaceInode(markerPath string) (inode uint64, ok bool) {
	var stat unix.Stat_t
	if err := unix.Stat(markerPath, &stat); err != nil {
		return 0, false
	}
	return stat.Ino, true
}
