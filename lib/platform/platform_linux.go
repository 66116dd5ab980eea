// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// On Linux a squashfuse mount reports the generic FUSE filesystem type.
const fuseSuperMagic = 0x65735546

const defaultMountRoot = "/mnt/xarfuse"

// cgroupRoots are the places a cgroup path from cgroups(7) may be
// anchored.
var cgroupRoots = []string{"/sys/fs/cgroup", "/cgroup2"}

// IsFuseMount reports whether the filesystem at path is FUSE-mounted.
// The error is the raw statfs failure; callers distinguish
// disconnected-transport errors from the rest.
func IsFuseMount(path string) (bool, error) {
	var buffer unix.Statfs_t
	if err := unix.Statfs(path, &buffer); err != nil {
		return false, err
	}
	return buffer.Type == fuseSuperMagic, nil
}

// DefaultMountRoots returns the candidate mount roots in preference
// order.
func DefaultMountRoots() []string {
	return []string{defaultMountRoot, "/dev/shm"}
}

// UnmountCommand returns the argument vector that lazily unmounts the
// FUSE filesystem at path.
func UnmountCommand(path string) []string {
	return []string{"/bin/fusermount", "-z", "-q", "-u", path}
}

// FuseAllowsVisibleMounts reports whether the fuse configuration at
// confPath enables "user_allow_other", which lets non-owners see the
// mount.
func FuseAllowsVisibleMounts(confPath string) bool {
	f, err := os.Open(confPath)
	if err != nil {
		return false
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() == "user_allow_other" {
			return true
		}
	}
	return false
}

// FixupOwnership is a no-op on Linux: mkdir already creates directories
// owned by the effective uid and gid.
func FixupOwnership(path string) error {
	return nil
}

// CgroupInode resolves the inode of the cgroup this process runs in,
// from a cgroups(7) file (typically /proc/self/cgroup). Each line is
// three colon-separated fields; the third is a path relative to the
// cgroup filesystem root. ok is false when no line resolves.
func CgroupInode(cgroupFile string) (inode uint64, ok bool) {
	return cgroupInodeFrom(cgroupFile, cgroupRoots)
}

func cgroupInodeFrom(cgroupFile string, roots []string) (inode uint64, ok bool) {
	f, err := os.Open(cgroupFile)
	if err != nil {
		return 0, false
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), ":", 3)
		if len(fields) != 3 || fields[2] == "" {
			continue
		}
		for _, root := range roots {
			var stat unix.Stat_t
			if err := unix.Stat(root+fields[2], &stat); err == nil {
				return stat.Ino, true
			}
		}
	}
	return 0, false
}

// NoMountRootsHelp is the operator guidance printed when no usable
// mount root exists.
func NoMountRootsHelp() string {
	return "Unable to find a suitable 01777 mount root. Try: mkdir " +
		defaultMountRoot + " && chmod 01777 " + defaultMountRoot
}
