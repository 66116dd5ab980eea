// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// macOS FUSE implementations have changed filesystem type numbers over
// the years; the type name is the stable signal.
var fuseTypeNames = map[string]bool{
	"osxfuse":   true,
	"osxfusefs": true,
	"macfuse":   true,
}

const (
	// Catalina and later keep the writable data volume here.
	dataMountRoot = "/System/Volumes/Data/mnt/xarfuse"
	rootMountRoot = "/mnt/xarfuse"
)

// IsFuseMount reports whether the filesystem at path is FUSE-mounted.
func IsFuseMount(path string) (bool, error) {
	var buffer unix.Statfs_t
	if err := unix.Statfs(path, &buffer); err != nil {
		return false, err
	}
	return fuseTypeNames[typeName(&buffer)], nil
}

func typeName(buffer *unix.Statfs_t) string {
	name := make([]byte, 0, len(buffer.Fstypename))
	for _, c := range buffer.Fstypename {
		if c == 0 {
			break
		}
		name = append(name, byte(c))
	}
	return string(name)
}

// DefaultMountRoots returns the candidate mount roots in preference
// order.
func DefaultMountRoots() []string {
	return []string{dataMountRoot, rootMountRoot, "/dev/shm"}
}

// UnmountCommand returns the argument vector that unmounts the FUSE
// filesystem at path.
func UnmountCommand(path string) []string {
	return []string{"umount", path}
}

// FuseAllowsVisibleMounts always reports false on macOS.
func FuseAllowsVisibleMounts(confPath string) bool {
	return false
}

// FixupOwnership chowns path to the effective uid and gid. On macOS,
// mkdir sets a new directory's group to that of the enclosing
// directory, which is not necessarily a group of the euid executing
// the XAR.
func FixupOwnership(path string) error {
	return os.Chown(path, os.Geteuid(), os.Getegid())
}

// CgroupInode always reports no cgroup on macOS.
func CgroupInode(cgroupFile string) (inode uint64, ok bool) {
	return 0, false
}

// NoMountRootsHelp is the operator guidance printed when no usable
// mount root exists.
func NoMountRootsHelp() string {
	return "Unable to find a suitable 01777 mount root. Try: mkdir $DIR && " +
		"chmod 01777 $DIR, with DIR=" + dataMountRoot + " on macOS 10.15 " +
		"Catalina or later and DIR=" + rootMountRoot + " on earlier versions"
}
