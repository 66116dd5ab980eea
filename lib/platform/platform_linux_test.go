// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestFuseAllowsVisibleMounts(t *testing.T) {
	t.Parallel()

	writeConf := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "fuse.conf")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing conf: %v", err)
		}
		return path
	}

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		conf := writeConf(t, "# comment\nuser_allow_other\n")
		if !FuseAllowsVisibleMounts(conf) {
			t.Error("expected user_allow_other to be detected")
		}
	})

	t.Run("commented out", func(t *testing.T) {
		t.Parallel()
		conf := writeConf(t, "#user_allow_other\n")
		if FuseAllowsVisibleMounts(conf) {
			t.Error("commented directive should not count")
		}
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		conf := writeConf(t, "mount_max = 1000\n")
		if FuseAllowsVisibleMounts(conf) {
			t.Error("expected false without the directive")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if FuseAllowsVisibleMounts(filepath.Join(t.TempDir(), "nope")) {
			t.Error("expected false for missing config")
		}
	})
}

func TestIsFuseMountPlainDirectory(t *testing.T) {
	t.Parallel()

	mounted, err := IsFuseMount(t.TempDir())
	if err != nil {
		t.Fatalf("statfs on a plain directory: %v", err)
	}
	if mounted {
		t.Error("plain directory should not look FUSE-mounted")
	}
}

func TestIsFuseMountMissingPath(t *testing.T) {
	t.Parallel()

	_, err := IsFuseMount(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected statfs error for missing path")
	}
}

func TestCgroupInode(t *testing.T) {
	t.Parallel()

	// Lay out a fake cgroup filesystem and a cgroups(7) file pointing
	// into it.
	root := t.TempDir()
	groupPath := filepath.Join(root, "machine.slice", "worker.scope")
	if err := os.MkdirAll(groupPath, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cgroupFile := filepath.Join(t.TempDir(), "cgroup")
	content := "0::/machine.slice/worker.scope\n"
	if err := os.WriteFile(cgroupFile, []byte(content), 0o644); err != nil {
		t.Fatalf("writing cgroup file: %v", err)
	}

	inode, ok := cgroupInodeFrom(cgroupFile, []string{root})
	if !ok {
		t.Fatal("expected cgroup inode to resolve")
	}
	var stat unix.Stat_t
	if err := unix.Stat(groupPath, &stat); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if inode != stat.Ino {
		t.Errorf("inode = %d, want %d", inode, stat.Ino)
	}
}

func TestCgroupInodeUnresolvable(t *testing.T) {
	t.Parallel()

	cgroupFile := filepath.Join(t.TempDir(), "cgroup")
	if err := os.WriteFile(cgroupFile, []byte("garbage\n"), 0o644); err != nil {
		t.Fatalf("writing cgroup file: %v", err)
	}
	if _, ok := cgroupInodeFrom(cgroupFile, []string{t.TempDir()}); ok {
		t.Error("expected no inode from a malformed cgroup file")
	}
}

func TestNamespaceInode(t *testing.T) {
	t.Parallel()

	if _, ok := NamespaceInode("/proc/self/ns/mnt"); !ok {
		t.Skip("mount namespace marker not available")
	}
	inode, ok := NamespaceInode("/proc/self/ns/mnt")
	if !ok || inode == 0 {
		t.Errorf("inode = %d, ok = %v; want a nonzero inode", inode, ok)
	}
}
