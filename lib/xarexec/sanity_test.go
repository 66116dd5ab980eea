// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckFileSanityDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "mountpoint")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Chmod(dir, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if err := checkFileSanity(dir, expectDirectory, 0o755); err != nil {
		t.Errorf("conforming directory rejected: %v", err)
	}

	if err := checkFileSanity(dir, expectFile, 0o755); err == nil {
		t.Error("directory accepted where a file was expected")
	} else if !strings.Contains(err.Error(), "should be a normal file") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCheckFileSanityPermissions(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "mountpoint")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Chmod(dir, 0o775); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	err := checkFileSanity(dir, expectDirectory, 0o755)
	if err == nil {
		t.Fatal("group-writable directory accepted")
	}
	if !strings.Contains(err.Error(), "invalid permissions") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCheckFileSanityLockfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lockfile.test")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("writing lockfile: %v", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if err := checkFileSanity(path, expectFile, 0o600); err != nil {
		t.Errorf("conforming lockfile rejected: %v", err)
	}
	if err := checkFileSanity(path, expectDirectory, 0o600); err == nil {
		t.Error("file accepted where a directory was expected")
	}
}

func TestCheckFileSanityMissingPath(t *testing.T) {
	t.Parallel()

	err := checkFileSanity(filepath.Join(t.TempDir(), "absent"), expectFile, 0o600)
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}
