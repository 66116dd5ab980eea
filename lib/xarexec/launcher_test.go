// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLauncherExecPath(t *testing.T) {
	t.Parallel()

	launcher := &Launcher{
		MountPath: "/mnt/xarfuse/uid-1000/abc123",
		Target:    "xar_bootstrap.sh",
	}
	want := "/mnt/xarfuse/uid-1000/abc123/xar_bootstrap.sh"
	if got := launcher.ExecPath(); got != want {
		t.Errorf("exec path = %q, want %q", got, want)
	}
}

func TestLauncherArgv(t *testing.T) {
	t.Parallel()

	launcher := &Launcher{
		XarPath:   "/home/alice/tool.xar",
		MountPath: "/mnt/xarfuse/uid-1000/abc123",
		Target:    "xar_bootstrap.sh",
		Args:      []string{"--verbose", "input.txt"},
	}
	want := []string{
		"/bin/sh", "-e",
		"/mnt/xarfuse/uid-1000/abc123/xar_bootstrap.sh",
		"/home/alice/tool.xar",
		"--verbose", "input.txt",
	}
	if got := launcher.buildArgv(); !reflect.DeepEqual(got, want) {
		t.Errorf("argv = %q, want %q", got, want)
	}
}

func TestLauncherHoldOpen(t *testing.T) {
	t.Parallel()

	mountPath := t.TempDir()
	target := "bootstrap.sh"
	if err := os.WriteFile(filepath.Join(mountPath, target), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing target: %v", err)
	}

	launcher := &Launcher{MountPath: mountPath, Target: target}
	launcher.HoldOpen()
	if !launcher.opened {
		t.Fatal("expected descriptor to be held")
	}
	launcher.DropHold()
	if launcher.opened {
		t.Error("DropHold left the descriptor marked open")
	}
}

func TestLauncherHoldOpenMissingTarget(t *testing.T) {
	t.Parallel()

	launcher := &Launcher{MountPath: t.TempDir(), Target: "absent.sh"}
	// Best effort: the early open runs before the mount may exist.
	launcher.HoldOpen()
	if launcher.opened {
		t.Error("expected no descriptor for a missing target")
	}
}

func TestLauncherExecFailsWithoutTarget(t *testing.T) {
	t.Parallel()

	launcher := &Launcher{MountPath: t.TempDir(), Target: "absent.sh"}
	err := launcher.Exec(false)
	if err == nil {
		t.Fatal("expected error when the bootstrap cannot be opened")
	}
}
