// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/facebookincubator/xar/lib/clock"
	"github.com/facebookincubator/xar/lib/platform"
)

const (
	// helperExecutable performs the actual FUSE mount of the squashfs
	// image embedded in the XAR.
	helperExecutable = "squashfuse_ll"

	// readyTimeout bounds the wait for the helper's mount to appear.
	readyTimeout = 9 * time.Second

	// readyPollInterval is the sleep between mount-readiness probes.
	readyPollInterval = 100 * time.Microsecond
)

// Mounter mounts one XAR's image at the resolved mount path. Callers
// must hold the descriptor's lock for every state-mutating method.
type Mounter struct {
	// XarPath is the archive being mounted.
	XarPath string

	// Descriptor locates the mount.
	Descriptor *MountDescriptor

	// Offset is the validated image offset from the header.
	Offset uint64

	// IdleTimeoutSeconds is forwarded to the helper; zero disables the
	// helper's idle unmount.
	IdleTimeoutSeconds uint64

	// FuseConfPath is consulted for the allow_root option. Defaults to
	// /etc/fuse.conf when empty.
	FuseConfPath string

	// HelperPath overrides the mount helper binary; the default is
	// looked up on PATH.
	HelperPath string

	// Clock drives the readiness polling loop. Defaults to the real
	// clock.
	Clock clock.Clock

	// Probe reports whether a live FUSE mount exists at a path.
	// Defaults to platform.IsFuseMount.
	Probe func(path string) (bool, error)
}

// PrepareMountpoint creates the mount directory. Losing a mkdir race
// to another invocation is fine; any other failure is not.
func (m *Mounter) PrepareMountpoint() error {
	if err := os.Mkdir(m.Descriptor.MountPath, 0o755); err != nil {
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("mkdir failed: %w", err)
		}
		return nil
	}
	return platform.FixupOwnership(m.Descriptor.MountPath)
}

// IsMounted reports whether a live FUSE filesystem is mounted at the
// mount path. With repair set, a mount whose transport is dead (the
// helper process is gone) is lazily unmounted and reported as not
// mounted so the caller can remount.
func (m *Mounter) IsMounted(repair bool) (bool, error) {
	probe := m.Probe
	if probe == nil {
		probe = platform.IsFuseMount
	}
	mounted, err := probe(m.Descriptor.MountPath)
	if err == nil {
		return mounted, nil
	}
	if !repair {
		return false, nil
	}
	if errors.Is(err, unix.ENOTCONN) || errors.Is(err, unix.ECONNABORTED) {
		if unmountErr := m.unmountBroken(); unmountErr != nil {
			return false, unmountErr
		}
		return false, nil
	}
	return false, fmt.Errorf("statfs failed for %s: %w", m.Descriptor.MountPath, err)
}

func (m *Mounter) unmountBroken() error {
	argv := platform.UnmountCommand(m.Descriptor.MountPath)
	if err := exec.Command(argv[0], argv[1:]...).Run(); err != nil {
		return fmt.Errorf(
			"unable to umount broken mount; try 'fusermount -u %s' by hand: %w",
			m.Descriptor.MountPath, err)
	}
	return nil
}

// SpawnHelper sanity-checks the mount directory, then runs the mount
// helper to completion. The helper daemonizes after setting up the
// mount, so a clean exit here means the mount is being established;
// AwaitReady confirms it. The helper child gets only the three
// standard descriptors, bound to the null device, so no privileged
// descriptor leaks into it.
func (m *Mounter) SpawnHelper() error {
	// Permissions on the mount point can legitimately change once
	// mounted, so this check only makes sense now, after the lock is
	// held and the decision to mount is made.
	if err := checkFileSanity(m.Descriptor.MountPath, expectDirectory, 0o755); err != nil {
		return err
	}

	helper := m.HelperPath
	if helper == "" {
		helper = helperExecutable
	}

	var options strings.Builder
	fmt.Fprintf(&options, "-ooffset=%d", m.Offset)
	if m.IdleTimeoutSeconds > 0 {
		fmt.Fprintf(&options, ",timeout=%d", m.IdleTimeoutSeconds)
	}
	fuseConf := m.FuseConfPath
	if fuseConf == "" {
		fuseConf = "/etc/fuse.conf"
	}
	if platform.FuseAllowsVisibleMounts(fuseConf) {
		options.WriteString(",allow_root")
	}

	null, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", os.DevNull, err)
	}
	defer null.Close()

	command := exec.Command(helper, options.String(), m.XarPath, m.Descriptor.MountPath)
	command.Stdin = null
	command.Stdout = null
	command.Stderr = null

	err = command.Run()
	if err == nil {
		return nil
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return fmt.Errorf("%s failed with signal %d", helper, status.Signal())
		}
		return fmt.Errorf("%s failed with exit status %d", helper, exitError.ExitCode())
	}
	return fmt.Errorf(
		"failed to exec %s: %w. Try installing squashfuse from "+
			"https://github.com/vasi/squashfuse/releases", helper, err)
}

// EnsureMounted makes the mount live: a mount that already exists is
// reused as-is, otherwise the helper is spawned and the mount awaited.
// beforeMount runs after the decision to mount and before the helper
// spawns; callers use it to drop references acquired against a
// mountpoint that turned out to be dead. Returns whether a fresh mount
// was created.
func (m *Mounter) EnsureMounted(beforeMount func()) (freshMount bool, err error) {
	mounted, err := m.IsMounted(true)
	if err != nil {
		return false, err
	}
	if !mounted {
		if beforeMount != nil {
			beforeMount()
		}
		if err := m.SpawnHelper(); err != nil {
			return false, err
		}
		freshMount = true
	}
	if err := m.AwaitReady(); err != nil {
		return freshMount, err
	}
	return freshMount, nil
}

// AwaitReady polls until the mount is visible or the readiness timeout
// elapses.
func (m *Mounter) AwaitReady() error {
	clk := m.Clock
	if clk == nil {
		clk = clock.Real()
	}
	deadline := clk.Now().Add(readyTimeout)
	for {
		mounted, err := m.IsMounted(false)
		if err != nil {
			return err
		}
		if mounted {
			return nil
		}
		if clk.Now().After(deadline) {
			return errors.New("timed out waiting for squashfs mount")
		}
		clk.Sleep(readyPollInterval)
	}
}
