// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// xarexec-fuse mounts the squashfs image embedded in a XAR file and
// execs the bootstrap program inside it.
//
// It is normally invoked through a shebang line at the top of the XAR
// itself:
//
//	#!/usr/bin/env xarexec_fuse
//
// so argv[1] is the path to the XAR file and the remaining arguments
// are the user's. The squashfs image is mounted under a per-user
// directory such as /mnt/xarfuse/uid-N/UUID-ns-Y, shared and reused
// across invocations of the same archive; a per-mount lockfile
// serializes racing invocations so the mount helper runs exactly once.
//
// The binary may run with elevated effective privileges. Every
// inconsistency it meets — unexpected ownership, permissions, helper
// failures, timeouts — is treated as a potential attack or corrupted
// environment and is fatal, not retried.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"

	"github.com/facebookincubator/xar/lib/process"
	"github.com/facebookincubator/xar/lib/xarexec"
	"github.com/facebookincubator/xar/lib/xarparser"
)

func main() {
	status, err := run(os.Args[1:])
	if err != nil {
		process.Fatal(err)
	}
	os.Exit(status)
}

// invocation is the parsed command line.
type invocation struct {
	mountOnly bool
	printOnly bool
	helpOnly  bool
	xarPath   string
	args      []string
}

var errUsage = errors.New("usage error")

// parseArgs implements the shebang calling convention: leading dash
// options, then the XAR path, then arguments forwarded verbatim to the
// bootstrap.
func parseArgs(args []string) (invocation, error) {
	var parsed invocation
	for len(args) > 0 && len(args[0]) > 0 && args[0][0] == '-' {
		switch args[0] {
		case "-m":
			parsed.mountOnly = true
		case "-n":
			parsed.printOnly = true
		case "-h":
			parsed.helpOnly = true
			return parsed, nil
		default:
			return parsed, errUsage
		}
		args = args[1:]
	}
	if len(args) == 0 {
		return parsed, errUsage
	}
	parsed.xarPath = args[0]
	parsed.args = args[1:]
	return parsed, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: xarexec-fuse [-m|-n] /path/to/file.xar [args...]
Options:
     -m: mount and print mountpoint, do not execute payload
     -n: print the mountpoint but don't mount`)
}

func run(args []string) (int, error) {
	launchTime := float64(time.Now().UnixMicro()) / 1e6
	os.Setenv("XAREXEC_LAUNCH_TIMESTAMP",
		strconv.FormatFloat(launchTime, 'f', 6, 64))

	if os.Getuid() != os.Geteuid() {
		return 0, errors.New("refusing to run with real uid != effective uid")
	}

	// A good default for the files we create. The saved value is
	// restored just before exec'ing the bootstrap.
	savedUmask := unix.Umask(0o022)

	parsed, err := parseArgs(args)
	if err != nil {
		usage()
		return 1, nil
	}
	if parsed.helpOnly {
		usage()
		return 0, nil
	}

	result := xarparser.ParseFile(parsed.xarPath)
	if result.HasError() {
		return 0, fmt.Errorf("parsing XAR header of %s: %s",
			parsed.xarPath, result.Err().Message())
	}
	header := result.Value()
	if !parsed.mountOnly && header.XarexecTarget == "" {
		return 0, fmt.Errorf("no XAREXEC_TARGET in XAR header of %s", parsed.xarPath)
	}

	descriptor, err := xarexec.NewResolver().Resolve(header)
	if err != nil {
		return 0, err
	}
	if parsed.printOnly {
		fmt.Println(descriptor.MountPath)
		return 0, nil
	}

	// Serialize with every other invocation racing on this mount
	// directory. The lock is held until exit or exec.
	lock, err := xarexec.AcquireLock(descriptor.LockfilePath)
	if err != nil {
		return 0, err
	}

	mounter := &xarexec.Mounter{
		XarPath:            parsed.xarPath,
		Descriptor:         descriptor,
		Offset:             header.Offset,
		IdleTimeoutSeconds: xarexec.IdleTimeout(),
	}
	if err := mounter.PrepareMountpoint(); err != nil {
		return 0, err
	}

	launcher := &xarexec.Launcher{
		XarPath:    parsed.xarPath,
		MountPath:  descriptor.MountPath,
		Target:     header.XarexecTarget,
		Args:       parsed.args,
		SavedUmask: savedUmask,
	}
	// Grab a reference into the mount as early as possible; see
	// Launcher.HoldOpen for the teardown race this defeats.
	launcher.HoldOpen()

	// If the mount turns out to be dead, whatever the early open hit
	// was not the live mount; drop it before the helper runs.
	freshMount, err := mounter.EnsureMounted(launcher.DropHold)
	if err != nil {
		return 0, err
	}

	// The lockfile mtime doubles as a liveness signal for stale-mount
	// reclamation.
	if err := lock.Touch(); err != nil {
		return 0, err
	}

	if parsed.mountOnly {
		fmt.Println(descriptor.MountPath)
		return 0, nil
	}

	// Replaces the process image; only returns on failure.
	return 0, launcher.Exec(freshMount)
}
