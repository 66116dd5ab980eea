// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// Package xarexec mounts a XAR's embedded squashfs image and execs
// into it.
//
// The flow is a small state machine driven by cmd/xarexec-fuse:
// [Resolver.Resolve] derives a deterministic [MountDescriptor] from
// the parsed header and the environment, [AcquireLock] serializes
// racing invocations on a per-mount-directory advisory lock, and
// [Mounter] either discovers a live mount or spawns the external
// squashfuse helper and polls until the mount is ready. [Launcher]
// then replaces the process image with the bootstrap program inside
// the mount, holding a file descriptor open into the mount to defeat
// a concurrent-teardown race.
//
// This code runs with possibly elevated effective privileges, so every
// directory and lockfile it touches is checked against strict
// ownership and permission expectations first. A mismatch is reported
// as an error that the binary treats as fatal: on a privileged path a
// non-conforming file is a security anomaly, not a retryable
// condition. Errors from this package are plain Go errors; the
// recoverable-error regime of header parsing lives entirely in
// lib/xarparser.
package xarexec
