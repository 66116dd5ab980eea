// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// Package platform isolates the OS-specific primitives the mount
// orchestration depends on: detecting a FUSE-mounted filesystem,
// enumerating candidate mount roots, building the unmount command,
// reading the fuse daemon's configuration, group membership, and
// namespace/cgroup inode resolution.
//
// Each primitive has per-platform implementations selected by build
// tag. lib/xarexec depends only on the functions declared here and is
// itself platform-neutral.
package platform
