// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// Package xarparser parses and validates the text header at the front
// of a XAR file.
//
// A XAR file starts with a shebang line, a sequence of NAME="value"
// header lines, and a #xar_stop terminator, followed by a squashfs
// image at the byte offset declared by the OFFSET field. [Parse] reads
// a bounded prefix of the file, validates the structure, and returns a
// [Result] holding either a fully populated [Header] or a typed
// [ParseError]. There is no partially valid header: every grammar and
// structural rule must pass before a Header is exposed.
//
// This package is a library with fully recoverable errors. It never
// logs, never terminates the process, and is safe to use from tools
// that merely want to inspect a header (see cmd/xar-header). The
// privileged mount orchestration in lib/xarexec layers its own
// fatal-error policy on top.
package xarparser
