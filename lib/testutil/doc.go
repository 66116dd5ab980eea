// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for XAR packages.
//
// [WriteXar] builds a synthetic XAR file (shebang, header lines, stop
// marker, zero padding, squashfs magic at the declared offset) in a
// temporary directory. Parser and orchestration tests use it instead
// of hand-assembling byte layouts.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
