// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time operations for testability. Production
// code injects [Real]; tests inject [Fake] with deterministic time
// control. The mount-readiness polling loop is the main consumer: its
// several-second wall-clock timeout would make real-time tests both
// slow and flaky.
package clock
