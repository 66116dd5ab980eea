// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. The privileged
// xarexec-fuse binary treats nearly every failure as fatal; these
// functions centralize the diagnostic-then-exit pattern so the rest of
// the code returns plain errors.
package process

import (
	"fmt"
	"os"
)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run(). Library packages must never call it.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
