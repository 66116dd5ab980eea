// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"os"
	"strconv"
	"strings"
)

const (
	// defaultIdleTimeout is the idle unmount timeout passed to the
	// mount helper, in seconds. 14.5 minutes; stale-mount reclamation
	// uses 15.
	defaultIdleTimeout = 870

	// idleTimeoutOverridePath is a host-level override consulted when
	// the environment does not decide.
	idleTimeoutOverridePath = "/var/lib/xarexec_timeout_override"
)

// IdleTimeout determines the idle unmount timeout in seconds. Zero
// disables the timeout.
//
// XAR_MOUNT_TIMEOUT wins when set; an empty or unparseable value is
// zero. Otherwise the override file's leading integer applies, else
// the compiled-in default.
func IdleTimeout() uint64 {
	envValue, envPresent := os.LookupEnv("XAR_MOUNT_TIMEOUT")
	return idleTimeoutFrom(envValue, envPresent, idleTimeoutOverridePath)
}

func idleTimeoutFrom(envValue string, envPresent bool, overridePath string) uint64 {
	if envPresent {
		return leadingUint(envValue)
	}
	if data, err := os.ReadFile(overridePath); err == nil {
		if fields := strings.Fields(string(data)); len(fields) > 0 {
			if parsed, err := strconv.ParseUint(fields[0], 10, 64); err == nil {
				return parsed
			}
		}
	}
	return defaultIdleTimeout
}

// leadingUint parses the leading decimal digits of s, strtoul-style:
// "30x" is 30, "" and "x" are 0.
func leadingUint(s string) uint64 {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	parsed, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
