// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileutil provides reliable bounded reads over file
// descriptors. A single Read call may return fewer bytes than
// requested or be interrupted by a signal; the helpers here loop
// until the requested length, end of file, or a real error.
package fileutil

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ReadPrefix reads up to limit bytes from the current position of f.
// It retries reads interrupted by signals and keeps reading across
// short reads. The returned slice holds exactly the bytes read; it is
// shorter than limit only when end of file was reached first.
func ReadPrefix(f *os.File, limit int) ([]byte, error) {
	buffer := make([]byte, limit)
	total := 0
	for total < limit {
		n, err := f.Read(buffer[total:])
		total += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return buffer[:total], err
		}
	}
	return buffer[:total], nil
}
