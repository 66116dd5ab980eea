// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarparser

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/facebookincubator/xar/lib/fileutil"
)

// requiredNames must all be assigned before the terminator for a
// header to be valid.
var requiredNames = []string{OffsetName, UUIDName, VersionName, XarexecTargetName}

// Parse reads the header from the start of f and validates it. The
// read is bounded at MaxHeaderSize plus the squashfs magic; a declared
// OFFSET beyond that bound is rejected because the parser cannot have
// read the declared image location.
func Parse(f *os.File) Result {
	if _, err := f.Seek(0, 0); err != nil {
		return errorResult(FileRead, fmt.Sprintf(
			"File offset for %q could not be rewound: %v", f.Name(), err))
	}
	buffer, err := fileutil.ReadPrefix(f, MaxHeaderSize+len(squashfsMagic))
	if err != nil || len(buffer) == 0 {
		return errorResult(FileRead, fmt.Sprintf(
			"Failed to read bytes from %q: read %d bytes, error: %v",
			f.Name(), len(buffer), err))
	}

	lines := strings.Split(string(buffer), "\n")
	if !strings.HasPrefix(lines[0], Shebang) {
		return errorResult(InvalidShebang, "")
	}

	seen := make(map[string]bool)
	var header Header

	// OFFSET is guaranteed to be the first parameter, on the second
	// line. A malformed or absent second line is structurally different
	// from a malformed later line.
	if len(lines) < 2 {
		return errorResult(UnexpectedEndOfFile,
			"Failed to get next line which should contain offset")
	}
	if err := parseLine(lines[1], &header, seen); err != nil {
		return Result{err: err}
	}
	if !seen[OffsetName] {
		return errorResult(MissingParameters,
			"Expected "+OffsetName+" to be on first line")
	}
	if header.Offset > MaxHeaderSize {
		return errorResult(InvalidOffset, fmt.Sprintf(
			"%d is greater than max header size of %d",
			header.Offset, MaxHeaderSize))
	}

	// Parse until the terminator. Blank and comment lines carry no
	// parameters and are skipped without invoking the grammar.
	terminated := false
	for _, line := range lines[2:] {
		if line == Stop {
			terminated = true
			break
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := parseLine(line, &header, seen); err != nil {
			return Result{err: err}
		}
	}
	if !terminated {
		return errorResult(UnexpectedEndOfFile, "Failed to find "+Stop)
	}

	var missing []string
	for _, name := range requiredNames {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errorResult(MissingParameters, strings.Join(missing, ", "))
	}

	magicEnd := header.Offset + uint64(len(squashfsMagic))
	if magicEnd > uint64(len(buffer)) {
		return errorResult(UnexpectedEndOfFile, fmt.Sprintf(
			"%d (offset + size of squashfs magic) is greater than the size "+
				"of the read buffer %d", magicEnd, len(buffer)))
	}
	if !bytes.Equal(buffer[header.Offset:magicEnd], squashfsMagic) {
		return errorResult(IncorrectMagic, "")
	}

	return valueResult(header)
}

// ParseFile opens the file at path read-only and parses its header.
func ParseFile(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return errorResult(FileOpen, err.Error())
	}
	defer f.Close()
	return Parse(f)
}
