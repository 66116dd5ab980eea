// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarparser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// parseUint64 parses value as a complete unsigned decimal integer. It
// returns a message suitable for an InvalidOffset detail on failure.
func parseUint64(value string) (uint64, string) {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, "Out of range"
		}
		return 0, "Cannot be parsed as an unsigned integer"
	}
	return parsed, ""
}

// parseTrampolineNames parses a space-separated list of quoted
// trampoline names. Valid names:
//
//   - do not contain " or '
//   - are not empty
//   - are wrapped in single quotes whether or not escaping is needed
//   - are separated by exactly one space, with no leading or trailing
//     whitespace in the list
//
// The list must contain GuaranteedTrampolineName. Splitting matches
// the literal three characters quote-space-quote against the interior
// of the value, so a name containing that exact substring cannot be
// represented; this is an accepted quirk of the format.
func parseTrampolineNames(value string) ([]string, *ParseError) {
	if len(value) <= 2 {
		return nil, newParseError(TrampolineError,
			"There must be at least one trampoline name. Trampoline names "+
				"must be non-empty and surrounded by single quotes")
	}
	if value[0] != '\'' || value[len(value)-1] != '\'' {
		return nil, newParseError(TrampolineError,
			"Expected first and last characters to be single quotes that "+
				"wrap trampoline names")
	}
	// Trim the outer quote pair before splitting so that a single-space
	// name survives (consider "' ' 'tramp'").
	names := strings.Split(value[1:len(value)-1], "' '")
	foundGuaranteed := false
	for _, name := range names {
		if strings.ContainsAny(name, `'"`) {
			return nil, newParseError(TrampolineError,
				"Single or double quotes are not allowed in trampoline "+
					"names. Maybe there is more than one space between names?")
		}
		if name == GuaranteedTrampolineName {
			foundGuaranteed = true
		}
	}
	if !foundGuaranteed {
		return nil, newParseError(TrampolineError,
			"Missing required trampoline name: "+GuaranteedTrampolineName)
	}
	return names, nil
}

// parseLine parses one NAME="value" header line into header. seen
// tracks names already assigned in this header and is updated on
// success. Unrecognized names are accepted and ignored for forward
// compatibility.
func parseLine(line string, header *Header, seen map[string]bool) *ParseError {
	name, wrappedValue, found := strings.Cut(line, "=")
	if !found || name == "" {
		return newParseError(MalformedLine, line)
	}
	if len(wrappedValue) < 2 || wrappedValue[0] != '"' ||
		wrappedValue[len(wrappedValue)-1] != '"' {
		return newParseError(MalformedLine, line)
	}
	value := wrappedValue[1 : len(wrappedValue)-1]
	if strings.Contains(value, `"`) {
		return newParseError(MalformedLine, line)
	}

	if seen[name] {
		return newParseError(DuplicateParameter, name)
	}
	seen[name] = true

	switch name {
	case OffsetName:
		offset, errMessage := parseUint64(value)
		if errMessage != "" {
			return newParseError(InvalidOffset, errMessage)
		}
		if offset%HeaderSizeBase != 0 || offset == 0 {
			return newParseError(InvalidOffset, fmt.Sprintf(
				"%d is not a positive multiple of %d", offset, HeaderSizeBase))
		}
		header.Offset = offset
	case VersionName:
		header.Version = value
	case UUIDName:
		header.UUID = value
	case XarexecTargetName:
		header.XarexecTarget = value
	case TrampolineNamesName:
		names, err := parseTrampolineNames(value)
		if err != nil {
			return err
		}
		header.TrampolineNames = names
	case MountRootName:
		header.MountRoot = value
	default:
		// Unknown parameter. Ignore.
	}
	return nil
}
