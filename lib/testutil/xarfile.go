// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// XarFile describes a synthetic XAR fixture. Zero values produce a
// minimal valid archive: real shebang, required header fields, stop
// marker, squashfs magic at offset 4096.
type XarFile struct {
	// Shebang overrides the first line (default the real shebang).
	Shebang string

	// Lines are the raw header lines between the shebang and the stop
	// marker. When nil, a valid set of required fields is used.
	Lines []string

	// OmitStop leaves out the terminator line.
	OmitStop bool

	// Offset is where the magic bytes are written (default 4096). The
	// OFFSET header line is the caller's responsibility via Lines.
	Offset int

	// Magic overrides the squashfs magic bytes at Offset.
	Magic []byte

	// Trailer is appended after the magic, standing in for the rest of
	// the squashfs image.
	Trailer []byte
}

// DefaultHeaderLines are the header lines of a minimal valid XAR with
// the image at offset 4096.
func DefaultHeaderLines() []string {
	return []string{
		`OFFSET="4096"`,
		`UUID="d770950c"`,
		`VERSION="1628211316"`,
		`XAREXEC_TARGET="xar_bootstrap.sh"`,
	}
}

// WriteXar writes the described fixture into a temporary directory and
// returns its path.
func WriteXar(t *testing.T, layout XarFile) string {
	t.Helper()

	shebang := layout.Shebang
	if shebang == "" {
		shebang = "#!/usr/bin/env xarexec_fuse"
	}
	lines := layout.Lines
	if lines == nil {
		lines = DefaultHeaderLines()
	}
	offset := layout.Offset
	if offset == 0 {
		offset = 4096
	}
	magic := layout.Magic
	if magic == nil {
		magic = []byte("hsqs")
	}

	var builder strings.Builder
	builder.WriteString(shebang)
	builder.WriteString("\n")
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	if !layout.OmitStop {
		builder.WriteString("#xar_stop\n")
	}

	content := []byte(builder.String())
	if len(content) > offset {
		t.Fatalf("fixture header is %d bytes, does not fit before offset %d",
			len(content), offset)
	}
	padded := make([]byte, offset)
	copy(padded, content)
	padded = append(padded, magic...)
	padded = append(padded, layout.Trailer...)

	path := filepath.Join(t.TempDir(), "fixture.xar")
	if err := os.WriteFile(path, padded, 0o644); err != nil {
		t.Fatalf("writing xar fixture: %v", err)
	}
	return path
}
