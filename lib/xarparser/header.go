// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarparser

import (
	"encoding/json"
)

// Header field names as they appear in the XAR header.
const (
	OffsetName          = "OFFSET"
	UUIDName            = "UUID"
	VersionName         = "VERSION"
	XarexecTargetName   = "XAREXEC_TARGET"
	TrampolineNamesName = "XAREXEC_TRAMPOLINE_NAMES"
	MountRootName       = "MOUNT_ROOT"
)

const (
	// Shebang is the required prefix of the first line of a XAR file.
	Shebang = "#!/usr/bin/env xarexec_fuse"

	// Stop marks the end of the machine-readable header section.
	Stop = "#xar_stop"

	// GuaranteedTrampolineName must be present whenever the trampoline
	// names field is supplied.
	GuaranteedTrampolineName = "invoke_xar_via_trampoline"

	// HeaderSizeBase is the required alignment of OFFSET. The squashfs
	// image always starts at a positive multiple of this.
	HeaderSizeBase = 4096

	// MaxHeaderSize bounds the number of header bytes the parser will
	// read. Headers are conventionally 4096 bytes but the contract does
	// not guarantee it, so allow one size doubling while still bounding
	// memory.
	MaxHeaderSize = 8192
)

// squashfsMagic is the superblock magic ("hsqs") expected at OFFSET.
var squashfsMagic = []byte{0x68, 0x73, 0x71, 0x73}

// Header is the parsed representation of a XAR header. A Header
// returned by Parse has passed every grammar and structural check;
// treat it as immutable.
type Header struct {
	// Offset is the byte offset of the embedded squashfs image. Always
	// a strictly positive multiple of HeaderSizeBase.
	Offset uint64

	// UUID namespaces the mount path for this archive.
	UUID string

	// Version is an opaque build stamp.
	Version string

	// XarexecTarget is the path, relative to the mount point, of the
	// program to execute.
	XarexecTarget string

	// TrampolineNames lists bootstrap entry points expected inside the
	// mounted image. The names are unescaped and so may differ from the
	// shell-escaped spelling in the header. Empty when the field was
	// absent.
	TrampolineNames []string

	// MountRoot overrides the default mount root when set.
	MountRoot string
}

// MarshalJSON serializes the header with its on-disk field names, as
// printed by the xar-header tool.
func (h Header) MarshalJSON() ([]byte, error) {
	type wireHeader struct {
		Offset          uint64   `json:"OFFSET"`
		UUID            string   `json:"UUID"`
		Version         string   `json:"VERSION"`
		XarexecTarget   string   `json:"XAREXEC_TARGET"`
		TrampolineNames []string `json:"XAREXEC_TRAMPOLINE_NAMES,omitempty"`
		MountRoot       string   `json:"MOUNT_ROOT,omitempty"`
	}
	return json.Marshal(wireHeader{
		Offset:          h.Offset,
		UUID:            h.UUID,
		Version:         h.Version,
		XarexecTarget:   h.XarexecTarget,
		TrampolineNames: h.TrampolineNames,
		MountRoot:       h.MountRoot,
	})
}
