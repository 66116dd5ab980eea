// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarparser

// ErrorType classifies header parse failures.
type ErrorType int

const (
	// DuplicateParameter: a header name was assigned more than once.
	DuplicateParameter ErrorType = iota
	// FileOpen: the XAR file could not be opened for reading.
	FileOpen
	// FileRead: reading the header prefix failed.
	FileRead
	// IncorrectMagic: the bytes at OFFSET are not the squashfs magic.
	IncorrectMagic
	// InvalidOffset: OFFSET is unparseable, zero, misaligned, or too
	// large for the parser to have read the declared image location.
	InvalidOffset
	// InvalidShebang: the first line does not start with Shebang.
	InvalidShebang
	// MalformedLine: a header line is not NAME="value".
	MalformedLine
	// MissingParameters: a required header name was never assigned.
	MissingParameters
	// TrampolineError: the trampoline name list violates its grammar.
	TrampolineError
	// UnexpectedEndOfFile: the header ended before the terminator, or
	// OFFSET points past the readable prefix.
	UnexpectedEndOfFile
)

// baseMessage returns the human-readable prefix for an error type.
func (t ErrorType) baseMessage() string {
	switch t {
	case DuplicateParameter:
		return "Variable is assigned more than once: "
	case FileOpen:
		return "Failed to open file for reading: "
	case FileRead:
		return "Failed to read file: "
	case IncorrectMagic:
		return "Incorrect squashfs magic: "
	case InvalidOffset:
		return "Invalid offset: "
	case InvalidShebang:
		return "Invalid shebang: "
	case MalformedLine:
		return "Failed to parse line: "
	case MissingParameters:
		return "Missing required parameters: "
	case TrampolineError:
		return "Error parsing trampoline names: "
	case UnexpectedEndOfFile:
		return "Unexpected end of file reached: "
	}
	return "Unknown parse error: "
}

// ParseError is a typed header parse failure with a human-readable
// detail string. It is constructed at the failure site and never
// mutated.
type ParseError struct {
	errorType ErrorType
	detail    string
}

func newParseError(t ErrorType, detail string) *ParseError {
	return &ParseError{errorType: t, detail: detail}
}

// Type returns the error classification.
func (e *ParseError) Type() ErrorType {
	return e.errorType
}

// Detail returns the detail string naming the offending input.
func (e *ParseError) Detail() string {
	return e.detail
}

// Message renders the full message: the base message for the type
// followed by the detail.
func (e *ParseError) Message() string {
	return e.errorType.baseMessage() + e.detail
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message()
}
