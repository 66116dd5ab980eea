// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarparser

// Result holds exactly one of a Header or a ParseError; never both,
// never neither. Callers must check HasValue or HasError before using
// the corresponding accessor: reading the wrong arm is a programmer
// error and panics.
type Result struct {
	header *Header
	err    *ParseError
}

func valueResult(header Header) Result {
	return Result{header: &header}
}

func errorResult(t ErrorType, detail string) Result {
	return Result{err: newParseError(t, detail)}
}

// HasValue reports whether the result holds a parsed header.
func (r Result) HasValue() bool {
	return r.header != nil
}

// HasError reports whether the result holds a parse error.
func (r Result) HasError() bool {
	return r.err != nil
}

// Value returns the parsed header. Panics if the result holds an
// error.
func (r Result) Value() Header {
	if r.header == nil {
		panic("xarparser: Value called on an error Result")
	}
	return *r.header
}

// Err returns the parse error. Panics if the result holds a header.
func (r Result) Err() *ParseError {
	if r.err == nil {
		panic("xarparser: Err called on a value Result")
	}
	return r.err
}
