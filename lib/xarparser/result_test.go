// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarparser

import (
	"reflect"
	"testing"
)

func TestResultError(t *testing.T) {
	t.Parallel()

	result := errorResult(DuplicateParameter, "VAR")
	if !result.HasError() {
		t.Fatal("expected HasError")
	}
	if result.HasValue() {
		t.Fatal("error result should not have a value")
	}
	if result.Err().Type() != DuplicateParameter {
		t.Errorf("type = %v, want DuplicateParameter", result.Err().Type())
	}
	if want := "Variable is assigned more than once: VAR"; result.Err().Message() != want {
		t.Errorf("message = %q, want %q", result.Err().Message(), want)
	}

	defer func() {
		if recover() == nil {
			t.Error("Value on an error result should panic")
		}
	}()
	result.Value()
}

func TestResultValue(t *testing.T) {
	t.Parallel()

	header := Header{
		Offset:          4096,
		UUID:            "d770950c",
		Version:         "1628211316",
		XarexecTarget:   "xar_bootstrap.sh",
		TrampolineNames: []string{"lookup.xar", "invoke_xar_via_trampoline"},
	}
	result := valueResult(header)
	if !result.HasValue() {
		t.Fatal("expected HasValue")
	}
	if result.HasError() {
		t.Fatal("value result should not have an error")
	}
	if !reflect.DeepEqual(result.Value(), header) {
		t.Errorf("value = %+v, want %+v", result.Value(), header)
	}

	defer func() {
		if recover() == nil {
			t.Error("Err on a value result should panic")
		}
	}()
	result.Err()
}
