// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"reflect"
	"testing"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want invocation
	}{
		{
			name: "bare path",
			args: []string{"/tmp/app.xar"},
			want: invocation{xarPath: "/tmp/app.xar", args: []string{}},
		},
		{
			name: "forwarded arguments",
			args: []string{"/tmp/app.xar", "--verbose", "input.txt"},
			want: invocation{
				xarPath: "/tmp/app.xar",
				args:    []string{"--verbose", "input.txt"},
			},
		},
		{
			name: "mount only",
			args: []string{"-m", "/tmp/app.xar"},
			want: invocation{
				mountOnly: true,
				xarPath:   "/tmp/app.xar",
				args:      []string{},
			},
		},
		{
			name: "print only",
			args: []string{"-n", "/tmp/app.xar"},
			want: invocation{
				printOnly: true,
				xarPath:   "/tmp/app.xar",
				args:      []string{},
			},
		},
		{
			name: "help short-circuits",
			args: []string{"-h", "/tmp/app.xar"},
			want: invocation{helpOnly: true},
		},
		{
			name: "dashed payload arguments are not options",
			args: []string{"/tmp/app.xar", "-m"},
			want: invocation{xarPath: "/tmp/app.xar", args: []string{"-m"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseArgs(tc.args)
			if err != nil {
				t.Fatalf("parseArgs(%v): %v", tc.args, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseArgs(%v) = %+v, want %+v", tc.args, got, tc.want)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{},
		{"-m"},
		{"-x", "/tmp/app.xar"},
	} {
		if _, err := parseArgs(args); err == nil {
			t.Fatalf("parseArgs(%v) succeeded, want usage error", args)
		}
	}
}
