// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// xar-header prints the parsed header of a XAR file as a single line
// of JSON, for scripting and debugging. It exits nonzero with a
// diagnostic on stderr when the header does not parse.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/facebookincubator/xar/lib/version"
	"github.com/facebookincubator/xar/lib/xarparser"
)

func main() {
	flags := pflag.NewFlagSet("xar-header", pflag.ExitOnError)
	showVersion := flags.Bool("version", false, "print version information and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: xar-header [flags] /path/to/file.xar\n\n")
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}
	os.Exit(run(flags.Arg(0), os.Stdout, os.Stderr))
}

func run(path string, stdout, stderr io.Writer) int {
	result := xarparser.ParseFile(path)
	if result.HasError() {
		fmt.Fprintf(stderr, "Error parsing XAR header: %s\n", result.Err().Message())
		return 1
	}
	header := result.Value()
	encoded, err := json.Marshal(&header)
	if err != nil {
		fmt.Fprintf(stderr, "Error encoding XAR header: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(encoded))
	return 0
}
