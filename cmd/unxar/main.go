// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// unxar extracts a XAR file's squashfs image to a directory by
// delegating to unsquashfs with the image offset from the header.
// Extra arguments after the destination are forwarded to unsquashfs.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/facebookincubator/xar/lib/process"
	"github.com/facebookincubator/xar/lib/xarparser"
)

// extraction is the parsed command line.
type extraction struct {
	xarPath  string
	destPath string
	extra    []string
}

var errUsage = errors.New("usage error")

// parseArgs accepts [-h|--] XAR DEST [extra unsquashfs args...].
func parseArgs(args []string) (extraction, bool, error) {
	for len(args) > 0 && len(args[0]) > 0 && args[0][0] == '-' {
		arg := args[0]
		args = args[1:]
		if arg == "-h" {
			return extraction{}, true, nil
		}
		if arg == "--" {
			break
		}
		return extraction{}, false, errUsage
	}
	if len(args) < 2 {
		return extraction{}, false, errUsage
	}
	return extraction{
		xarPath:  args[0],
		destPath: args[1],
		extra:    args[2:],
	}, false, nil
}

// buildArgv constructs the unsquashfs invocation. User-supplied extra
// flags must precede the archive path, which unsquashfs takes last.
func buildArgv(parsed extraction, offset uint64) []string {
	argv := []string{
		"unsquashfs",
		"-offset", strconv.FormatUint(offset, 10),
		"-dest", parsed.destPath,
	}
	argv = append(argv, parsed.extra...)
	return append(argv, parsed.xarPath)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: unxar [-h] XAR DEST [...]

Unpacks the XAR to the DEST directory. Any extra arguments are
forwarded to unsquashfs.

Options:
     -h: print help message and exit`)
}

func main() {
	parsed, helpOnly, err := parseArgs(os.Args[1:])
	if err != nil {
		usage()
		os.Exit(1)
	}
	if helpOnly {
		usage()
		return
	}

	result := xarparser.ParseFile(parsed.xarPath)
	if result.HasError() {
		process.Fatal(fmt.Errorf("parsing XAR header of %s: %s",
			parsed.xarPath, result.Err().Message()))
	}

	argv := buildArgv(parsed, result.Value().Offset)
	binary, err := exec.LookPath(argv[0])
	if err != nil {
		process.Fatal(fmt.Errorf("%s not found; install squashfs-tools: %w",
			argv[0], err))
	}
	if err := syscall.Exec(binary, argv, os.Environ()); err != nil {
		process.Fatal(fmt.Errorf("execv %s: %w", binary, err))
	}
}
