// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

// xar-clean-mounts reclaims idle XAR mounts left behind by
// xarexec-fuse. It is intended to run periodically (cron or a systemd
// timer) on hosts that execute XARs.
//
// squashfuse instances unmount themselves after their idle timeout,
// but the mountpoint directories and lockfiles accumulate, and a
// helper that died uncleanly leaves a live mount behind. The cleaner
// removes both, skipping anything whose lockfile was touched recently
// or is currently locked by a running invocation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/facebookincubator/xar/lib/platform"
	"github.com/facebookincubator/xar/lib/version"
	"github.com/facebookincubator/xar/lib/xarexec"
)

func main() {
	flags := pflag.NewFlagSet("xar-clean-mounts", pflag.ExitOnError)
	mountRoots := flags.StringSlice("mount-root", platform.DefaultMountRoots(),
		"mount root to sweep (repeatable)")
	maxAge := flags.Duration("max-age", 15*time.Minute,
		"reclaim mounts whose lockfile was last touched this long ago")
	dryRun := flags.Bool("dry-run", false,
		"report reclaimable mounts without removing anything")
	verbose := flags.BoolP("verbose", "v", false, "log skipped mounts too")
	showVersion := flags.Bool("version", false, "print version information and exit")
	flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if flags.NArg() != 0 {
		flags.Usage()
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cleaner := &xarexec.Cleaner{
		Roots:  *mountRoots,
		MaxAge: *maxAge,
		DryRun: *dryRun,
		Logger: logger,
	}
	reclaimed, err := cleaner.Clean()
	logger.Info("sweep complete", "reclaimed", reclaimed, "dry_run", *dryRun)
	if err != nil {
		logger.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}
