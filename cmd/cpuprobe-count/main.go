// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/cpuprobe/cpuprobe/lib/topology"
	"github.com/cpuprobe/cpuprobe/lib/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Handle --version before flag parsing to match the other
	// cpuprobe binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("cpuprobe-count")
		return 0
	}

	var asJSON bool
	flagSet := pflag.NewFlagSet("cpuprobe-count", pflag.ContinueOnError)
	flagSet.BoolVar(&asJSON, "json", false, "output the probe result as JSON")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if flagSet.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected argument %q\n", flagSet.Arg(0))
		return 2
	}

	logLevel := slog.LevelInfo
	if os.Getenv("CPUPROBE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	result, err := topology.NewProber(logger).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "error: encoding result: %v\n", err)
			return 1
		}
		return 0
	}

	writeReport(os.Stdout, result)
	return 0
}
