// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/pflag"

	"github.com/cpuprobe/cpuprobe/lib/version"
)

// extensions is the fixed list of instruction-set extensions the text
// report checks individually, oldest first.
var extensions = []struct {
	label string
	id    cpuid.FeatureID
}{
	{"MMX", cpuid.MMX},
	{"MMXExt", cpuid.MMXEXT},
	{"3DNow!", cpuid.AMD3DNOW},
	{"3DNow!2", cpuid.AMD3DNOWEXT},
	{"SSE", cpuid.SSE},
	{"SSE2", cpuid.SSE2},
	{"SSE3", cpuid.SSE3},
	{"SSSE3", cpuid.SSSE3},
	{"SSE4.1", cpuid.SSE4},
	{"SSE4.2", cpuid.SSE42},
	{"AES-NI", cpuid.AESNI},
	{"AVX", cpuid.AVX},
	{"AVX2", cpuid.AVX2},
	{"HTT", cpuid.HTT},
}

// report is the JSON shape of the feature report.
type report struct {
	Brand          string   `json:"brand"`
	Vendor         string   `json:"vendor"`
	VendorID       string   `json:"vendor_id"`
	Family         int      `json:"family"`
	Model          int      `json:"model"`
	PhysicalCores  int      `json:"physical_cores"`
	LogicalCores   int      `json:"logical_cores"`
	ThreadsPerCore int      `json:"threads_per_core"`
	Features       []string `json:"features"`
}

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("cpuprobe-features")
		return 0
	}

	var asJSON bool
	flagSet := pflag.NewFlagSet("cpuprobe-features", pflag.ContinueOnError)
	flagSet.BoolVar(&asJSON, "json", false, "output the feature report as JSON")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	info := cpuid.CPU

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report{
			Brand:          info.BrandName,
			Vendor:         info.VendorString,
			VendorID:       info.VendorID.String(),
			Family:         info.Family,
			Model:          info.Model,
			PhysicalCores:  info.PhysicalCores,
			LogicalCores:   info.LogicalCores,
			ThreadsPerCore: info.ThreadsPerCore,
			Features:       info.FeatureSet(),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "error: encoding report: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf("%s\n\n", info.BrandName)
	fmt.Printf("Vendor:           %s (%s)\n", info.VendorString, info.VendorID)
	fmt.Printf("Family/Model:     %d/%d\n", info.Family, info.Model)
	fmt.Printf("Physical cores:   %d\n", info.PhysicalCores)
	fmt.Printf("Logical cores:    %d\n", info.LogicalCores)
	fmt.Printf("Threads per core: %d\n\n", info.ThreadsPerCore)

	for _, extension := range extensions {
		if info.Supports(extension.id) {
			fmt.Println(extension.label)
		}
	}

	fmt.Printf("\nAll detected features: %s\n", strings.Join(info.FeatureSet(), ","))
	return 0
}
