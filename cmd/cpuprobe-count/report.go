// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/cpuprobe/cpuprobe/lib/topology"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// heading styles a section heading when stdout is a terminal, and
// passes it through unchanged when the report is being piped.
func heading(text string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return headingStyle.Render(text)
}

func yesNo(condition bool) string {
	if condition {
		return "Yes"
	}
	return "No"
}

// writeReport renders the fixed-format topology report: capability
// summary, system-wide availability, and the per-processor
// decomposition table.
func writeReport(w io.Writer, result *topology.Result) {
	fmt.Fprintf(w, "%s\n\n", heading("Hardware multi-threading capabilities and availability"))
	fmt.Fprintf(w, "Capability results represent the maximum provided by the hardware.\n")
	fmt.Fprintf(w, "BIOS or OS configuration can make less than the full hardware\n")
	fmt.Fprintf(w, "capability available to applications.\n\n")

	fmt.Fprintf(w, "%s\n\n", heading("Capabilities"))
	fmt.Fprintf(w, "  Hyper-Threading Technology: %s\n", result.Classification.HyperThreading())
	fmt.Fprintf(w, "  Multi-core:                 %s\n", yesNo(result.Classification.MultiCore()))
	fmt.Fprintf(w, "  Multi-processor:            %s\n\n", yesNo(result.Packages > 1))

	fmt.Fprintf(w, "%s\n\n", heading("Availability"))
	fmt.Fprintf(w, "  System-wide: %d physical processors, %d cores, %d logical processors\n",
		result.Packages, result.Cores, result.LogicalEnabled)
	fmt.Fprintf(w, "  Multi-core capability: %d cores per package\n", result.CoresPerPackage)
	fmt.Fprintf(w, "  HT capability: %d logical processors per core\n\n", result.LogicalPerCore)

	if result.Packages*result.CoresPerPackage > result.Cores {
		fmt.Fprintf(w, "  Not all cores in the system are enabled for this application.\n\n")
	} else {
		fmt.Fprintf(w, "  All cores in the system are enabled for this application.\n\n")
	}

	fmt.Fprintf(w, "%s\n\n", heading("Initial APIC ID decomposition"))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"CPU", "APIC ID", "PACKAGE ID", "CORE ID", "SMT ID"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	for _, record := range result.Table {
		table.Append([]string{
			strconv.Itoa(record.Index),
			fmt.Sprintf("0x%02x", record.APICID),
			strconv.FormatUint(uint64(record.PackageID), 10),
			strconv.FormatUint(uint64(record.CoreID), 10),
			strconv.FormatUint(uint64(record.SMTID), 10),
		})
	}
	table.Render()

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\nWarning: %d processor(s) could not be pinned and are missing from\n", len(result.Skipped))
		fmt.Fprintf(w, "the counts above: %v\n", result.Skipped)
	}
}
