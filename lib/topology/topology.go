// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import "fmt"

// Record is the decomposed identity of one enabled logical processor.
// Immutable once produced by a probe run. The sub-identifier fields are
// masked subsets of APICID, not shifted down, so they are comparable
// across processors but not dense small integers.
type Record struct {
	// Index is the OS logical processor number the thread was pinned
	// to when APICID was read.
	Index int `json:"cpu"`

	// APICID is the initial APIC ID reported by CPUID leaf 1.
	APICID uint32 `json:"apic_id"`

	PackageID uint32 `json:"package_id"`
	CoreID    uint32 `json:"core_id"`
	SMTID     uint32 `json:"smt_id"`
}

// Table is the ordered sequence of records from one probe run, in
// ascending Index order with unique indices.
type Table []Record

// DistinctCores returns the number of distinct cores in the table,
// counting unique PackageID|CoreID combinations. The same mask widths
// apply to every processor in the system, so the combined bit-field is
// a valid system-wide core identity.
func DistinctCores(table Table) int {
	unique := make(map[uint32]struct{}, len(table))
	for _, record := range table {
		unique[record.PackageID|record.CoreID] = struct{}{}
	}
	return len(unique)
}

// DistinctPackages returns the number of distinct physical packages in
// the table, counting unique PackageID values.
func DistinctPackages(table Table) int {
	unique := make(map[uint32]struct{}, len(table))
	for _, record := range table {
		unique[record.PackageID] = struct{}{}
	}
	return len(unique)
}

// Classification is the system's hardware multi-threading capability
// category: multi-core or single-core, crossed with Hyper-Threading
// being unsupported, enabled, or supported-but-disabled.
type Classification int

const (
	SingleCoreHTNotCapable Classification = iota
	SingleCoreHTEnabled
	SingleCoreHTDisabled
	MultiCoreHTNotCapable
	MultiCoreHTEnabled
	MultiCoreHTDisabled
)

// MultiCore reports whether the classification is one of the
// multi-core categories.
func (c Classification) MultiCore() bool {
	return c == MultiCoreHTNotCapable || c == MultiCoreHTEnabled || c == MultiCoreHTDisabled
}

// HyperThreading returns the Hyper-Threading availability label for
// the capability report: "Enabled", "Disabled", or "Not capable".
func (c Classification) HyperThreading() string {
	switch c {
	case SingleCoreHTEnabled, MultiCoreHTEnabled:
		return "Enabled"
	case SingleCoreHTDisabled, MultiCoreHTDisabled:
		return "Disabled"
	default:
		return "Not capable"
	}
}

func (c Classification) String() string {
	switch c {
	case SingleCoreHTNotCapable:
		return "single-core, no Hyper-Threading capability"
	case SingleCoreHTEnabled:
		return "single-core, Hyper-Threading enabled"
	case SingleCoreHTDisabled:
		return "single-core, Hyper-Threading disabled"
	case MultiCoreHTNotCapable:
		return "multi-core, no Hyper-Threading capability"
	case MultiCoreHTEnabled:
		return "multi-core, Hyper-Threading enabled"
	case MultiCoreHTDisabled:
		return "multi-core, Hyper-Threading disabled"
	}
	return fmt.Sprintf("unknown classification %d", int(c))
}

// MarshalJSON renders the classification as its descriptive string.
func (c Classification) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", c.String())), nil
}

// Classify maps aggregate topology counts to a capability
// classification. Pure and total over its four integer inputs: every
// input maps to exactly one of the six categories.
//
// A system is multi-core when it has more distinct cores than
// packages. Within each branch, one logical processor per core means
// the hardware cannot hyper-thread; otherwise more enabled logical
// processors than cores means Hyper-Threading is in use, and an equal
// count means it is present but disabled.
func Classify(cores, packages, logicalPerCore, enabledLogical int) Classification {
	if cores > packages {
		switch {
		case logicalPerCore == 1:
			return MultiCoreHTNotCapable
		case enabledLogical > cores:
			return MultiCoreHTEnabled
		default:
			return MultiCoreHTDisabled
		}
	}
	switch {
	case logicalPerCore == 1:
		return SingleCoreHTNotCapable
	case enabledLogical > cores:
		return SingleCoreHTEnabled
	default:
		return SingleCoreHTDisabled
	}
}
