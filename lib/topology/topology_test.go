// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"math/rand"
	"testing"
)

func TestDistinctCounts(t *testing.T) {
	// Two packages of two cores each: all four package|core
	// combinations distinct.
	table := Table{
		{Index: 0, PackageID: 0, CoreID: 0},
		{Index: 1, PackageID: 0, CoreID: 1},
		{Index: 2, PackageID: 4, CoreID: 0},
		{Index: 3, PackageID: 4, CoreID: 1},
	}
	if got := DistinctCores(table); got != 4 {
		t.Errorf("DistinctCores = %d, want 4", got)
	}
	if got := DistinctPackages(table); got != 2 {
		t.Errorf("DistinctPackages = %d, want 2", got)
	}
}

func TestDistinctCoresCollapsesDuplicates(t *testing.T) {
	// Two SMT siblings on the same core share package|core.
	table := Table{
		{Index: 0, PackageID: 0, CoreID: 2, SMTID: 0},
		{Index: 1, PackageID: 0, CoreID: 2, SMTID: 1},
	}
	if got := DistinctCores(table); got != 1 {
		t.Errorf("DistinctCores = %d, want 1", got)
	}
	if got := DistinctPackages(table); got != 1 {
		t.Errorf("DistinctPackages = %d, want 1", got)
	}
}

func TestDistinctCountsEmptyTable(t *testing.T) {
	if got := DistinctCores(nil); got != 0 {
		t.Errorf("DistinctCores(nil) = %d, want 0", got)
	}
	if got := DistinctPackages(nil); got != 0 {
		t.Errorf("DistinctPackages(nil) = %d, want 0", got)
	}
}

// TestCoresNeverFewerThanPackages checks the structural invariant that
// a table cannot contain more packages than cores: every package
// contributes at least one distinct package|core combination.
func TestCoresNeverFewerThanPackages(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		var table Table
		for i := 0; i < rng.Intn(16)+1; i++ {
			table = append(table, Record{
				Index:     i,
				PackageID: uint32(rng.Intn(4)) << 3,
				CoreID:    uint32(rng.Intn(4)) << 1,
				SMTID:     uint32(rng.Intn(2)),
			})
		}
		cores, packages := DistinctCores(table), DistinctPackages(table)
		if cores < packages {
			t.Fatalf("trial %d: %d cores < %d packages for table %v", trial, cores, packages, table)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name           string
		cores          int
		packages       int
		logicalPerCore int
		enabled        int
		want           Classification
	}{
		{"single processor", 1, 1, 1, 1, SingleCoreHTNotCapable},
		{"single core with HT in use", 1, 1, 2, 2, SingleCoreHTEnabled},
		{"single core with HT off", 1, 1, 2, 1, SingleCoreHTDisabled},
		{"dual core no HT", 2, 1, 1, 2, MultiCoreHTNotCapable},
		{"2x2x2 fully enabled", 4, 2, 2, 8, MultiCoreHTEnabled},
		{"dual core HT off", 2, 1, 2, 2, MultiCoreHTDisabled},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.cores, c.packages, c.logicalPerCore, c.enabled)
			if got != c.want {
				t.Errorf("Classify(%d, %d, %d, %d) = %v, want %v",
					c.cores, c.packages, c.logicalPerCore, c.enabled, got, c.want)
			}
		})
	}
}

// TestClassifyTotal sweeps a grid of inputs and checks that every
// quadruple lands on exactly one of the six defined categories.
func TestClassifyTotal(t *testing.T) {
	valid := map[Classification]bool{
		SingleCoreHTNotCapable: true,
		SingleCoreHTEnabled:    true,
		SingleCoreHTDisabled:   true,
		MultiCoreHTNotCapable:  true,
		MultiCoreHTEnabled:     true,
		MultiCoreHTDisabled:    true,
	}
	for cores := 1; cores <= 8; cores++ {
		for packages := 1; packages <= cores; packages++ {
			for logicalPerCore := 1; logicalPerCore <= 4; logicalPerCore++ {
				for enabled := 1; enabled <= 32; enabled++ {
					got := Classify(cores, packages, logicalPerCore, enabled)
					if !valid[got] {
						t.Fatalf("Classify(%d, %d, %d, %d) = %d: not a defined category",
							cores, packages, logicalPerCore, enabled, got)
					}
				}
			}
		}
	}
}

func TestClassificationLabels(t *testing.T) {
	if MultiCoreHTEnabled.HyperThreading() != "Enabled" {
		t.Error("MultiCoreHTEnabled: want HyperThreading Enabled")
	}
	if SingleCoreHTDisabled.HyperThreading() != "Disabled" {
		t.Error("SingleCoreHTDisabled: want HyperThreading Disabled")
	}
	if SingleCoreHTNotCapable.HyperThreading() != "Not capable" {
		t.Error("SingleCoreHTNotCapable: want HyperThreading Not capable")
	}
	if !MultiCoreHTDisabled.MultiCore() {
		t.Error("MultiCoreHTDisabled: want MultiCore true")
	}
	if SingleCoreHTEnabled.MultiCore() {
		t.Error("SingleCoreHTEnabled: want MultiCore false")
	}
	if data, err := MultiCoreHTEnabled.MarshalJSON(); err != nil || string(data) != `"multi-core, Hyper-Threading enabled"` {
		t.Errorf("MarshalJSON = %s, %v", data, err)
	}
}
