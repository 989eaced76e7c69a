// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

// Package cpuid wraps the x86 CPUID instruction and decodes the handful
// of leaves the topology probe needs: vendor identification, the
// Hyper-Threading capability bit, logical-processor and core counts per
// package, and the initial APIC ID of the executing processor.
//
// Decoding functions take a [Source] rather than reading the hardware
// directly, so tests can substitute synthetic register tables. The real
// instruction is exposed as [Hardware]; on architectures without CPUID
// it returns zeroed registers and [Supported] reports false.
package cpuid

import "encoding/binary"

// Registers holds the four output registers of one CPUID invocation.
type Registers struct {
	EAX, EBX, ECX, EDX uint32
}

// Source reads one CPUID leaf and sub-leaf. Implementations must be
// safe to call with leaf numbers above the hardware maximum; real
// hardware returns junk or zeros there, which is why every decoder
// checks MaxInputValue first.
type Source func(leaf, subleaf uint32) Registers

const (
	leafVendor   = 0
	leafFeatures = 1
	leafCaches   = 4

	// Leaf 1 EDX bit 28: Hyper-Threading Technology supported in
	// hardware (not necessarily enabled).
	httBit = 1 << 28

	// Leaf 1 EBX[23:16]: logical processors per physical package.
	logicalPerPackageMask  = 0x00FF0000
	logicalPerPackageShift = 16

	// Leaf 1 EBX[31:24]: initial APIC ID of the executing processor.
	initialAPICIDMask  = 0xFF000000
	initialAPICIDShift = 24

	// Leaf 4 EAX[31:26]: cores per physical package, minus one.
	coresPerPackageMask  = 0xFC000000
	coresPerPackageShift = 26
)

// hwLeaf is the raw instruction, installed by the per-architecture
// files. Nil when the target architecture has no CPUID instruction.
var hwLeaf func(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

// Supported reports whether this binary can execute CPUID at all.
func Supported() bool {
	return hwLeaf != nil
}

// Hardware is the Source backed by the CPUID instruction. On
// architectures without CPUID every leaf reads as zero.
func Hardware(leaf, subleaf uint32) Registers {
	if hwLeaf == nil {
		return Registers{}
	}
	eax, ebx, ecx, edx := hwLeaf(leaf, subleaf)
	return Registers{EAX: eax, EBX: ebx, ECX: ecx, EDX: edx}
}

// MaxInputValue returns the highest standard leaf number the processor
// supports (leaf 0 EAX). Zero means CPUID is unavailable or reports
// nothing usable.
func MaxInputValue(src Source) uint32 {
	return src(leafVendor, 0).EAX
}

// VendorString returns the 12-character vendor identification string
// from leaf 0, assembled in the architecture's EBX, EDX, ECX order.
func VendorString(src Source) string {
	regs := src(leafVendor, 0)
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:], regs.EBX)
	binary.LittleEndian.PutUint32(buf[4:], regs.EDX)
	binary.LittleEndian.PutUint32(buf[8:], regs.ECX)
	return string(buf[:])
}

// IsGenuineIntel reports whether the processor identifies as Intel.
// The multi-threading capability bit is only meaningful on Intel parts,
// so the probe gates on this before trusting leaf 1.
func IsGenuineIntel(src Source) bool {
	return VendorString(src) == "GenuineIntel"
}

// HyperThreadingSupported reports whether the hardware supports
// Hyper-Threading Technology. Support does not imply the BIOS or OS
// has it enabled.
func HyperThreadingSupported(src Source) bool {
	if !IsGenuineIntel(src) {
		return false
	}
	if MaxInputValue(src) < leafFeatures {
		return false
	}
	return src(leafFeatures, 0).EDX&httBit != 0
}

// LogicalPerPackage returns the number of logical processors per
// physical package. Hardware without multi-threading support reports 1.
func LogicalPerPackage(src Source) int {
	if !HyperThreadingSupported(src) {
		return 1
	}
	return int((src(leafFeatures, 0).EBX & logicalPerPackageMask) >> logicalPerPackageShift)
}

// CoresPerPackage returns the number of cores per physical package.
// Hardware too old to implement leaf 4 is single-core per package: that
// is a normal value, not an error.
func CoresPerPackage(src Source) int {
	if MaxInputValue(src) < leafCaches {
		return 1
	}
	return int((src(leafCaches, 0).EAX&coresPerPackageMask)>>coresPerPackageShift) + 1
}

// InitialAPICID returns the initial APIC ID of the processor currently
// executing this code. Only attributable to a specific logical
// processor when the calling thread is pinned to it.
func InitialAPICID(src Source) uint32 {
	return (src(leafFeatures, 0).EBX & initialAPICIDMask) >> initialAPICIDShift
}
