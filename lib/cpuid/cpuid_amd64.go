// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package cpuid

// rawLeaf executes the CPUID instruction. Implemented in cpuid_amd64.s.
func rawLeaf(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

func init() {
	hwLeaf = rawLeaf
}
