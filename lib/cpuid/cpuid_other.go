// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !amd64

package cpuid

// No CPUID instruction on this architecture: hwLeaf stays nil and
// Supported reports false.
