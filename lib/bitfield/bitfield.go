// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

// Package bitfield computes and applies the variable-width bit masks
// used to decompose an initial APIC ID into its package, core, and SMT
// sub-identifiers. The width of each sub-field is not fixed by the
// architecture: it depends on how many distinct values the hardware
// reports for that level of the topology, so the mask has to be derived
// at probe time from the counts CPUID returns.
package bitfield

import (
	"errors"
	"math/bits"
)

// ErrInvalidCount reports a count of zero passed where a positive count
// of representable values is required. This is a contract violation by
// the caller, never a hardware condition, and is never coerced to a
// usable width.
var ErrInvalidCount = errors.New("bitfield: count must be positive")

// MaskWidth returns the number of bits required to represent count
// distinct values, i.e. ceil(log2(count)). A count of one needs no
// bits at all: the only possible value is zero.
func MaskWidth(count uint32) (uint32, error) {
	if count == 0 {
		return 0, ErrInvalidCount
	}
	return uint32(bits.Len32(count - 1)), nil
}

// Subfield retains only the MaskWidth(count)-bit field positioned at
// shift inside raw, clearing every other bit. The result is not shifted
// down: callers that compare sub-identifiers across processors compare
// the masked values directly, which is valid because the same masks
// apply to every processor in the system.
func Subfield(raw, count, shift uint32) (uint32, error) {
	width, err := MaskWidth(count)
	if err != nil {
		return 0, err
	}
	mask := uint32(((uint64(1) << width) - 1) << shift)
	return raw & mask, nil
}
