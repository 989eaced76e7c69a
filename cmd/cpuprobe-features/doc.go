// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

// Cpuprobe-features reports the identity and instruction-set
// capabilities of the processor running it: brand string, vendor,
// family and model, core and thread counts, and which of the common
// instruction-set extensions the hardware implements. Absence of a
// capability is a normal result, never an error.
//
// With --json the report is emitted as a JSON document instead of
// text.
package main
