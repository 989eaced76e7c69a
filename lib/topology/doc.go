// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

// Package topology enumerates the logical-processor → core → package
// hierarchy of the running system and classifies its hardware
// multi-threading capabilities.
//
// The probe visits each configured logical processor in ascending
// order: it pins the calling thread to that processor, yields so the
// scheduler can migrate the thread, reads the processor's initial APIC
// ID, and decomposes the ID into package, core, and SMT
// sub-identifiers using masks derived from the counts CPUID reports.
// Aggregation then deduplicates the sub-identifiers into distinct core
// and package counts, and a pure classification function maps those
// counts to one of six capability categories.
//
// The thread's affinity mask is treated as a scoped resource: the
// probe saves it before the first pin and restores it on every exit
// path. Processors are visited strictly one at a time so each APIC ID
// read is attributable to a single logical processor.
package topology
