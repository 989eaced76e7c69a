// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

// Cpuprobe-count enumerates the topology of the enabled logical
// processors: it pins itself to each processor in turn, reads the
// processor's initial APIC ID, decomposes the ID into package, core,
// and SMT sub-identifiers, and reports distinct package and core
// counts together with the system's hardware multi-threading
// classification.
//
// The probe requires every OS-configured processor to be available to
// this process. If the BIOS or OS has processors disabled for it, the
// run fails and the operator must correct the configuration first.
//
// Exit codes:
//
//	0  report produced
//	1  probe failed (processors disabled, unsupported platform)
//	2  bad arguments
//
// With --json the result is emitted as a JSON document instead of the
// text report.
package main
