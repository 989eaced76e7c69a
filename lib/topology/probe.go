// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/cpuprobe/cpuprobe/lib/affinity"
	"github.com/cpuprobe/cpuprobe/lib/bitfield"
	"github.com/cpuprobe/cpuprobe/lib/cpuid"
)

// ErrProcessorsDisabled reports that the OS has processors configured
// that are not in this process's affinity mask. The operator must
// enable all processors (BIOS and OS scheduling restrictions) before
// the probe can produce a complete topology.
var ErrProcessorsDisabled = errors.New("not all configured processors are enabled for this process")

// Result is the outcome of one probe run.
type Result struct {
	// Table has one record per logical processor that was successfully
	// pinned and read, in ascending index order.
	Table Table `json:"processors"`

	// LogicalEnabled is the number of logical processors probed,
	// len(Table).
	LogicalEnabled int `json:"logical_enabled"`

	// Cores and Packages are the distinct counts deduplicated from
	// the table.
	Cores    int `json:"cores"`
	Packages int `json:"packages"`

	// Per-package capability scalars read once from CPUID.
	LogicalPerPackage int `json:"logical_per_package"`
	CoresPerPackage   int `json:"cores_per_package"`
	LogicalPerCore    int `json:"logical_per_core"`

	Classification Classification `json:"classification"`

	// Skipped lists processor indices whose pin attempt failed. The
	// run continues past a failed pin, but the gap is reported rather
	// than silently undercounting.
	Skipped []int `json:"skipped,omitempty"`
}

// Prober runs topology enumeration against a set of collaborators. Use
// [NewProber] for the real hardware; tests substitute fakes.
type Prober struct {
	// Affinity controls the calling thread's processor affinity.
	Affinity affinity.Controller

	// Source reads CPUID leaves on whichever processor the thread is
	// currently pinned to.
	Source cpuid.Source

	// Yield lets the scheduler migrate the thread onto the newly
	// pinned processor before the APIC ID read.
	Yield func()

	// Logger receives per-processor debug records and pin-skip
	// warnings. Defaults to slog.Default when nil.
	Logger *slog.Logger
}

// NewProber returns a Prober wired to the real hardware collaborators.
func NewProber(logger *slog.Logger) *Prober {
	return &Prober{
		Affinity: affinity.New(),
		Source:   cpuid.Hardware,
		Yield:    runtime.Gosched,
		Logger:   logger,
	}
}

// Run enumerates every configured logical processor and returns the
// aggregated topology. The calling goroutine is locked to its OS
// thread for the duration; the thread's affinity mask is saved before
// the first pin and restored on every exit path.
//
// Fails with [ErrProcessorsDisabled] before any pinning if some
// configured processor is missing from the current affinity mask. A
// pin attempt that fails mid-run is recorded in Result.Skipped and
// logged, and the run continues with the remaining processors.
func (p *Prober) Run() (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	configured, err := p.Affinity.Configured()
	if err != nil {
		return nil, fmt.Errorf("counting configured processors: %w", err)
	}
	if configured == 0 {
		return nil, fmt.Errorf("OS reports no configured processors")
	}

	original, err := p.Affinity.Mask()
	if err != nil {
		return nil, fmt.Errorf("reading affinity mask: %w", err)
	}

	// Precondition: the whole machine must be available to this
	// process, checked before any pinning is attempted.
	for cpu := 0; cpu < configured; cpu++ {
		if !original.Has(cpu) {
			return nil, fmt.Errorf("%w: processor %d is configured but missing from mask %s",
				ErrProcessorsDisabled, cpu, original)
		}
	}

	// From here on the mask is mutated; restore it no matter how we
	// leave.
	defer func() {
		if err := p.Affinity.SetMask(original); err != nil {
			logger.Error("restoring affinity mask", "mask", original.String(), "error", err)
		}
	}()

	logicalPerPackage := cpuid.LogicalPerPackage(p.Source)
	coresPerPackage := cpuid.CoresPerPackage(p.Source)
	if coresPerPackage <= 0 {
		return nil, fmt.Errorf("%w: hardware reports %d cores per package",
			ErrProcessorsDisabled, coresPerPackage)
	}

	// Cores within a package are assumed to carry equal numbers of
	// logical processors. Hardware that reports fewer logical
	// processors than cores (multi-core without the multi-threading
	// capability bit) would derive zero here; that still means one
	// logical processor per core.
	logicalPerCore := logicalPerPackage / coresPerPackage
	if logicalPerCore < 1 {
		logger.Debug("clamping logical processors per core to 1",
			"logical_per_package", logicalPerPackage, "cores_per_package", coresPerPackage)
		logicalPerCore = 1
	}

	smtWidth, err := bitfield.MaskWidth(uint32(logicalPerCore))
	if err != nil {
		return nil, fmt.Errorf("SMT mask width: %w", err)
	}
	packageWidth, err := bitfield.MaskWidth(uint32(logicalPerPackage))
	if err != nil {
		return nil, fmt.Errorf("package mask width: %w", err)
	}
	// The package ID is everything in the 8-bit APIC ID above the
	// package-internal (core and SMT) bits.
	packageMask := uint32(0xFF) << packageWidth

	result := &Result{
		LogicalPerPackage: logicalPerPackage,
		CoresPerPackage:   coresPerPackage,
		LogicalPerCore:    logicalPerCore,
	}

	for cpu := 0; cpu < configured; cpu++ {
		if err := p.Affinity.Pin(cpu); err != nil {
			logger.Warn("skipping processor: pin failed", "cpu", cpu, "error", err)
			result.Skipped = append(result.Skipped, cpu)
			continue
		}
		p.Yield()

		apicID := cpuid.InitialAPICID(p.Source)
		smtID, err := bitfield.Subfield(apicID, uint32(logicalPerCore), 0)
		if err != nil {
			return nil, fmt.Errorf("decomposing SMT ID of processor %d: %w", cpu, err)
		}
		coreID, err := bitfield.Subfield(apicID, uint32(coresPerPackage), smtWidth)
		if err != nil {
			return nil, fmt.Errorf("decomposing core ID of processor %d: %w", cpu, err)
		}

		record := Record{
			Index:     cpu,
			APICID:    apicID,
			PackageID: apicID & packageMask,
			CoreID:    coreID,
			SMTID:     smtID,
		}
		logger.Debug("probed processor",
			"cpu", cpu, "apic_id", apicID,
			"package_id", record.PackageID, "core_id", record.CoreID, "smt_id", record.SMTID)
		result.Table = append(result.Table, record)
	}

	result.LogicalEnabled = len(result.Table)
	if result.LogicalEnabled == 0 {
		return nil, fmt.Errorf("no processor could be pinned and read")
	}

	result.Cores = DistinctCores(result.Table)
	result.Packages = DistinctPackages(result.Table)
	result.Classification = Classify(result.Cores, result.Packages, logicalPerCore, result.LogicalEnabled)
	return result, nil
}
