// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

// Package affinity controls which logical processors the calling
// thread may execute on. The topology probe uses it as a scoped
// resource: save the current mask, pin to one processor at a time, and
// restore the saved mask on every exit path.
//
// Only Linux has a real implementation, over sched_getaffinity(2) and
// sched_setaffinity(2). Other platforms return [ErrUnsupported].
package affinity

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnsupported reports that affinity control is not available on
// this platform.
var ErrUnsupported = errors.New("affinity: not supported on this platform")

// Mask is a set of logical processor indices.
type Mask map[int]struct{}

// NewMask returns a Mask containing the given processor indices.
func NewMask(cpus ...int) Mask {
	mask := make(Mask, len(cpus))
	for _, cpu := range cpus {
		mask.Add(cpu)
	}
	return mask
}

// Single returns a Mask containing exactly one processor.
func Single(cpu int) Mask {
	return NewMask(cpu)
}

// Add inserts a processor index into the mask.
func (m Mask) Add(cpu int) {
	m[cpu] = struct{}{}
}

// Has reports whether the mask contains the given processor.
func (m Mask) Has(cpu int) bool {
	_, ok := m[cpu]
	return ok
}

// Count returns the number of processors in the mask.
func (m Mask) Count() int {
	return len(m)
}

// CPUs returns the mask's processor indices in ascending order.
func (m Mask) CPUs() []int {
	cpus := make([]int, 0, len(m))
	for cpu := range m {
		cpus = append(cpus, cpu)
	}
	sort.Ints(cpus)
	return cpus
}

// String renders the mask in the kernel's cpulist format ("0-3,8").
func (m Mask) String() string {
	cpus := m.CPUs()
	if len(cpus) == 0 {
		return ""
	}
	var b strings.Builder
	for start := 0; start < len(cpus); {
		end := start
		for end+1 < len(cpus) && cpus[end+1] == cpus[end]+1 {
			end++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if end == start {
			fmt.Fprintf(&b, "%d", cpus[start])
		} else {
			fmt.Fprintf(&b, "%d-%d", cpus[start], cpus[end])
		}
		start = end + 1
	}
	return b.String()
}

// Controller reads and mutates the calling thread's processor
// affinity. Callers that pin must hold the thread with
// runtime.LockOSThread for the duration, or the runtime may move the
// goroutine to an unpinned thread between calls.
type Controller interface {
	// Mask returns the set of processors the thread may currently
	// run on.
	Mask() (Mask, error)

	// SetMask replaces the thread's affinity with the given set.
	SetMask(Mask) error

	// Pin restricts the thread to a single processor.
	Pin(cpu int) error

	// Configured returns the number of logical processors the OS and
	// BIOS have configured, whether or not all of them are currently
	// available to this process.
	Configured() (int, error)
}

// New returns the platform Controller.
func New() Controller {
	return newController()
}

// parseCPUList parses the kernel's cpulist format ("0-7" or "0,2-3")
// and returns the highest index plus one, the number of configured
// processors under [0, n) indexing.
func parseCPUList(list string) (int, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return 0, fmt.Errorf("empty cpu list")
	}
	highest := -1
	for _, field := range strings.Split(list, ",") {
		first, last, found := strings.Cut(field, "-")
		lastField := first
		if found {
			lastField = last
		}
		cpu, err := strconv.Atoi(strings.TrimSpace(lastField))
		if err != nil {
			return 0, fmt.Errorf("bad cpu list entry %q: %w", field, err)
		}
		if cpu > highest {
			highest = cpu
		}
	}
	return highest + 1, nil
}
