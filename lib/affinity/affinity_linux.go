// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package affinity

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// linuxController implements Controller over the sched_*affinity
// syscalls. The sysfs root is a field so tests can point Configured at
// a synthetic tree.
type linuxController struct {
	sysRoot string
}

func newController() Controller {
	return &linuxController{sysRoot: "/sys"}
}

func (c *linuxController) Mask() (Mask, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("sched_getaffinity: %w", err)
	}
	mask := Mask{}
	for cpu := 0; cpu < len(set)*64; cpu++ {
		if set.IsSet(cpu) {
			mask.Add(cpu)
		}
	}
	return mask, nil
}

func (c *linuxController) SetMask(mask Mask) error {
	if mask.Count() == 0 {
		return fmt.Errorf("refusing to set an empty affinity mask")
	}
	var set unix.CPUSet
	for cpu := range mask {
		set.Set(cpu)
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("sched_setaffinity to %s: %w", mask, err)
	}
	return nil
}

func (c *linuxController) Pin(cpu int) error {
	return c.SetMask(Single(cpu))
}

// Configured reads /sys/devices/system/cpu/present, the kernel's
// cpulist of processors the BIOS has wired up. This matches
// sysconf(_SC_NPROCESSORS_CONF): offlined processors still count.
func (c *linuxController) Configured() (int, error) {
	path := filepath.Join(c.sysRoot, "devices/system/cpu/present")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	count, err := parseCPUList(string(data))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return count, nil
}
