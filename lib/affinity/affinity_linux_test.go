// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

package affinity

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestConfiguredFromSyntheticSysfs(t *testing.T) {
	root := t.TempDir()
	cpuDir := filepath.Join(root, "devices/system/cpu")
	if err := os.MkdirAll(cpuDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cpuDir, "present"), []byte("0-15\n"), 0644); err != nil {
		t.Fatal(err)
	}

	controller := &linuxController{sysRoot: root}
	count, err := controller.Configured()
	if err != nil {
		t.Fatalf("Configured: %v", err)
	}
	if count != 16 {
		t.Errorf("Configured = %d, want 16", count)
	}
}

func TestConfiguredMissingSysfs(t *testing.T) {
	controller := &linuxController{sysRoot: t.TempDir()}
	if _, err := controller.Configured(); err == nil {
		t.Error("Configured on empty sysfs: expected error")
	}
}

func TestSetMaskRejectsEmpty(t *testing.T) {
	controller := &linuxController{sysRoot: "/sys"}
	if err := controller.SetMask(Mask{}); err == nil {
		t.Error("SetMask(empty): expected error")
	}
}

// TestPinAndRestore exercises the real syscalls: pin to the first
// processor in the current mask, verify, then restore.
func TestPinAndRestore(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	controller := New()
	original, err := controller.Mask()
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if original.Count() == 0 {
		t.Fatal("current affinity mask is empty")
	}
	defer func() {
		if err := controller.SetMask(original); err != nil {
			t.Errorf("restoring mask: %v", err)
		}
	}()

	target := original.CPUs()[0]
	if err := controller.Pin(target); err != nil {
		t.Fatalf("Pin(%d): %v", target, err)
	}

	pinned, err := controller.Mask()
	if err != nil {
		t.Fatalf("Mask after pin: %v", err)
	}
	if pinned.Count() != 1 || !pinned.Has(target) {
		t.Errorf("mask after Pin(%d) = %s", target, pinned)
	}
}
