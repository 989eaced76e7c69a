// Copyright 2026 The CPUProbe Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package affinity

type stubController struct{}

func newController() Controller {
	return stubController{}
}

func (stubController) Mask() (Mask, error)      { return nil, ErrUnsupported }
func (stubController) SetMask(Mask) error       { return ErrUnsupported }
func (stubController) Pin(int) error            { return ErrUnsupported }
func (stubController) Configured() (int, error) { return 0, ErrUnsupported }
