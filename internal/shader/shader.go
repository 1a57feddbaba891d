// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader holds the embedded WGSL programs and compiles them to
// SPIR-V with naga once at startup.
package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed color.wgsl
var colorSource string

//go:embed lit.wgsl
var litSource string

// Entry points shared by every program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// ErrEmptySource is returned when a program has no source text.
var ErrEmptySource = errors.New("shader: empty source")

// Program identifies one of the embedded shader programs.
type Program int

const (
	// ProgramColor passes vertex colors through. Binding 0 holds the MVP block.
	ProgramColor Program = iota

	// ProgramLit adds ambient (binding 1) and directional (binding 2) lighting.
	ProgramLit
)

// String returns the program name, also used as GPU debug label.
func (p Program) String() string {
	switch p {
	case ProgramColor:
		return "color"
	case ProgramLit:
		return "lit"
	default:
		return fmt.Sprintf("Program(%d)", int(p))
	}
}

// Source returns the WGSL text of the program.
func (p Program) Source() string {
	switch p {
	case ProgramLit:
		return litSource
	default:
		return colorSource
	}
}

// Bindings returns how many uniform bindings group 0 of the program uses.
func (p Program) Bindings() int {
	if p == ProgramLit {
		return 3
	}
	return 1
}

// Compile translates WGSL source to SPIR-V words.
func Compile(src string) ([]uint32, error) {
	if src == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// CreateModule creates a HAL shader module from the program's SPIR-V,
// compiling it on first use.
func CreateModule(device hal.Device, p Program) (hal.ShaderModule, error) {
	code, err := programCache.getOrCompile(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.String() + "_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create shader module: %w", p, err)
	}
	return module, nil
}
