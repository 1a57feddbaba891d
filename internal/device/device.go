// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device opens the HAL device and queue the renderer draws with,
// either by enumerating adapters itself or by adopting the device of a host
// application such as a gogpu window.
package device

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device errors.
var (
	// ErrNoAdapter is returned when the instance exposes no adapters.
	ErrNoAdapter = errors.New("device: no suitable GPU adapter found")

	// ErrBackendUnavailable is returned when the requested HAL backend is not
	// registered in this build.
	ErrBackendUnavailable = errors.New("device: backend not available")

	// ErrNoHalAccess is returned by FromProvider when the provider does not
	// expose its HAL device and queue.
	ErrNoHalAccess = errors.New("device: provider does not expose HAL types")
)

// Backend names a HAL backend.
type Backend string

const (
	// BackendVulkan drives a real GPU through Vulkan.
	BackendVulkan Backend = "vulkan"

	// BackendNoop accepts every call and renders nothing. Useful for CI
	// and for exercising the frame loop without a GPU.
	BackendNoop Backend = "noop"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendVulkan, BackendNoop:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBackendUnavailable, s)
	}
}

// Device is an open HAL device with its queue.
type Device struct {
	Device hal.Device
	Queue  hal.Queue

	// Name is the adapter name. Adopted devices without adapter info are
	// named "external".
	Name string

	instance hal.Instance
	external bool
}

type instanceCreator interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Open creates an instance for the backend, picks the best adapter by
// adapterRank and opens a device on it.
func Open(b Backend) (*Device, error) {
	var creator instanceCreator
	switch b {
	case BackendNoop:
		creator = noop.API{}
	case BackendVulkan:
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, b)
		}
		creator = backend
	default:
		return nil, fmt.Errorf("%w: %q", ErrBackendUnavailable, b)
	}

	instance, err := creator.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	sort.SliceStable(adapters, func(i, j int) bool {
		return adapterRank(adapters[i].Info.DeviceType) < adapterRank(adapters[j].Info.DeviceType)
	})
	selected := &adapters[0]

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	slogger().Info("device: adapter selected",
		"backend", string(b),
		"name", selected.Info.Name,
		"adapters", len(adapters))

	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Name:     selected.Info.Name,
		instance: instance,
	}, nil
}

// FromProvider adopts the device and queue of a host application. The
// provider's Device must be a *wgpu.Device, as gogpu windows provide; its
// HAL device and queue are used directly. Adopted devices are not destroyed
// by Close.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	wd, ok := provider.Device().(*wgpu.Device)
	if !ok || wd == nil {
		return nil, fmt.Errorf("%w: device is %T, not *wgpu.Device", ErrNoHalAccess, provider.Device())
	}
	device := wd.HalDevice()
	if device == nil {
		return nil, fmt.Errorf("%w: device released", ErrNoHalAccess)
	}
	queue := wd.HalQueue()
	if queue == nil {
		return nil, fmt.Errorf("%w: queue released", ErrNoHalAccess)
	}
	info := provider.AdapterInfo()
	name := info.Name
	if name == "" {
		name = "external"
	}
	slogger().Info("device: using shared host device", "name", name, "type", info.Type.String())
	return &Device{Device: device, Queue: queue, Name: name, external: true}, nil
}

// External reports whether the device belongs to a host application.
func (d *Device) External() bool {
	return d.external
}

// Close destroys the device and instance unless they were adopted.
// Safe to call multiple times.
func (d *Device) Close() {
	if d.external {
		d.Device = nil
		d.Queue = nil
		return
	}
	if d.Device != nil {
		d.Device.Destroy()
		d.Device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	d.Queue = nil
}

// adapterRank orders adapters by preference: discrete, integrated,
// virtual, CPU, then anything else.
func adapterRank(t gputypes.DeviceType) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 0
	case gputypes.DeviceTypeIntegratedGPU:
		return 1
	case gputypes.DeviceTypeVirtualGPU:
		return 2
	case gputypes.DeviceTypeCPU:
		return 3
	default:
		return 4
	}
}
