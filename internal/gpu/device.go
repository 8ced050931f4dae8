package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/march"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNoGPU indicates no usable GPU adapter was found.
var ErrNoGPU = errors.New("gpu: no usable adapter")

// DeviceHandle is the host-side device provider contract. A host
// application that already owns a GPU device implements it and passes
// it to NewSharedDevice; headless use creates an owned device instead.
type DeviceHandle = gpucontext.DeviceProvider

// Device bundles the hal device and queue the pipelines run on, and
// remembers whether it owns them.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	owned    bool
}

// NewDevice creates an owned device on the Vulkan backend, preferring a
// discrete or integrated GPU over software adapters.
func NewDevice() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		march.Logger().Warn("GPU unavailable, vulkan backend not registered")
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		march.Logger().Warn("GPU unavailable, no adapters found")
		return nil, ErrNoGPU
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		march.Logger().Warn("GPU adapter failed to open", "name", selected.Info.Name, "err", err)
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	march.Logger().Info("gpu adapter selected", "name", selected.Info.Name, "type", selected.Info.DeviceType)
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		owned:    true,
	}, nil
}

// NewSharedDevice wraps a device and queue owned by a host application.
// The provider must expose the underlying hal types. Shared resources
// are never destroyed by Close.
func NewSharedDevice(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	return &Device{device: device, queue: queue}, nil
}

// Hal returns the underlying hal device and queue.
func (d *Device) Hal() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

// Close destroys owned resources. A shared device is only detached.
func (d *Device) Close() {
	if d.owned {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
	d.owned = false
}
