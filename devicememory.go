package vulqueno

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory maps to Vulkan DeviceMemory and can either be memory on the host or on the device
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64
	Ptr            unsafe.Pointer
}

// IsMapped returns true if the device memory is currently mapped
func (d *DeviceMemory) IsMapped() bool {
	return d.Ptr != nil
}

// Destroy unmaps and frees this memory
func (d *DeviceMemory) Destroy() {
	if d.VKDeviceMemory == nil {
		return
	}
	if d.IsMapped() {
		d.Unmap()
	}
	vk.FreeMemory(d.Device.VKDevice, d.VKDeviceMemory, nil)
	d.VKDeviceMemory = nil
}

// Map maps the entirety of this memory. Mapping an already mapped memory
// returns the existing pointer.
func (d *DeviceMemory) Map() (unsafe.Pointer, error) {
	if d.Ptr != nil {
		return d.Ptr, nil
	}
	var res unsafe.Pointer
	err := vkError(vk.MapMemory(d.Device.VKDevice, d.VKDeviceMemory, 0, vk.DeviceSize(d.Size), 0, &res), "vkMapMemory")
	if err != nil {
		return nil, err
	}
	d.Ptr = res
	return res, nil
}

// Bytes returns the mapped memory as a byte slice. It is nil while unmapped.
func (d *DeviceMemory) Bytes() []byte {
	if d.Ptr == nil {
		return nil
	}
	return ToBytes(d.Ptr, int(d.Size))
}

// Unmap this memory
func (d *DeviceMemory) Unmap() {
	if d.Ptr == nil {
		return
	}
	d.Ptr = nil
	vk.UnmapMemory(d.Device.VKDevice, d.VKDeviceMemory)
}
