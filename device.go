package vulqueno

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Device struct {
	PhysicalDevice  *PhysicalDevice
	VKDevice        vk.Device
	EnabledFeatures vk.PhysicalDeviceFeatures
}

func (d *Device) Destroy() {
	if d.VKDevice == nil {
		return
	}
	vk.DeviceWaitIdle(d.VKDevice)
	vk.DestroyDevice(d.VKDevice, nil)
	d.VKDevice = nil
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

func (d *Device) WaitIdle() error {
	return vkError(vk.DeviceWaitIdle(d.VKDevice), "vkDeviceWaitIdle")
}

// GetQueue returns queue 0 of the given family.
func (d *Device) GetQueue(qf *QueueFamily) *Queue {

	var vkq vk.Queue

	vk.GetDeviceQueue(d.VKDevice, uint32(qf.Index), 0, &vkq)

	var queue Queue
	queue.QueueFamily = qf
	queue.Device = d
	queue.VKQueue = vkq

	return &queue
}

type AllocationRequirements struct {
	Size           int
	MemoryTypeBits uint32
}

func (d *Device) AllocateForBuffer(b *Buffer, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {
	ar := b.AllocationRequirements()
	return d.Allocate(ar.Size, ar.MemoryTypeBits, memoryProperties)
}

func (d *Device) AllocateForImage(i *Image, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {
	mr := i.VKMemoryRequirements()
	return d.Allocate(int(mr.Size), mr.MemoryTypeBits, memoryProperties)
}

func (d *Device) Allocate(sizeInBytes int, memoryTypeBits uint32, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {

	var allocateInfo = vk.MemoryAllocateInfo{}
	allocateInfo.SType = vk.StructureTypeMemoryAllocateInfo
	allocateInfo.AllocationSize = vk.DeviceSize(sizeInBytes)

	var err error

	allocateInfo.MemoryTypeIndex, err = d.PhysicalDevice.FindMemoryType(
		memoryTypeBits,
		memoryProperties)

	if err != nil {
		return nil, err
	}

	var deviceMemory vk.DeviceMemory

	err = vkError(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory), "vkAllocateMemory")
	if err != nil {
		return nil, err
	}

	var ret DeviceMemory

	ret.Size = uint64(sizeInBytes)
	ret.Device = d
	ret.VKDeviceMemory = deviceMemory

	return &ret, nil
}
