package vulqueno

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

// APIVersion is the highest Vulkan version supported by the device.
func (p *PhysicalDevice) APIVersion() Version {
	return VersionFromVK(p.VKPhysicalDeviceProperties.ApiVersion)
}

// DeviceType returns a readable name for the device type.
func (p *PhysicalDevice) DeviceType() string {
	switch p.VKPhysicalDeviceProperties.DeviceType {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated gpu"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete gpu"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual gpu"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	}
	return "other"
}

func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var queueFamilyCount uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, nil)

	if queueFamilyCount == 0 {
		return nil, nil
	}

	queues := make([]vk.QueueFamilyProperties, queueFamilyCount)

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, queues)

	ret := make([]*QueueFamily, queueFamilyCount)
	for i, queue := range queues[:queueFamilyCount] {

		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: queue}

		ret[i].VKQueueFamilyProperties.Deref()

	}

	return ret, nil

}

// CreateLogicalDevice creates a device with one queue on the given family,
// default (all disabled) features, and no extensions or layers.
func (p *PhysicalDevice) CreateLogicalDevice(qf *QueueFamily) (*Device, error) {

	queueCreateInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: uint32(qf.Index),
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	var features vk.PhysicalDeviceFeatures

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{features},
	}

	var ldevice vk.Device

	err := vkError(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice), "vkCreateDevice")
	if err != nil {
		return nil, err
	}

	var device Device
	device.PhysicalDevice = p
	device.VKDevice = ldevice
	device.EnabledFeatures = features

	return &device, nil
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var deviceFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &deviceFeatures)
	deviceFeatures.Deref()
	return deviceFeatures
}

func (p *PhysicalDevice) VKPhysicalDeviceMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var memoryProperties vk.PhysicalDeviceMemoryProperties

	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &memoryProperties)
	memoryProperties.Deref()
	return memoryProperties
}

// MemoryHeap is a heap reported by the physical device.
type MemoryHeap struct {
	Size        uint64
	DeviceLocal bool
}

// MemoryHeaps lists the memory heaps of the device.
func (p *PhysicalDevice) MemoryHeaps() []MemoryHeap {
	mp := p.VKPhysicalDeviceMemoryProperties()

	ret := make([]MemoryHeap, 0, mp.MemoryHeapCount)
	for i := uint32(0); i < mp.MemoryHeapCount; i++ {
		h := mp.MemoryHeaps[i]
		h.Deref()
		ret = append(ret, MemoryHeap{
			Size:        uint64(h.Size),
			DeviceLocal: vk.MemoryHeapFlagBits(h.Flags)&vk.MemoryHeapDeviceLocalBit != 0,
		})
	}
	return ret
}

// FindMemoryType returns the first memory type index allowed by
// memoryTypeBits that has all the requested properties.
func (p *PhysicalDevice) FindMemoryType(memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	mp := p.VKPhysicalDeviceMemoryProperties()

	types := make([]vk.MemoryPropertyFlagBits, 0, mp.MemoryTypeCount)
	for i := uint32(0); i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		types = append(types, vk.MemoryPropertyFlagBits(mt.PropertyFlags))
	}
	return findMemoryType(types, memoryTypeBits, properties)
}

func findMemoryType(types []vk.MemoryPropertyFlagBits, memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	for i, flags := range types {
		if memoryTypeBits&(1<<uint(i)) != 0 && flags&properties == properties {
			return uint32(i), nil
		}
	}
	return 0, errors.Errorf("no memory type matching bits %#x with properties %#x", memoryTypeBits, uint32(properties))
}

func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	err := vkError(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil), "vkEnumerateDeviceExtensionProperties")
	if err != nil {
		return nil, err
	}

	ext := make([]vk.ExtensionProperties, count)

	err = vkError(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext), "vkEnumerateDeviceExtensionProperties")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for _, e := range ext[:count] {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}
	return names, nil
}
