package vulqueno

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSet is a binding of resources to a descriptor, per a specific DescriptorSetLayout
type DescriptorSet struct {
	Device               *Device
	DescriptorPool       *DescriptorPool
	VKDescriptorSet      vk.DescriptorSet
	VKWriteDescriptorSet []vk.WriteDescriptorSet
}

// AddBuffer queues a write of the whole buffer b to dstBinding.
func (du *DescriptorSet) AddBuffer(dstBinding uint32, dtype vk.DescriptorType, b *Buffer, offset int) {
	var descriptorBufferInfo = vk.DescriptorBufferInfo{}
	descriptorBufferInfo.Buffer = b.VKBuffer
	descriptorBufferInfo.Offset = vk.DeviceSize(offset)
	descriptorBufferInfo.Range = vk.DeviceSize(b.Size)

	var writeDescriptorSet = vk.WriteDescriptorSet{}
	writeDescriptorSet.SType = vk.StructureTypeWriteDescriptorSet
	writeDescriptorSet.DstBinding = dstBinding
	writeDescriptorSet.DescriptorCount = 1
	writeDescriptorSet.DescriptorType = dtype
	writeDescriptorSet.PBufferInfo = []vk.DescriptorBufferInfo{descriptorBufferInfo}

	du.VKWriteDescriptorSet = append(du.VKWriteDescriptorSet, writeDescriptorSet)
}

// Write applies the queued writes to the descriptor set
func (du *DescriptorSet) Write() {
	for i := range du.VKWriteDescriptorSet {
		du.VKWriteDescriptorSet[i].DstSet = du.VKDescriptorSet
	}
	vk.UpdateDescriptorSets(du.Device.VKDevice, uint32(len(du.VKWriteDescriptorSet)), du.VKWriteDescriptorSet, 0, nil)
}
