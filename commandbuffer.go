package vulqueno

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer records the commands of one dispatch or transfer. Only the
// commands this package issues are wrapped; VK gives access to the native
// handle for anything else.
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// BeginOneTime begins recording a buffer that will be submitted once.
func (c *CommandBuffer) BeginOneTime() error {
	var beginInfo = vk.CommandBufferBeginInfo{}
	beginInfo.SType = vk.StructureTypeCommandBufferBeginInfo
	beginInfo.Flags = vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	return vkError(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo), "vkBeginCommandBuffer")

}

func (c *CommandBuffer) CmdBindComputePipeline(p *ComputePipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointCompute, p.VKPipeline)
}

func (c *CommandBuffer) CmdBindDescriptorSets(bindPoint vk.PipelineBindPoint, layout *PipelineLayout, firstSet uint32, descriptorSets ...*DescriptorSet) {

	sets := make([]vk.DescriptorSet, len(descriptorSets))
	for i := range descriptorSets {
		sets[i] = descriptorSets[i].VKDescriptorSet
	}

	vk.CmdBindDescriptorSets(c.VKCommandBuffer, bindPoint,
		layout.VKPipelineLayout, firstSet, uint32(len(descriptorSets)), sets, 0, nil)

}

func (c *CommandBuffer) CmdDispatch(x, y, z uint32) {
	vk.CmdDispatch(c.VKCommandBuffer, x, y, z)
}

var colorSubresourceRange = vk.ImageSubresourceRange{
	AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
	LevelCount: 1,
	LayerCount: 1,
}

// CmdTransitionImageLayout records a full pipeline barrier moving img from
// one layout to another.
func (c *CommandBuffer) CmdTransitionImageLayout(img *Image, oldLayout, newLayout vk.ImageLayout, srcAccess, dstAccess vk.AccessFlagBits) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       vk.AccessFlags(srcAccess),
		DstAccessMask:       vk.AccessFlags(dstAccess),
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img.VKImage,
		SubresourceRange:    colorSubresourceRange,
	}

	vk.CmdPipelineBarrier(c.VKCommandBuffer,
		vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
		vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
		0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}

// hostReadBarrier makes writes with srcAccess available to host reads.
func hostReadBarrier(srcAccess vk.AccessFlagBits) vk.MemoryBarrier {
	return vk.MemoryBarrier{
		SType:         vk.StructureTypeMemoryBarrier,
		SrcAccessMask: vk.AccessFlags(srcAccess),
		DstAccessMask: vk.AccessFlags(vk.AccessHostReadBit),
	}
}

// CmdHostReadBarrier records a global memory barrier so that writes made by
// srcStage with srcAccess are visible to the host once the submission's
// fence has signaled.
func (c *CommandBuffer) CmdHostReadBarrier(srcStage vk.PipelineStageFlagBits, srcAccess vk.AccessFlagBits) {
	vk.CmdPipelineBarrier(c.VKCommandBuffer,
		vk.PipelineStageFlags(srcStage),
		vk.PipelineStageFlags(vk.PipelineStageHostBit),
		0, 1, []vk.MemoryBarrier{hostReadBarrier(srcAccess)}, 0, nil, 0, nil)
}

// CmdClearColorImage clears every texel of img, which must be in the
// transfer destination layout.
func (c *CommandBuffer) CmdClearColorImage(img *Image, rgba [4]float32) {
	var color vk.ClearColorValue
	*(*[4]float32)(unsafe.Pointer(&color)) = rgba
	vk.CmdClearColorImage(c.VKCommandBuffer, img.VKImage, vk.ImageLayoutTransferDstOptimal, &color, 1, []vk.ImageSubresourceRange{colorSubresourceRange})
}

// CmdCopyImageToBuffer copies the whole of img, in the transfer source
// layout, to the start of dst with tightly packed rows.
func (c *CommandBuffer) CmdCopyImageToBuffer(img *Image, dst *Buffer) {
	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LayerCount: 1,
		},
		ImageExtent: vk.Extent3D{Width: img.Width, Height: img.Height, Depth: 1},
	}
	vk.CmdCopyImageToBuffer(c.VKCommandBuffer, img.VKImage, vk.ImageLayoutTransferSrcOptimal, dst.VKBuffer, 1, []vk.BufferImageCopy{region})
}

// End describing work for this command buffer
func (c *CommandBuffer) End() error {
	return vkError(vk.EndCommandBuffer(c.VKCommandBuffer), "vkEndCommandBuffer")
}
