package vulqueno

import (
	vk "github.com/vulkan-go/vulkan"
)

// Image is a 2D single-mip, single-layer image used exclusively by one
// queue family.
type Image struct {
	Device           *Device
	VKImage          vk.Image
	VKFormat         vk.Format
	Width            uint32
	Height           uint32
	QueueFamilyIndex uint32
}

func (i *Image) VKMemoryRequirements() vk.MemoryRequirements {
	var memRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.Device.VKDevice, i.VKImage, &memRequirements)
	memRequirements.Deref()
	return memRequirements
}

func (d *Device) CreateImage(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, queueFamilyIndex uint32) (*Image, error) {
	var imageInfo = vk.ImageCreateInfo{}
	imageInfo.SType = vk.StructureTypeImageCreateInfo
	imageInfo.ImageType = vk.ImageType2d
	imageInfo.Extent.Width = extent.Width
	imageInfo.Extent.Height = extent.Height
	imageInfo.Extent.Depth = 1
	imageInfo.MipLevels = 1
	imageInfo.ArrayLayers = 1
	imageInfo.Format = format
	imageInfo.Tiling = tiling
	imageInfo.InitialLayout = vk.ImageLayoutUndefined
	imageInfo.Usage = usage
	imageInfo.Samples = vk.SampleCount1Bit
	imageInfo.SharingMode = vk.SharingModeExclusive
	imageInfo.QueueFamilyIndexCount = 1
	imageInfo.PQueueFamilyIndices = []uint32{queueFamilyIndex}

	var image vk.Image

	err := vkError(vk.CreateImage(d.VKDevice, &imageInfo, nil, &image), "vkCreateImage")
	if err != nil {
		return nil, err
	}

	var ret Image

	ret.Device = d
	ret.VKImage = image
	ret.VKFormat = format
	ret.Width = extent.Width
	ret.Height = extent.Height
	ret.QueueFamilyIndex = queueFamilyIndex

	return &ret, nil
}

func (i *Image) Bind(memory *DeviceMemory) error {
	return vkError(vk.BindImageMemory(i.Device.VKDevice, i.VKImage, memory.VKDeviceMemory, 0), "vkBindImageMemory")
}

func (i *Image) Destroy() {
	if i.VKImage == nil {
		return
	}
	vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
	i.VKImage = nil
}

type ImageView struct {
	Device      *Device
	VKImageView vk.ImageView
}

func (i *Image) CreateImageView() (*ImageView, error) {
	createImage := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    i.VKImage,
		ViewType: vk.ImageViewType2d,
		Format:   i.VKFormat,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: colorSubresourceRange,
	}

	var view vk.ImageView

	err := vkError(vk.CreateImageView(i.Device.VKDevice, createImage, nil, &view), "vkCreateImageView")
	if err != nil {
		return nil, err
	}
	var ret ImageView
	ret.Device = i.Device
	ret.VKImageView = view

	return &ret, nil

}

func (i *ImageView) Destroy() {
	if i.VKImageView == nil {
		return
	}
	vk.DestroyImageView(i.Device.VKDevice, i.VKImageView, nil)
	i.VKImageView = nil
}
