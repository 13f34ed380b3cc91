package vulqueno

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/GRAYgoose124/vulqueno/internal/logging"
)

// StorageImageFormat is the texel format of every StorageImage.
const StorageImageFormat = vk.FormatR8g8b8a8Unorm

// StorageImage is a device-local RGBA8 image usable as a compute storage
// image and as a transfer source or destination.
type StorageImage struct {
	*Image
	View   *ImageView
	Memory *DeviceMemory
}

// CreateStorageImage creates a width x height storage image owned by the
// runtime's queue family.
func CreateStorageImage(rt *Runtime, width, height uint32) (*StorageImage, error) {
	if width == 0 || height == 0 {
		return nil, newError(ImageCreationFailed, errors.Errorf("invalid extent %dx%d", width, height))
	}

	d := rt.Device()

	img, err := d.CreateImage(
		vk.Extent2D{Width: width, Height: height},
		StorageImageFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageStorageBit|vk.ImageUsageTransferSrcBit|vk.ImageUsageTransferDstBit),
		rt.QueueFamilyIndex())
	if err != nil {
		return nil, newError(ImageCreationFailed, err)
	}

	mem, err := d.AllocateForImage(img, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		img.Destroy()
		return nil, newError(ImageCreationFailed, err)
	}

	if err := img.Bind(mem); err != nil {
		mem.Destroy()
		img.Destroy()
		return nil, newError(ImageCreationFailed, err)
	}

	view, err := img.CreateImageView()
	if err != nil {
		mem.Destroy()
		img.Destroy()
		return nil, newError(ImageCreationFailed, err)
	}

	logging.Debugf("created %dx%d storage image on queue family %d", width, height, rt.QueueFamilyIndex())

	return &StorageImage{Image: img, View: view, Memory: mem}, nil
}

func (s *StorageImage) Format() vk.Format {
	return s.VKFormat
}

// Dimensions returns width and height in texels.
func (s *StorageImage) Dimensions() (uint32, uint32) {
	return s.Width, s.Height
}

// SizeInBytes is the size of a tightly packed copy of the image.
func (s *StorageImage) SizeInBytes() uint64 {
	return uint64(s.Width) * uint64(s.Height) * 4
}

func (s *StorageImage) String() string {
	return fmt.Sprintf("{ %dx%d rgba8 QueueFamily: %d }", s.Width, s.Height, s.QueueFamilyIndex)
}

func (s *StorageImage) Destroy() {
	DestroyAll(s.View, s.Image, s.Memory)
}

// ClearAndReadImage clears img to rgba, copies it into host memory and
// returns the RGBA8 texels row by row. It blocks until the copy completes.
func ClearAndReadImage(rt *Runtime, img *StorageImage, rgba [4]float32) ([]byte, error) {
	d := rt.Device()

	host, err := NewHostBuffer(d, img.SizeInBytes(), vk.BufferUsageTransferDstBit)
	if err != nil {
		return nil, newError(BufferCreationFailed, err)
	}
	defer host.Destroy()

	pool, err := d.CreateCommandPool(rt.queueFamily)
	if err != nil {
		return nil, stageError(StageRecord, err)
	}
	defer pool.Destroy()

	cmd, err := pool.AllocateBuffer()
	if err != nil {
		return nil, stageError(StageRecord, err)
	}

	if err := cmd.BeginOneTime(); err != nil {
		return nil, stageError(StageRecord, err)
	}
	cmd.CmdTransitionImageLayout(img.Image, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal, 0, vk.AccessTransferWriteBit)
	cmd.CmdClearColorImage(img.Image, rgba)
	cmd.CmdTransitionImageLayout(img.Image, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferSrcOptimal, vk.AccessTransferWriteBit, vk.AccessTransferReadBit)
	cmd.CmdCopyImageToBuffer(img.Image, host.Buffer)
	cmd.CmdHostReadBarrier(vk.PipelineStageTransferBit, vk.AccessTransferWriteBit)
	if err := cmd.End(); err != nil {
		return nil, stageError(StageRecord, err)
	}

	fence, err := d.CreateFence()
	if err != nil {
		return nil, stageError(StageSubmit, err)
	}
	defer fence.Destroy()

	if err := rt.Queue().SubmitWithFence(fence, cmd); err != nil {
		return nil, stageError(StageSubmit, err)
	}
	if err := d.WaitForFences(true, -1, fence); err != nil {
		return nil, newError(FenceWaitFailed, err)
	}

	return append([]byte(nil), host.Bytes()...), nil
}
