package vulqueno

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

func (d *Device) VKCreateFence(signaled bool) (vk.Fence, error) {
	var fence vk.Fence
	var fenceCreateInfo = vk.FenceCreateInfo{}
	fenceCreateInfo.SType = vk.StructureTypeFenceCreateInfo
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	err := vkError(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence), "vkCreateFence")
	if err != nil {
		return nil, err
	}
	return fence, nil
}

// CreateFence creates an unsignaled fence.
func (d *Device) CreateFence() (*Fence, error) {

	fence, err := d.VKCreateFence(false)
	if err != nil {
		return nil, err
	}

	var ret Fence
	ret.VKFence = fence
	ret.Device = d
	return &ret, nil

}

// WaitForFences blocks until the fences signal or ts elapses. A negative ts
// waits without limit. On timeout it returns ErrTimeout.
func (d *Device) WaitForFences(waitForAll bool, ts time.Duration, fences ...*Fence) error {

	f := make([]vk.Fence, len(fences))
	for i := range fences {
		f[i] = fences[i].VKFence
	}

	var wait vk.Bool32
	if waitForAll {
		wait = vk.True
	} else {
		wait = vk.False
	}

	var timeout uint64 = vk.MaxUint64
	if ts >= 0 {
		timeout = uint64(ts.Nanoseconds())
	}

	ret := vk.WaitForFences(d.VKDevice, uint32(len(fences)), f, wait, timeout)
	if ret == vk.Timeout {
		return ErrTimeout
	}
	return vkError(ret, "vkWaitForFences")
}

// Signaled reports whether the fence has been signaled, without blocking.
func (f *Fence) Signaled() (bool, error) {
	ret := vk.GetFenceStatus(f.Device.VKDevice, f.VKFence)
	switch ret {
	case vk.Success:
		return true, nil
	case vk.NotReady:
		return false, nil
	}
	return false, vkError(ret, "vkGetFenceStatus")
}

func (f *Fence) Destroy() {
	if f.VKFence == nil {
		return
	}
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
	f.VKFence = nil
}
