package vulqueno

import (
	"fmt"
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

// Queue is a device queue. Vulkan requires submissions to a queue to be
// externally synchronized; Submit* hold mu for the duration of the call.
type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue

	mu sync.Mutex
}

// FamilyIndex is the index of the family this queue was taken from.
func (q *Queue) FamilyIndex() uint32 {
	return uint32(q.QueueFamily.Index)
}

func (q *Queue) submit(fence vk.Fence, buffers []*CommandBuffer) error {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(b)),
		PCommandBuffers:    b,
	}

	return vkError(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, fence), "vkQueueSubmit")
}

// SubmitWithFence submits the buffers with no wait semaphores and asks for
// fence to be signaled on completion. It does not block on the GPU.
func (q *Queue) SubmitWithFence(fence *Fence, buffers ...*CommandBuffer) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.submit(fence.VKFence, buffers)
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
