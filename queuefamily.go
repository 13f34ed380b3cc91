package vulqueno

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type QueueFamilySlice []*QueueFamily

func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make([]*QueueFamily, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

func (ql QueueFamilySlice) FilterCompute() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsCompute()
	})
}

func (ql QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsGraphics()
	})
}

func (ql QueueFamilySlice) FilterTransfer() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsTransfer()
	})
}

// Select returns the lowest-indexed family that has every bit of required
// set, or nil.
func (ql QueueFamilySlice) Select(required vk.QueueFlagBits) *QueueFamily {
	props := make([]vk.QueueFamilyProperties, len(ql))
	for i, q := range ql {
		props[i] = q.VKQueueFamilyProperties
	}
	i, ok := selectQueueFamily(props, required)
	if !ok {
		return nil
	}
	return ql[i]
}

func selectQueueFamily(props []vk.QueueFamilyProperties, required vk.QueueFlagBits) (int, bool) {
	want := vk.QueueFlags(required)
	for i, p := range props {
		if p.QueueCount > 0 && p.QueueFlags&want == want {
			return i, true
		}
	}
	return 0, false
}

type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

func (q *QueueFamily) has(bit vk.QueueFlagBits) bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(bit) == vk.QueueFlags(bit)
}

func (q *QueueFamily) IsCompute() bool {
	return q.has(vk.QueueComputeBit)
}

func (q *QueueFamily) IsGraphics() bool {
	return q.has(vk.QueueGraphicsBit)
}

func (q *QueueFamily) IsTransfer() bool {
	return q.has(vk.QueueTransferBit)
}

// QueueCount is the number of queues in this family.
func (q *QueueFamily) QueueCount() int {
	return int(q.VKQueueFamilyProperties.QueueCount)
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Queues: %d Compute: %v Graphics: %v Transfer: %v }", q.Index, q.QueueCount(), q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}
