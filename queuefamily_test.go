package vulqueno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func props(count uint32, bits ...vk.QueueFlagBits) vk.QueueFamilyProperties {
	var flags vk.QueueFlagBits
	for _, b := range bits {
		flags |= b
	}
	return vk.QueueFamilyProperties{QueueFlags: vk.QueueFlags(flags), QueueCount: count}
}

func TestSelectQueueFamily(t *testing.T) {
	tests := []struct {
		name     string
		props    []vk.QueueFamilyProperties
		required vk.QueueFlagBits
		want     int
		ok       bool
	}{
		{
			name:     "first graphics",
			props:    []vk.QueueFamilyProperties{props(1, vk.QueueGraphicsBit, vk.QueueComputeBit), props(2, vk.QueueGraphicsBit)},
			required: vk.QueueGraphicsBit,
			want:     0,
			ok:       true,
		},
		{
			name:     "skips compute only",
			props:    []vk.QueueFamilyProperties{props(4, vk.QueueComputeBit), props(1, vk.QueueTransferBit), props(1, vk.QueueGraphicsBit)},
			required: vk.QueueGraphicsBit,
			want:     2,
			ok:       true,
		},
		{
			name:     "graphics and compute",
			props:    []vk.QueueFamilyProperties{props(1, vk.QueueGraphicsBit), props(1, vk.QueueGraphicsBit, vk.QueueComputeBit)},
			required: vk.QueueGraphicsBit | vk.QueueComputeBit,
			want:     1,
			ok:       true,
		},
		{
			name:     "no queues",
			props:    []vk.QueueFamilyProperties{props(0, vk.QueueGraphicsBit)},
			required: vk.QueueGraphicsBit,
			ok:       false,
		},
		{
			name:     "compute only device",
			props:    []vk.QueueFamilyProperties{props(8, vk.QueueComputeBit, vk.QueueTransferBit)},
			required: vk.QueueGraphicsBit,
			ok:       false,
		},
		{
			name:     "empty",
			required: vk.QueueGraphicsBit,
			ok:       false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := selectQueueFamily(tt.props, tt.required)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestQueueFamilySlice(t *testing.T) {
	families := QueueFamilySlice{
		{Index: 0, VKQueueFamilyProperties: props(1, vk.QueueComputeBit)},
		{Index: 1, VKQueueFamilyProperties: props(1, vk.QueueGraphicsBit, vk.QueueTransferBit)},
		{Index: 2, VKQueueFamilyProperties: props(2, vk.QueueGraphicsBit, vk.QueueComputeBit)},
	}

	assert.Len(t, families.FilterCompute(), 2)
	assert.Len(t, families.FilterGraphics(), 2)
	assert.Len(t, families.FilterTransfer(), 1)

	assert.Equal(t, 1, families.Select(vk.QueueGraphicsBit).Index)
	assert.Equal(t, 2, families.Select(vk.QueueGraphicsBit|vk.QueueComputeBit).Index)
	assert.Nil(t, families.Select(vk.QueueSparseBindingBit))

	assert.Equal(t, "{ Index: 2 Queues: 2 Compute: true Graphics: true Transfer: false }", families[2].String())
}
