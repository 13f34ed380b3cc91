package vulqueno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestHostReadBarrier(t *testing.T) {
	tests := []struct {
		name string
		src  vk.AccessFlagBits
	}{
		{"shader write", vk.AccessShaderWriteBit},
		{"transfer write", vk.AccessTransferWriteBit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := hostReadBarrier(tt.src)
			assert.Equal(t, vk.StructureTypeMemoryBarrier, b.SType)
			assert.Equal(t, vk.AccessFlags(tt.src), b.SrcAccessMask)
			assert.Equal(t, vk.AccessFlags(vk.AccessHostReadBit), b.DstAccessMask)
		})
	}
}
