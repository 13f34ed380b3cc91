package vulqueno

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// HostBuffer is a buffer backed by host-visible, host-coherent memory that
// stays mapped for its whole lifetime.
type HostBuffer struct {
	Buffer *Buffer
	Memory *DeviceMemory
}

// NewHostBuffer creates, binds and maps a host buffer of size bytes.
func NewHostBuffer(d *Device, size uint64, usage vk.BufferUsageFlagBits) (*HostBuffer, error) {
	if size == 0 {
		return nil, errors.New("zero sized buffer")
	}

	buffer, err := d.CreateBuffer(size, usage)
	if err != nil {
		return nil, err
	}

	memory, err := d.AllocateForBuffer(buffer, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		buffer.Destroy()
		return nil, err
	}

	if err := buffer.Bind(memory, 0); err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, err
	}

	if _, err := memory.Map(); err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, err
	}

	return &HostBuffer{Buffer: buffer, Memory: memory}, nil
}

// Size is the requested size of the buffer in bytes. The underlying
// allocation may be larger.
func (h *HostBuffer) Size() uint64 {
	return h.Buffer.Size
}

// Bytes returns the mapped contents. Reads made before the work writing the
// buffer has completed observe unspecified values.
func (h *HostBuffer) Bytes() []byte {
	b := h.Memory.Bytes()
	if b == nil {
		return nil
	}
	return b[:h.Buffer.Size]
}

func (h *HostBuffer) Destroy() {
	h.Buffer.Destroy()
	h.Memory.Destroy()
}

// StorageBuffer is a HostBuffer usable as a compute storage buffer.
type StorageBuffer struct {
	*HostBuffer
}

// NewStorageBuffer creates a zeroed storage buffer of size bytes.
func NewStorageBuffer(rt *Runtime, size uint64) (*StorageBuffer, error) {
	hb, err := NewHostBuffer(rt.Device(), size, vk.BufferUsageStorageBufferBit)
	if err != nil {
		return nil, newError(BufferCreationFailed, err)
	}
	b := hb.Bytes()
	for i := range b {
		b[i] = 0
	}
	return &StorageBuffer{HostBuffer: hb}, nil
}

// NewStorageBufferFrom creates a storage buffer holding a copy of bo.
func NewStorageBufferFrom(rt *Runtime, bo BufferObject) (*StorageBuffer, error) {
	src := bo.Bytes()
	hb, err := NewHostBuffer(rt.Device(), uint64(len(src)), vk.BufferUsageStorageBufferBit)
	if err != nil {
		return nil, newError(BufferCreationFailed, err)
	}
	copy(hb.Bytes(), src)
	return &StorageBuffer{HostBuffer: hb}, nil
}

// Uint32s views the buffer as a slice of uint32 backed by the mapping.
func (s *StorageBuffer) Uint32s() []uint32 {
	b := s.Bytes()
	if len(b) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// Float32s views the buffer as a slice of float32 backed by the mapping.
func (s *StorageBuffer) Float32s() []float32 {
	b := s.Bytes()
	if len(b) < 4 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}
