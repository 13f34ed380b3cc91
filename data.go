package vulqueno

import (
	"unsafe"
)

// Uint32Slice is a BufferObject over native-endian uint32 values.
type Uint32Slice []uint32

func (s Uint32Slice) Bytes() []byte {
	if len(s) == 0 {
		return nil
	}
	size := len(s) * int(unsafe.Sizeof(uint32(1)))
	return ToBytes(unsafe.Pointer(&s[0]), size)
}

// Float32Slice is a BufferObject over native-endian float32 values.
type Float32Slice []float32

func (s Float32Slice) Bytes() []byte {
	if len(s) == 0 {
		return nil
	}
	size := len(s) * int(unsafe.Sizeof(float32(1)))
	return ToBytes(unsafe.Pointer(&s[0]), size)
}

// Iota returns 0, 1, ..., n-1.
func Iota(n int) Uint32Slice {
	s := make(Uint32Slice, n)
	for i := range s {
		s[i] = uint32(i)
	}
	return s
}
