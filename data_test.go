package vulqueno

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint32Slice(t *testing.T) {
	b := Uint32Slice{1, 0x01020304}.Bytes()
	assert.Len(t, b, 8)
	assert.Equal(t, uint32(0x01020304), binary.LittleEndian.Uint32(b[4:]))

	assert.Nil(t, Uint32Slice{}.Bytes())
}

func TestFloat32Slice(t *testing.T) {
	b := Float32Slice{1.5}.Bytes()
	assert.Equal(t, math.Float32bits(1.5), binary.LittleEndian.Uint32(b))
	assert.Nil(t, Float32Slice(nil).Bytes())
}

func TestIota(t *testing.T) {
	assert.Equal(t, Uint32Slice{0, 1, 2, 3}, Iota(4))
	assert.Empty(t, Iota(0))
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, "main\x00", safeString("main"))
	assert.Equal(t, "main\x00", safeString("main\x00"))

	in := []string{"VK_LAYER_KHRONOS_validation"}
	out := safeStrings(in)
	assert.Equal(t, "VK_LAYER_KHRONOS_validation\x00", out[0])
	assert.Equal(t, "VK_LAYER_KHRONOS_validation", in[0])
}

type destroyCounter struct{ n *int }

func (d destroyCounter) Destroy() { *d.n++ }

func TestDestroyAll(t *testing.T) {
	n := 0
	DestroyAll(destroyCounter{&n}, nil, destroyCounter{&n})
	assert.Equal(t, 2, n)
}
