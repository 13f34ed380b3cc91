package vulqueno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestCreateStorageImage(t *testing.T) {
	rt := requireRuntime(t)

	img, err := CreateStorageImage(rt, 2560, 1440)
	require.NoError(t, err)
	defer img.Destroy()

	w, h := img.Dimensions()
	assert.Equal(t, uint32(2560), w)
	assert.Equal(t, uint32(1440), h)
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, img.Format())
	assert.Equal(t, rt.QueueFamilyIndex(), img.QueueFamilyIndex)
	assert.Equal(t, uint64(2560*1440*4), img.SizeInBytes())
	assert.Contains(t, img.String(), "2560x1440")
}

func TestCreateStorageImageZeroExtent(t *testing.T) {
	rt := requireRuntime(t)

	_, err := CreateStorageImage(rt, 0, 16)
	assert.ErrorIs(t, err, ImageCreationFailed)

	_, err = CreateStorageImage(rt, 16, 0)
	assert.ErrorIs(t, err, ImageCreationFailed)
}

func TestClearAndReadImage(t *testing.T) {
	rt := requireRuntime(t)

	img, err := CreateStorageImage(rt, 8, 4)
	require.NoError(t, err)
	defer img.Destroy()

	pix, err := ClearAndReadImage(rt, img, [4]float32{1, 0, 1, 1})
	require.NoError(t, err)
	require.Len(t, pix, 8*4*4)
	for i := 0; i < len(pix); i += 4 {
		if !assert.Equal(t, []byte{255, 0, 255, 255}, pix[i:i+4], "texel %d", i/4) {
			break
		}
	}
	assert.Equal(t, 1, rt.Refs())
}
