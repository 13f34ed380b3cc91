package commands

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GRAYgoose124/vulqueno"
)

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"compute", "--elements", "0"})
	assert.Error(t, cmd.Execute())
}

func TestVerifyMultiplied(t *testing.T) {
	tests := []struct {
		name      string
		data      []uint32
		footprint uint64
		wantErr   bool
	}{
		{"all invoked", []uint32{0, 12, 24, 36}, 4, false},
		{"unknown footprint", []uint32{0, 12, 24, 36}, 0, false},
		{"partial", []uint32{0, 12, 2, 3}, 2, false},
		{"not multiplied", []uint32{0, 1, 2, 3}, 4, true},
		{"past footprint", []uint32{0, 12, 24, 36}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyMultiplied(tt.data, 12, tt.footprint)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompareResults(t *testing.T) {
	assert.NoError(t, compareResults([]uint32{1, 2}, []uint32{1, 2}))
	assert.Error(t, compareResults([]uint32{1, 2}, []uint32{1}))
	assert.Error(t, compareResults([]uint32{1, 2}, []uint32{1, 3}))
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	pix := bytes.Repeat([]byte{10, 20, 30, 255}, 6)

	require.NoError(t, writePNG(path, pix, 3, 2))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	r, g, b, a := img.At(2, 1).RGBA()
	assert.Equal(t, []uint32{10, 20, 30, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})

	assert.Error(t, writePNG(path, pix, 4, 2))
}

func TestClearColor(t *testing.T) {
	cmd := newImageCommand()

	rgba, err := clearColor(cmd)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, rgba)

	require.NoError(t, cmd.Flags().Set("clear", "1,0,0.5,1"))
	rgba, err = clearColor(cmd)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{1, 0, 0.5, 1}, rgba)

	cmd = newImageCommand()
	require.NoError(t, cmd.Flags().Set("clear", "1,0,0"))
	_, err = clearColor(cmd)
	assert.Error(t, err)
}

func TestDrainFuture(t *testing.T) {
	rt, err := vulqueno.New()
	if err != nil {
		t.Skipf("vulkan unavailable: %v", err)
	}
	defer rt.Release()

	buf, err := vulqueno.NewStorageBufferFrom(rt, vulqueno.Iota(65536))
	require.NoError(t, err)
	defer buf.Destroy()

	future, err := vulqueno.ExecuteCompute(filepath.Join("..", "..", "..", "shaders", "shader.spv"), buf, rt)
	require.NoError(t, err)

	drainFuture(rt, future)
	assert.Equal(t, vulqueno.Completed, future.State())
	assert.Equal(t, 1, rt.Refs())
	assert.NoError(t, verifyMultiplied(buf.Uint32s(), 12, future.Footprint()))
}
