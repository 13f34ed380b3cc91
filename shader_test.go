package vulqueno

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadShaderModuleMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.spv")

	_, err := LoadShaderModule(nil, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, FileOpenFailed))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, path, e.Path)
}

func TestLoadShaderModuleEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.spv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := LoadShaderModule(nil, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ShaderModuleRejected))
}

func TestCreateShaderModuleMisaligned(t *testing.T) {
	_, err := CreateShaderModuleFromBytes(nil, []byte{0x03, 0x02, 0x23, 0x07, 0x00})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ShaderModuleRejected))

	_, err = CreateShaderModuleFromBytes(nil, nil)
	assert.True(t, errors.Is(err, ShaderModuleRejected))
}

func TestLoadShaderModuleTwice(t *testing.T) {
	rt := requireRuntime(t)
	path := multiplyShader

	a, err := LoadShaderModule(rt, path)
	require.NoError(t, err)
	defer a.Destroy()

	b, err := LoadShaderModule(rt, path)
	require.NoError(t, err)
	defer b.Destroy()

	assert.NotEqual(t, a.VKShaderModule, b.VKShaderModule)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, path, a.Path)

	m, err := a.Reflect()
	require.NoError(t, err)
	e, ok := m.EntryPoint("main")
	require.True(t, ok)
	assert.Equal(t, uint64(64), e.Invocations())
}
