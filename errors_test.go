package vulqueno

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"kind only", newError(NoPhysicalDevice, nil), "vulqueno: no physical device"},
		{"wrapped", newError(DeviceCreationFailed, errors.New("out of memory")), "vulqueno: device creation failed: out of memory"},
		{"stage", stageError(StageRecord, errors.New("boom")), "vulqueno: dispatch failed at record: boom"},
		{"path", pathError(FileOpenFailed, "a.spv", os.ErrNotExist), "vulqueno: failed to open file (a.spv): file does not exist"},
		{"multiline", newError(ShaderModuleRejected, errors.New("bad\ncode")), "vulqueno: shader module rejected: bad code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := errors.Wrap(pathError(FileOpenFailed, "x.spv", os.ErrNotExist), "loading")

	assert.True(t, errors.Is(err, FileOpenFailed))
	assert.False(t, errors.Is(err, FileReadFailed))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "x.spv", e.Path)
	assert.Equal(t, StageNone, e.Stage)
}

func TestErrorKindNames(t *testing.T) {
	for k := NoLibrary; k <= FenceWaitFailed; k++ {
		_, ok := kindNames[k]
		assert.True(t, ok, "missing name for kind %d", int(k))
	}
	assert.Equal(t, "error kind 99", ErrorKind(99).String())
}

func TestVKError(t *testing.T) {
	assert.NoError(t, vkError(vk.Success, "vkCreateBuffer"))

	err := vkError(vk.ErrorOutOfDeviceMemory, "vkAllocateMemory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vkAllocateMemory")
	assert.Contains(t, err.Error(), "TestVKError")
}
