package vulqueno

import (
	"io"
	"os"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/GRAYgoose124/vulqueno/internal/logging"
	"github.com/GRAYgoose124/vulqueno/spirv"
)

type ShaderModule struct {
	Device         *Device
	Path           string
	Code           []byte
	VKShaderModule vk.ShaderModule
}

// LoadShaderModule reads the SPIR-V file at path and creates a shader module
// on the runtime's device.
func LoadShaderModule(rt *Runtime, path string) (*ShaderModule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pathError(FileOpenFailed, path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, pathError(FileReadFailed, path, err)
	}

	if err := checkCodeSize(data); err != nil {
		return nil, pathError(ShaderModuleRejected, path, err)
	}

	s, err := CreateShaderModuleFromBytes(rt.Device(), data)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Path = path
		}
		return nil, err
	}
	s.Path = path

	logging.WithFields(map[string]interface{}{
		"path":  path,
		"bytes": len(data),
	}).Debug("loaded shader module")

	return s, nil
}

// CreateShaderModuleFromBytes hands code to vkCreateShaderModule without
// looking at its contents. The only checks are the ones the call itself
// requires: the length must be a non-zero multiple of four.
func CreateShaderModuleFromBytes(d *Device, code []byte) (*ShaderModule, error) {
	if err := checkCodeSize(code); err != nil {
		return nil, newError(ShaderModuleRejected, err)
	}

	words, err := spirv.Words(code)
	if err != nil {
		return nil, newError(ShaderModuleRejected, err)
	}

	var module vk.ShaderModule
	err = vkError(vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    words,
	}, nil, &module), "vkCreateShaderModule")
	if err != nil {
		return nil, newError(ShaderModuleRejected, err)
	}

	var ret ShaderModule
	ret.VKShaderModule = module
	ret.Device = d
	ret.Code = append([]byte(nil), code...)
	return &ret, nil
}

func checkCodeSize(code []byte) error {
	if len(code) == 0 {
		return errors.New("empty shader code")
	}
	if len(code)%4 != 0 {
		return errors.Errorf("shader code length %d is not a multiple of 4", len(code))
	}
	return nil
}

// Reflect parses the module's code. It does not touch the device.
func (s *ShaderModule) Reflect() (*spirv.Module, error) {
	return spirv.ParseBytes(s.Code)
}

func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	var shaderStageCreateInfo = vk.PipelineShaderStageCreateInfo{}
	shaderStageCreateInfo.SType = vk.StructureTypePipelineShaderStageCreateInfo
	shaderStageCreateInfo.Stage = stage
	shaderStageCreateInfo.Module = s.VKShaderModule
	shaderStageCreateInfo.PName = safeString(entryPoint)
	return shaderStageCreateInfo
}

func (s *ShaderModule) Destroy() {
	if s.VKShaderModule == nil {
		return
	}
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
	s.VKShaderModule = nil
}
