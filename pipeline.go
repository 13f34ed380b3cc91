package vulqueno

import (
	vk "github.com/vulkan-go/vulkan"
)

type ComputePipeline struct {
	Device                          *Device
	EntryPoint                      string
	VKPipeline                      vk.Pipeline
	VKPipelineShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
	VKPipelineLayout                vk.PipelineLayout
}

func (c *ComputePipeline) SetPipelineLayout(layout *PipelineLayout) {
	c.VKPipelineLayout = layout.VKPipelineLayout
}

func (c *ComputePipeline) SetShaderStage(entryPoint string, shaderModule *ShaderModule) {
	c.EntryPoint = entryPoint
	c.VKPipelineShaderStageCreateInfo = shaderModule.VKPipelineShaderStageCreateInfo(vk.ShaderStageComputeBit, entryPoint)
}

// CreateComputePipelines builds every pipeline in cp in one call, without a
// pipeline cache and without specialization constants.
func (d *Device) CreateComputePipelines(cp ...*ComputePipeline) error {

	pipelines := make([]vk.Pipeline, len(cp))

	ci := make([]vk.ComputePipelineCreateInfo, len(cp))

	for i, p := range cp {
		var pipelineCreateInfo = vk.ComputePipelineCreateInfo{}
		pipelineCreateInfo.SType = vk.StructureTypeComputePipelineCreateInfo
		pipelineCreateInfo.Stage = p.VKPipelineShaderStageCreateInfo
		pipelineCreateInfo.Layout = p.VKPipelineLayout
		ci[i] = pipelineCreateInfo
	}

	err := vkError(vk.CreateComputePipelines(
		d.VKDevice, vk.PipelineCache(vk.NullHandle),
		uint32(len(ci)), ci,
		nil, pipelines), "vkCreateComputePipelines")

	if err != nil {
		return err
	}

	for i := range pipelines {
		cp[i].VKPipeline = pipelines[i]
		cp[i].Device = d
	}

	return nil

}

// CreateComputePipeline creates a single compute pipeline for the entry
// point of shader over layout.
func (d *Device) CreateComputePipeline(layout *PipelineLayout, shader *ShaderModule, entryPoint string) (*ComputePipeline, error) {
	p := &ComputePipeline{}
	p.SetPipelineLayout(layout)
	p.SetShaderStage(entryPoint, shader)
	if err := d.CreateComputePipelines(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *ComputePipeline) Destroy() {
	if c.VKPipeline == nil {
		return
	}
	vk.DestroyPipeline(c.Device.VKDevice, c.VKPipeline, nil)
	c.VKPipeline = nil
}
