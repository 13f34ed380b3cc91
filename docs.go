/*
Package vulqueno is a small convenience layer for running compute shaders on a Vulkan device
from go. Vulkan gives an application direct control of the GPU, but even a single compute
dispatch needs an instance, a device, a queue, a pipeline, descriptors, a command buffer and a
fence. This package bundles those steps so a program can hand it a SPIR-V file and a buffer and
get back a handle it can wait on.

Overview

A Runtime owns the Vulkan instance, the selected physical device, a logical device and one queue
from a family which supports graphics (and, optionally, compute). Runtimes are independent of
each other, so several can exist in one process. A Runtime is reference counted: New returns it
with one reference, every submitted dispatch holds another until it completes, and the device is
torn down when the last reference is released.

	rt, err := vulqueno.New()
	if err != nil {
		return err
	}
	defer rt.Release()

	data, err := vulqueno.NewStorageBufferFrom(rt, vulqueno.Iota(65536))
	if err != nil {
		return err
	}
	defer data.Destroy()

	f, err := vulqueno.ExecuteCompute("shaders/shader.spv", data, rt)
	if err != nil {
		return err
	}
	if err := f.Wait(-1); err != nil {
		return err
	}
	fmt.Println(data.Uint32s()[:8])

Dispatches

ExecuteCompute loads the shader, builds a compute pipeline whose layout has a single storage
buffer at set 0, binding 0, records a command buffer dispatching 1024x1x1 workgroups and submits
it with a fence. It returns as soon as the work is queued. The returned FenceFuture owns every
object created for the dispatch and releases them once Wait, WaitContext or Done observes the
fence signaled. ExecuteComputeWithOptions and DispatchModule accept a different entry point,
descriptor location or workgroup count.

The number of invocations a dispatch launches (its footprint) is the workgroup count times the
local size declared by the shader. The package reads the local size from the module itself, see
package spirv, and reports it through FenceFuture.Footprint. The buffer is not checked against
it; a shader that indexes past the end of the buffer is the caller's problem.

Errors

Every failure is returned as an *Error carrying an ErrorKind, and for dispatches the Stage that
failed. Kinds are errors themselves so callers can match with errors.Is:

	if errors.Is(err, vulqueno.FileOpenFailed) {
		...
	}

Native Vulkan objects

The wrappers expose the native handles in fields prefixed with 'VK', so applications aren't
limited by what this package provides.

	Instance		the vulkan runtime instance
	PhysicalDevice		the physical hardware device
	Device			the logical device, the target of most of the vulkan apis
	Queue			a queue which command buffers are submitted to
	ComputePipeline		a compute shader and the layout of the data it reads
	DescriptorSet		a mapping of buffers for use by shaders
	Buffer, DeviceMemory	a buffer and the memory backing it
	Image, ImageView	an image and a view of it
	Fence			signaled by the device when submitted work completes

Building with the verbose_vulkan_creation tag prints a description of every Runtime as it is
created: the API version, the device, its queue families, the family chosen and the enabled
features.
*/
package vulqueno
