//go:build !verbose_vulkan_creation

package vulqueno

func logCreation(rt *Runtime) {}
