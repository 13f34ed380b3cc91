package vulqueno

import (
	"fmt"
	"reflect"

	vk "github.com/vulkan-go/vulkan"
)

// creationDiagnostics describes the objects a Runtime was built from, one
// line per fact.
func creationDiagnostics(rt *Runtime) []string {
	lines := []string{
		fmt.Sprintf("instance api version: %s", rt.instance.APIVersion),
		fmt.Sprintf("physical device: %s (%s, api %s)", rt.physicalDevice, rt.physicalDevice.DeviceType(), rt.physicalDevice.APIVersion()),
	}

	if families, err := rt.physicalDevice.QueueFamilies(); err == nil {
		lines = append(lines, fmt.Sprintf("queue families: %d", len(families)))
		for _, qf := range families {
			lines = append(lines, fmt.Sprintf("queue family %d: %d queues", qf.Index, qf.QueueCount()))
		}
	}

	lines = append(lines,
		fmt.Sprintf("selected queue family: %d", rt.queueFamily.Index),
		fmt.Sprintf("enabled features: %v", enabledFeatures(rt.device.EnabledFeatures)),
		fmt.Sprintf("queue: %p on family %d", rt.queue.VKQueue, rt.queue.FamilyIndex()),
	)
	return lines
}

// enabledFeatures lists the names of the features set to true.
func enabledFeatures(f vk.PhysicalDeviceFeatures) []string {
	names := []string{}
	v := reflect.ValueOf(f)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous || field.Type.Kind() != reflect.Uint32 {
			continue
		}
		if v.Field(i).Uint() == uint64(vk.True) {
			names = append(names, field.Name)
		}
	}
	return names
}
