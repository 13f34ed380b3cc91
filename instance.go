package vulqueno

import (
	"fmt"
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

var loader struct {
	once sync.Once
	err  error
}

// InitializeLoader loads the platform Vulkan loader and the global entry
// points. The loader is process wide, so the work happens once and later
// calls return the first result.
func InitializeLoader() error {
	loader.once.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			loader.err = err
			return
		}
		loader.err = vk.Init()
	})
	return loader.err
}

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v *Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// VersionFromVK decodes a packed Vulkan version number.
func VersionFromVK(v uint32) Version {
	return Version{
		Major: int(v >> 22),
		Minor: int((v >> 12) & 0x3ff),
		Patch: int(v & 0xfff),
	}
}

// App is used to provide information about this specific application to Vulkan
type App struct {
	// Name the name of the application
	Name string
	// Engine the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version

	// EnabledLayers the enabled layers
	EnabledLayers []string

	// EnabledExtensions the enabled extensions
	EnabledExtensions []string
}

// SupportedLayers returns the instance layers reported by the loader.
// InitializeLoader must have succeeded first.
func SupportedLayers() ([]string, error) {
	var instanceLayerLen uint32
	err := vkError(vk.EnumerateInstanceLayerProperties(&instanceLayerLen, nil), "vkEnumerateInstanceLayerProperties")
	if err != nil {
		return nil, err
	}
	instanceLayer := make([]vk.LayerProperties, instanceLayerLen)
	err = vkError(vk.EnumerateInstanceLayerProperties(&instanceLayerLen, instanceLayer), "vkEnumerateInstanceLayerProperties")
	if err != nil {
		return nil, err
	}
	layerNames := make([]string, 0, instanceLayerLen)
	for _, layer := range instanceLayer {
		layer.Deref()
		layerNames = append(layerNames,
			vk.ToString(layer.LayerName[:]))
	}
	return layerNames, nil
}

// SupportedExtensions returns the instance extensions reported by the loader.
// InitializeLoader must have succeeded first.
func SupportedExtensions() ([]string, error) {
	var instanceExtLen uint32
	err := vkError(vk.EnumerateInstanceExtensionProperties("", &instanceExtLen, nil), "vkEnumerateInstanceExtensionProperties")
	if err != nil {
		return nil, err
	}
	instanceExt := make([]vk.ExtensionProperties, instanceExtLen)
	err = vkError(vk.EnumerateInstanceExtensionProperties("", &instanceExtLen, instanceExt), "vkEnumerateInstanceExtensionProperties")
	if err != nil {
		return nil, err
	}
	extNames := make([]string, 0, instanceExtLen)
	for _, ext := range instanceExt {
		ext.Deref()
		extNames = append(extNames,
			vk.ToString(ext.ExtensionName[:]))
	}
	return extNames, nil
}

//VKApplicationInfo creates a structure representing this application in a Vulkan friendly format
func (a *App) VKApplicationInfo() vk.ApplicationInfo {

	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}

	var appInfo = vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         a.APIVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
	return appInfo
}

// CreateInstance creates an the Vulkan Instance
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{APIVersion: a.APIVersion}

	err := vkError(vk.CreateInstance(&createInfo, nil, &instance.VKInstance), "vkCreateInstance")
	if err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance.VKInstance); err != nil {
		vk.DestroyInstance(instance.VKInstance, nil)
		return nil, err
	}

	return instance, nil
}

//PhysicalDevices returns a list of physical devices known to Vulkan, in
// enumeration order
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var deviceCount uint32
	err := vkError(vk.EnumeratePhysicalDevices(i.VKInstance, &deviceCount, nil), "vkEnumeratePhysicalDevices")
	if err != nil {
		return nil, err
	}

	if deviceCount == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, deviceCount)
	err = vkError(vk.EnumeratePhysicalDevices(i.VKInstance, &deviceCount, devices), "vkEnumeratePhysicalDevices")
	if err != nil {
		return nil, err
	}

	ret := make([]*PhysicalDevice, deviceCount)
	for i, device := range devices[:deviceCount] {
		ret[i] = &PhysicalDevice{}
		ret[i].VKPhysicalDevice = device

		vk.GetPhysicalDeviceProperties(device, &ret[i].VKPhysicalDeviceProperties)

		ret[i].VKPhysicalDeviceProperties.Deref()
		ret[i].DeviceName = vk.ToString(ret[i].VKPhysicalDeviceProperties.DeviceName[:])
	}
	return ret[:deviceCount], nil

}

//Instance is an instance of the Vulkan subsystem
type Instance struct {
	//VKInstance is the native Vulkan instance object
	VKInstance vk.Instance
	// APIVersion is the API version requested at creation
	APIVersion Version
}

func (i *Instance) Destroy() {
	if i.VKInstance == nil {
		return
	}
	vk.DestroyInstance(i.VKInstance, nil)
	i.VKInstance = nil
}
