package vulqueno

import (
	"sync"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/GRAYgoose124/vulqueno/internal/logging"
)

// DefaultAppName is the application name reported to Vulkan when
// RuntimeOptions.AppName is empty.
const DefaultAppName = "vulqueno"

// RuntimeOptions selects how New builds a Runtime. The zero value matches
// New.
type RuntimeOptions struct {
	// AppName is reported in the instance's application info.
	AppName string
	// DeviceIndex selects the physical device in enumeration order.
	DeviceIndex int
	// RequireCompute additionally requires the queue family to support
	// compute. By default only graphics support is required.
	RequireCompute bool
}

// Runtime owns a Vulkan instance, the chosen physical and logical device and
// one queue. It is shared by reference: New returns it holding one
// reference, Retain adds one and Release drops one. The last Release
// destroys the device and then the instance.
type Runtime struct {
	instance       *Instance
	physicalDevice *PhysicalDevice
	device         *Device
	queueFamily    *QueueFamily
	queue          *Queue

	mu   sync.Mutex
	refs int
}

// New builds a Runtime on physical device 0 and the first graphics capable
// queue family.
func New() (*Runtime, error) {
	return NewWithOptions(nil)
}

func NewWithOptions(opts *RuntimeOptions) (*Runtime, error) {
	if opts == nil {
		opts = &RuntimeOptions{}
	}
	name := opts.AppName
	if name == "" {
		name = DefaultAppName
	}

	if err := InitializeLoader(); err != nil {
		return nil, newError(NoLibrary, err)
	}

	app := &App{
		Name:       name,
		EngineName: DefaultAppName,
		Version:    Version{Major: 1},
		APIVersion: Version{Major: 1},
	}

	instance, err := app.CreateInstance()
	if err != nil {
		return nil, newError(InstanceCreationFailed, err)
	}

	rt := &Runtime{instance: instance, refs: 1}
	if err := rt.init(opts); err != nil {
		rt.destroy()
		return nil, err
	}

	logCreation(rt)

	return rt, nil
}

func (rt *Runtime) init(opts *RuntimeOptions) error {
	devices, err := rt.instance.PhysicalDevices()
	if err != nil {
		return newError(NoPhysicalDevice, err)
	}
	if opts.DeviceIndex < 0 || opts.DeviceIndex >= len(devices) {
		return newError(NoPhysicalDevice, errors.Errorf("device index %d out of range, %d devices", opts.DeviceIndex, len(devices)))
	}
	rt.physicalDevice = devices[opts.DeviceIndex]

	families, err := rt.physicalDevice.QueueFamilies()
	if err != nil {
		return newError(NoGraphicsQueueFamily, err)
	}

	required := vk.QueueGraphicsBit
	if opts.RequireCompute {
		required |= vk.QueueComputeBit
	}
	rt.queueFamily = families.Select(required)
	if rt.queueFamily == nil {
		return newError(NoGraphicsQueueFamily, errors.Errorf("none of %d queue families on %s qualifies", len(families), rt.physicalDevice))
	}

	rt.device, err = rt.physicalDevice.CreateLogicalDevice(rt.queueFamily)
	if err != nil {
		return newError(DeviceCreationFailed, err)
	}

	rt.queue = rt.device.GetQueue(rt.queueFamily)

	logging.WithFields(map[string]interface{}{
		"device":       rt.physicalDevice.DeviceName,
		"queue_family": rt.queueFamily.Index,
	}).Debug("runtime ready")

	return nil
}

func (rt *Runtime) Instance() *Instance {
	return rt.instance
}

func (rt *Runtime) PhysicalDevice() *PhysicalDevice {
	return rt.physicalDevice
}

func (rt *Runtime) Device() *Device {
	return rt.device
}

func (rt *Runtime) Queue() *Queue {
	return rt.queue
}

func (rt *Runtime) QueueFamily() *QueueFamily {
	return rt.queueFamily
}

func (rt *Runtime) QueueFamilyIndex() uint32 {
	return uint32(rt.queueFamily.Index)
}

// Retain adds a reference and returns rt. A Runtime whose last reference
// has been released cannot be revived: Retain logs a warning and returns nil.
func (rt *Runtime) Retain() *Runtime {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.refs == 0 {
		logging.Warnf("retain of a destroyed runtime")
		return nil
	}
	rt.refs++
	return rt
}

// Release drops a reference. Releasing a Runtime with no references left is
// a no-op.
func (rt *Runtime) Release() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.refs == 0 {
		return
	}
	rt.refs--
	if rt.refs == 0 {
		rt.destroy()
	}
}

// Refs returns the number of live references.
func (rt *Runtime) Refs() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.refs
}

func (rt *Runtime) destroy() {
	if rt.device != nil {
		rt.device.Destroy()
	}
	if rt.instance != nil {
		rt.instance.Destroy()
	}
	logging.Debugf("runtime destroyed")
}
