package graphics

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// queuePriority is the priority of the only queue the program uses.
const queuePriority = 0.5

// Device is a logical device with the single queue used for drawing and
// presenting.
type Device struct {
	physical PhysicalDevice
	handle   vk.Device
	family   uint32
	queue    vk.Queue
}

// NewDevice creates a logical device on physical with one queue from family.
// Layers may be empty.
func NewDevice(
	physical PhysicalDevice,
	family uint32,
	extensions []string,
	layers []string,
) (*Device, error) {
	queueCreateInfos := []vk.DeviceQueueCreateInfo{
		{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{queuePriority},
		},
	}

	deviceFeatures := []vk.PhysicalDeviceFeatures{{}}

	extensions = safeStrings(extensions)
	createInfo := vk.DeviceCreateInfo{
		SType:            vk.StructureTypeDeviceCreateInfo,
		PEnabledFeatures: deviceFeatures,

		PQueueCreateInfos:    queueCreateInfos,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),

		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	if len(layers) > 0 {
		layers = safeStrings(layers)
		createInfo.PpEnabledLayerNames = layers
		createInfo.EnabledLayerCount = uint32(len(layers))
	}

	var handle vk.Device
	err := vk.Error(vk.CreateDevice(physical.handle, &createInfo, nil, &handle))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logical device")
	}

	var queue vk.Queue
	vk.GetDeviceQueue(handle, family, 0, &queue)

	return &Device{
		physical: physical,
		handle:   handle,
		family:   family,
		queue:    queue,
	}, nil
}

// WaitIdle blocks until the device has no work left.
func (d *Device) WaitIdle() error {
	if err := vk.Error(vk.DeviceWaitIdle(d.handle)); err != nil {
		return errors.Wrap(err, "vkDeviceWaitIdle")
	}
	return nil
}

// Destroy destroys the logical device. Everything created from it must be
// destroyed before.
func (d *Device) Destroy() {
	vk.DestroyDevice(d.handle, nil)
}

func (d *Device) findMemoryType(
	typeFilter uint32,
	properties vk.MemoryPropertyFlags,
) (uint32, error) {
	var memProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.physical.handle, &memProperties)
	memProperties.Deref()

	types := make([]vk.MemoryPropertyFlags, 0, memProperties.MemoryTypeCount)
	for i := uint32(0); i < memProperties.MemoryTypeCount; i++ {
		memType := memProperties.MemoryTypes[i]
		memType.Deref()
		types = append(types, memType.PropertyFlags)
	}

	return chooseMemoryType(types, typeFilter, properties)
}

// chooseMemoryType returns the index of the first memory type allowed by
// typeFilter which has all the wanted properties.
func chooseMemoryType(
	types []vk.MemoryPropertyFlags,
	typeFilter uint32,
	properties vk.MemoryPropertyFlags,
) (uint32, error) {
	for i, flags := range types {
		if typeFilter&(1<<uint32(i)) == 0 {
			continue
		}

		if flags&properties != properties {
			continue
		}

		return uint32(i), nil
	}

	return 0, errors.New("failed to find suitable memory type")
}
