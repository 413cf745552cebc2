package graphics

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/device"
	"vulkan-triangle/logging"
	"vulkan-triangle/queues"
)

// DeviceExtensions are the device extensions the program can not run without.
var DeviceExtensions = []string{
	vk.KhrSwapchainExtensionName,
}

// PhysicalDevice is an enumerated GPU.
type PhysicalDevice struct {
	handle     vk.PhysicalDevice
	properties vk.PhysicalDeviceProperties
}

// Name returns the name the driver reports for the device.
func (p PhysicalDevice) Name() string {
	return vk.ToString(p.properties.DeviceName[:])
}

// Type returns the kind of device.
func (p PhysicalDevice) Type() device.Type {
	return deviceType(p.properties.DeviceType)
}

// EnumerateDevices lists the physical devices of the instance and describes
// each of them for device.Select. Both slices have the same order.
func EnumerateDevices(
	instance *Instance,
	surface *Surface,
) ([]PhysicalDevice, []device.Candidate, error) {
	var deviceCount uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(instance.handle, &deviceCount, nil))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get the number of physical devices")
	}
	if deviceCount == 0 {
		return nil, nil, nil
	}

	pDevices := make([]vk.PhysicalDevice, deviceCount)
	err = vk.Error(vk.EnumeratePhysicalDevices(instance.handle, &deviceCount, pDevices))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to enumerate the physical devices")
	}

	physical := make([]PhysicalDevice, 0, len(pDevices))
	candidates := make([]device.Candidate, 0, len(pDevices))
	for _, handle := range pDevices {
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(handle, &properties)
		properties.Deref()

		pd := PhysicalDevice{handle: handle, properties: properties}

		candidate, err := describe(pd, surface)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "describing %s", pd.Name())
		}

		logging.Logger().Debug("found physical device",
			"name", candidate.Name,
			"type", candidate.Type,
			"families", len(candidate.Families),
			"formats", candidate.SurfaceFormats,
			"presentModes", candidate.PresentModes,
		)

		physical = append(physical, pd)
		candidates = append(candidates, candidate)
	}

	return physical, candidates, nil
}

func describe(pd PhysicalDevice, surface *Surface) (device.Candidate, error) {
	extensions, err := deviceExtensions(pd.handle)
	if err != nil {
		return device.Candidate{}, err
	}

	families, err := queueFamilies(pd.handle, surface.handle)
	if err != nil {
		return device.Candidate{}, err
	}

	candidate := device.Candidate{
		Name:       pd.Name(),
		Type:       pd.Type(),
		Extensions: extensions,
		Families:   families,
	}

	// Without the swapchain extension the surface queries are not meaningful.
	if !hasExtension(extensions, vk.KhrSwapchainExtensionName) {
		return candidate, nil
	}

	support, err := querySurfaceSupport(pd.handle, surface.handle)
	if err != nil {
		return device.Candidate{}, err
	}
	candidate.SurfaceFormats = len(support.formats)
	candidate.PresentModes = len(support.presentModes)

	return candidate, nil
}

func deviceExtensions(handle vk.PhysicalDevice) ([]string, error) {
	var extensionsCount uint32
	res := vk.EnumerateDeviceExtensionProperties(handle, "", &extensionsCount, nil)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "failed to count device extensions")
	}

	available := make([]vk.ExtensionProperties, extensionsCount)
	res = vk.EnumerateDeviceExtensionProperties(handle, "", &extensionsCount, available)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "failed to enumerate device extensions")
	}

	names := make([]string, 0, len(available))
	for _, extension := range available {
		extension.Deref()
		names = append(names, vk.ToString(extension.ExtensionName[:]))
	}
	return names, nil
}

func queueFamilies(handle vk.PhysicalDevice, surface vk.Surface) ([]queues.Family, error) {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(handle, &queueFamilyCount, nil)

	properties := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(handle, &queueFamilyCount, properties)

	families := make([]queues.Family, len(properties))
	for i, family := range properties {
		family.Deref()

		var hasPresent vk.Bool32
		res := vk.GetPhysicalDeviceSurfaceSupport(handle, uint32(i), surface, &hasPresent)
		if err := vk.Error(res); err != nil {
			return nil, errors.Wrapf(err, "querying present support of queue family %d", i)
		}

		families[i] = queues.Family{
			Graphics: family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0,
			Present:  hasPresent.B(),
		}
	}
	return families, nil
}

func deviceType(t vk.PhysicalDeviceType) device.Type {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return device.DiscreteGPU
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return device.IntegratedGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return device.VirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return device.CPU
	default:
		return device.Other
	}
}

func hasExtension(extensions []string, name string) bool {
	name = trimNul(name)
	for _, extension := range extensions {
		if extension == name {
			return true
		}
	}
	return false
}
