package graphics

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Surface is the presentation surface of a window.
type Surface struct {
	instance *Instance
	handle   vk.Surface
}

// NewSurface creates a surface for drawing into window.
func NewSurface(instance *Instance, window *glfw.Window) (*Surface, error) {
	surfacePtr, err := window.CreateWindowSurface(instance.handle, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create surface within GLFW window")
	}

	return &Surface{
		instance: instance,
		handle:   vk.SurfaceFromPointer(surfacePtr),
	}, nil
}

// Destroy destroys the surface.
func (s *Surface) Destroy() {
	if s.handle != vk.NullSurface {
		vk.DestroySurface(s.instance.handle, s.handle, nil)
		s.handle = vk.NullSurface
	}
}

// surfaceSupport describes what a physical device can do with the surface.
type surfaceSupport struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func querySurfaceSupport(device vk.PhysicalDevice, surface vk.Surface) (surfaceSupport, error) {
	details := surfaceSupport{}

	var capabilities vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(device, surface, &capabilities)
	if err := vk.Error(res); err != nil {
		return details, errors.Wrap(err, "failed to query device surface capabilities")
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()

	details.capabilities = capabilities

	var formatCount uint32
	res = vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, nil)
	if err := vk.Error(res); err != nil {
		return details, errors.Wrap(err, "failed to query device surface formats")
	}

	if formatCount != 0 {
		formats := make([]vk.SurfaceFormat, formatCount)
		vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, formats)
		for _, format := range formats {
			format.Deref()
			details.formats = append(details.formats, format)
		}
	}

	var presentModeCount uint32
	res = vk.GetPhysicalDeviceSurfacePresentModes(device, surface, &presentModeCount, nil)
	if err := vk.Error(res); err != nil {
		return details, errors.Wrap(err, "failed to query device surface present modes")
	}

	if presentModeCount != 0 {
		presentModes := make([]vk.PresentMode, presentModeCount)
		vk.GetPhysicalDeviceSurfacePresentModes(device, surface, &presentModeCount, presentModes)
		details.presentModes = presentModes
	}

	return details, nil
}

// ChooseSurfaceFormat returns the first format the surface supports.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, error) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, errors.New("surface reports no supported formats")
	}
	return formats[0], nil
}
