// Package graphics implements the Vulkan side of the program: instance,
// surface, devices, swapchains, the triangle pipeline and frame submission.
package graphics

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/logging"
	"vulkan-triangle/shaders"
)

// Init loads the Vulkan entry points through GLFW. It must be called after
// glfw.Init and before anything else in this package.
func Init() error {
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())

	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "failed to init Vulkan Go")
	}
	return nil
}

// apiVersion is the Vulkan version the program is written against. It has to
// accept the SPIR-V produced by the shaders package.
var apiVersion = vk.MakeVersion(1, 1, 0)

// Instance is a Vulkan instance.
type Instance struct {
	handle vk.Instance
}

// NewInstance creates an instance with the given instance extensions. The
// validation layers are enabled when the list is not empty.
func NewInstance(appName string, extensions []string, layers []string) (*Instance, error) {
	if len(layers) > 0 {
		if missing := missingLayers(layers); len(missing) > 0 {
			return nil, errors.Errorf("validation layers requested but not available: %v", missing)
		}
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(appName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        "No Engine\x00",
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         apiVersion,
	}

	extensions = safeStrings(extensions)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	layers = safeStrings(layers)
	if len(layers) > 0 {
		createInfo.EnabledLayerCount = uint32(len(layers))
		createInfo.PpEnabledLayerNames = layers
	}

	if shaders.MaxVersion > spirvVersion(apiVersion) {
		return nil, errors.Errorf("shaders need a newer Vulkan API than 0x%08X", apiVersion)
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "failed to create Vulkan instance")
	}

	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "failed to init instance functions")
	}

	logging.Logger().Debug("instance created", "extensions", len(extensions), "layers", len(layers))
	return &Instance{handle: instance}, nil
}

// Destroy destroys the instance. Everything created from it must be destroyed
// before.
func (i *Instance) Destroy() {
	vk.DestroyInstance(i.handle, nil)
}

// spirvVersion returns the newest SPIR-V version word a Vulkan API version
// accepts.
func spirvVersion(api uint32) uint32 {
	major, minor := api>>22, (api>>12)&0x3ff
	switch {
	case major == 1 && minor == 0:
		return shaders.VersionWord(1, 0)
	case major == 1 && minor == 1:
		return shaders.VersionWord(1, 3)
	case major == 1 && minor == 2:
		return shaders.VersionWord(1, 5)
	default:
		return shaders.VersionWord(1, 6)
	}
}

// missingLayers returns the requested layers which the loader does not offer.
func missingLayers(requested []string) []string {
	var count uint32
	if vk.EnumerateInstanceLayerProperties(&count, nil) != vk.Success {
		return requested
	}

	availableLayers := make([]vk.LayerProperties, count)
	if vk.EnumerateInstanceLayerProperties(&count, availableLayers) != vk.Success {
		return requested
	}

	available := make(map[string]struct{}, count)
	for _, layer := range availableLayers {
		layer.Deref()
		available[vk.ToString(layer.LayerName[:])] = struct{}{}
	}

	return missingNames(requested, available)
}

func missingNames(requested []string, available map[string]struct{}) []string {
	var missing []string
	for _, name := range requested {
		if _, ok := available[trimNul(name)]; !ok {
			missing = append(missing, trimNul(name))
		}
	}
	return missing
}

func trimNul(s string) string {
	if len(s) > 0 && s[len(s)-1] == 0 {
		return s[:len(s)-1]
	}
	return s
}
