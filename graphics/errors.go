package graphics

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/frame"
)

// acquireError converts the result of vkAcquireNextImageKHR. Suboptimal is
// reported through frame.Image and is not an error here.
func acquireError(res vk.Result) error {
	switch res {
	case vk.Success, vk.Suboptimal:
		return nil
	case vk.ErrorOutOfDate:
		return frame.ErrOutOfDate
	case vk.ErrorDeviceLost:
		return errors.Wrap(frame.ErrDeviceLost, "vkAcquireNextImageKHR")
	default:
		return errors.Wrap(vk.Error(res), "vkAcquireNextImageKHR")
	}
}

// presentError converts the result of vkQueuePresentKHR.
func presentError(res vk.Result) error {
	switch res {
	case vk.Success:
		return nil
	case vk.Suboptimal:
		return frame.ErrSuboptimal
	case vk.ErrorOutOfDate:
		return frame.ErrOutOfDate
	case vk.ErrorDeviceLost:
		return errors.Wrap(frame.ErrDeviceLost, "vkQueuePresentKHR")
	default:
		return errors.Wrap(vk.Error(res), "vkQueuePresentKHR")
	}
}

// safeStrings returns NUL terminated copies of names, which is what the
// Vulkan bindings expect for layer and extension names.
func safeStrings(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, safeString(name))
	}
	return out
}

func safeString(s string) string {
	if len(s) > 0 && s[len(s)-1] == 0 {
		return s
	}
	return s + "\x00"
}
