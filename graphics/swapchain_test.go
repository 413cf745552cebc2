package graphics

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/swapchain"

	. "github.com/onsi/gomega"
)

func surfaceCapabilities() vk.SurfaceCapabilities {
	return vk.SurfaceCapabilities{
		MinImageCount:           2,
		MaxImageCount:           8,
		MinImageExtent:          vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent:          vk.Extent2D{Width: 4096, Height: 2160},
		CurrentTransform:        vk.SurfaceTransformIdentityBit,
		SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit | vk.CompositeAlphaInheritBit),
	}
}

func TestSupportsExtent(t *testing.T) {
	caps := surfaceCapabilities()

	tests := []struct {
		extent swapchain.Extent
		want   bool
	}{
		{swapchain.Extent{Width: 800, Height: 600}, true},
		{swapchain.Extent{Width: 1, Height: 1}, true},
		{swapchain.Extent{Width: 4096, Height: 2160}, true},
		{swapchain.Extent{Width: 0, Height: 600}, false},
		{swapchain.Extent{Width: 800, Height: 0}, false},
		{swapchain.Extent{Width: 4097, Height: 600}, false},
		{swapchain.Extent{Width: 800, Height: 2161}, false},
	}

	for _, test := range tests {
		g := NewWithT(t)
		g.Expect(supportsExtent(caps, test.extent)).To(Equal(test.want), "extent %s", test.extent)
	}
}

func TestSupportsExtentZeroMaximum(t *testing.T) {
	g := NewWithT(t)

	caps := surfaceCapabilities()
	caps.MinImageExtent = vk.Extent2D{}
	caps.MaxImageExtent = vk.Extent2D{}

	g.Expect(supportsExtent(caps, swapchain.Extent{Width: 800, Height: 600})).To(BeFalse())
}

func TestChooseCompositeAlpha(t *testing.T) {
	g := NewWithT(t)

	g.Expect(chooseCompositeAlpha(
		vk.CompositeAlphaFlags(vk.CompositeAlphaPreMultipliedBit | vk.CompositeAlphaInheritBit),
	)).To(Equal(vk.CompositeAlphaPreMultipliedBit))

	g.Expect(chooseCompositeAlpha(
		vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit | vk.CompositeAlphaInheritBit),
	)).To(Equal(vk.CompositeAlphaOpaqueBit))

	g.Expect(chooseCompositeAlpha(
		vk.CompositeAlphaFlags(vk.CompositeAlphaInheritBit),
	)).To(Equal(vk.CompositeAlphaInheritBit))

	g.Expect(chooseCompositeAlpha(0)).To(Equal(vk.CompositeAlphaOpaqueBit))
}

func TestSwapchainCreateInfo(t *testing.T) {
	g := NewWithT(t)

	format := vk.SurfaceFormat{
		Format:     vk.FormatB8g8r8a8Srgb,
		ColorSpace: vk.ColorSpaceSrgbNonlinear,
	}
	extent := swapchain.Extent{Width: 1024, Height: 768}

	info := swapchainCreateInfo(vk.NullSurface, surfaceCapabilities(), format, extent, vk.NullSwapchain)

	g.Expect(info.MinImageCount).To(Equal(uint32(2)))
	g.Expect(info.ImageFormat).To(Equal(vk.FormatB8g8r8a8Srgb))
	g.Expect(info.ImageColorSpace).To(Equal(vk.ColorSpaceSrgbNonlinear))
	g.Expect(info.ImageExtent).To(Equal(vk.Extent2D{Width: 1024, Height: 768}))
	g.Expect(info.ImageArrayLayers).To(Equal(uint32(1)))
	g.Expect(info.ImageUsage).To(Equal(vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)))
	g.Expect(info.ImageSharingMode).To(Equal(vk.SharingModeExclusive))
	g.Expect(info.CompositeAlpha).To(Equal(vk.CompositeAlphaOpaqueBit))
	g.Expect(info.PresentMode).To(Equal(vk.PresentModeFifo))
	g.Expect(info.PreTransform).To(Equal(vk.SurfaceTransformIdentityBit))
	g.Expect(info.Clipped).To(Equal(vk.Bool32(vk.True)))
	g.Expect(info.OldSwapchain).To(Equal(vk.NullSwapchain))
}

func TestChooseSurfaceFormat(t *testing.T) {
	g := NewWithT(t)

	formats := []vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}

	format, err := ChooseSurfaceFormat(formats)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(format.Format).To(Equal(vk.FormatB8g8r8a8Unorm))

	_, err = ChooseSurfaceFormat(nil)
	g.Expect(err).To(HaveOccurred())
}

func TestImageViewCreateInfo(t *testing.T) {
	g := NewWithT(t)

	info := imageViewCreateInfo(vk.NullImage, vk.FormatB8g8r8a8Srgb)
	g.Expect(info.Format).To(Equal(vk.FormatB8g8r8a8Srgb))
	g.Expect(info.ViewType).To(Equal(vk.ImageViewType2d))
	g.Expect(info.SubresourceRange.LevelCount).To(Equal(uint32(1)))
	g.Expect(info.SubresourceRange.LayerCount).To(Equal(uint32(1)))
}
