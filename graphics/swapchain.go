package graphics

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/logging"
	"vulkan-triangle/swapchain"
)

// SurfaceFormat returns the pixel format used for every swapchain of surface.
func SurfaceFormat(device *Device, surface *Surface) (vk.SurfaceFormat, error) {
	support, err := querySurfaceSupport(device.physical.handle, surface.handle)
	if err != nil {
		return vk.SurfaceFormat{}, err
	}
	return ChooseSurfaceFormat(support.formats)
}

// SwapchainFactory builds swapchains for a surface together with their image
// views and framebuffers.
type SwapchainFactory struct {
	device     *Device
	surface    *Surface
	format     vk.SurfaceFormat
	renderPass *RenderPass
}

var _ swapchain.Factory = (*SwapchainFactory)(nil)

// NewSwapchainFactory returns a factory for chains compatible with renderPass.
func NewSwapchainFactory(
	device *Device,
	surface *Surface,
	format vk.SurfaceFormat,
	renderPass *RenderPass,
) *SwapchainFactory {
	return &SwapchainFactory{
		device:     device,
		surface:    surface,
		format:     format,
		renderPass: renderPass,
	}
}

// Create implements swapchain.Factory.
func (f *SwapchainFactory) Create(extent swapchain.Extent, old swapchain.Chain) (swapchain.Chain, error) {
	oldHandle := vk.NullSwapchain
	if old != nil {
		oldChain, ok := old.(*Chain)
		if !ok {
			return nil, errors.Errorf("cannot replace swapchain of type %T", old)
		}
		oldHandle = oldChain.handle
	}

	support, err := querySurfaceSupport(f.device.physical.handle, f.surface.handle)
	if err != nil {
		return nil, errors.Wrap(err, "createSwapChain")
	}

	if !supportsExtent(support.capabilities, extent) {
		return nil, errors.Wrapf(swapchain.ErrUnsupportedDimensions,
			"%s outside of %dx%d - %dx%d",
			extent,
			support.capabilities.MinImageExtent.Width,
			support.capabilities.MinImageExtent.Height,
			support.capabilities.MaxImageExtent.Width,
			support.capabilities.MaxImageExtent.Height,
		)
	}

	createInfo := swapchainCreateInfo(
		f.surface.handle,
		support.capabilities,
		f.format,
		extent,
		oldHandle,
	)

	var handle vk.Swapchain
	res := vk.CreateSwapchain(f.device.handle, &createInfo, nil, &handle)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "failed to create swap chain")
	}

	chain := &Chain{
		device: f.device,
		handle: handle,
		extent: extent,
		format: f.format.Format,
	}

	if err := chain.createImages(); err != nil {
		chain.Destroy()
		return nil, errors.Wrap(err, "createImageViews")
	}

	if err := chain.createFramebuffers(f.renderPass); err != nil {
		chain.Destroy()
		return nil, errors.Wrap(err, "createFramebuffers")
	}

	if err := chain.createSemaphores(); err != nil {
		chain.Destroy()
		return nil, errors.Wrap(err, "createSyncObjects")
	}

	logging.Logger().Debug("swapchain created",
		"extent", extent,
		"images", len(chain.images),
		"minImageCount", createInfo.MinImageCount,
	)
	return chain, nil
}

// Chain is a Vulkan swapchain with an image view, a framebuffer and a render
// finished semaphore for each of its images.
type Chain struct {
	device *Device
	handle vk.Swapchain
	extent swapchain.Extent
	format vk.Format

	images       []vk.Image
	imageViews   []vk.ImageView
	framebuffers []vk.Framebuffer

	// renderFinished is signalled by the submission drawing into the image
	// and waited on by its presentation.
	renderFinished []vk.Semaphore
}

var _ swapchain.Chain = (*Chain)(nil)

func (c *Chain) Extent() swapchain.Extent { return c.extent }
func (c *Chain) ImageCount() int          { return len(c.images) }
func (c *Chain) FramebufferCount() int    { return len(c.framebuffers) }

// Destroy waits for the device to become idle and destroys the chain.
func (c *Chain) Destroy() {
	if c.handle == vk.NullSwapchain {
		return
	}

	if err := c.device.WaitIdle(); err != nil {
		logging.Logger().Error("waiting for device before destroying swapchain", "err", err)
	}

	for _, semaphore := range c.renderFinished {
		vk.DestroySemaphore(c.device.handle, semaphore, nil)
	}
	c.renderFinished = nil

	for _, framebuffer := range c.framebuffers {
		vk.DestroyFramebuffer(c.device.handle, framebuffer, nil)
	}
	c.framebuffers = nil

	for _, imageView := range c.imageViews {
		vk.DestroyImageView(c.device.handle, imageView, nil)
	}
	c.imageViews = nil
	c.images = nil

	vk.DestroySwapchain(c.device.handle, c.handle, nil)
	c.handle = vk.NullSwapchain
}

func (c *Chain) createImages() error {
	var imagesCount uint32
	res := vk.GetSwapchainImages(c.device.handle, c.handle, &imagesCount, nil)
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "failed to count swapchain images")
	}

	images := make([]vk.Image, imagesCount)
	res = vk.GetSwapchainImages(c.device.handle, c.handle, &imagesCount, images)
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "failed to get swapchain images")
	}
	c.images = images

	for i, image := range c.images {
		createInfo := imageViewCreateInfo(image, c.format)

		var imageView vk.ImageView
		res := vk.CreateImageView(c.device.handle, &createInfo, nil, &imageView)
		if err := vk.Error(res); err != nil {
			return errors.Wrapf(err, "failed to create image view %d", i)
		}

		c.imageViews = append(c.imageViews, imageView)
	}

	return nil
}

func (c *Chain) createFramebuffers(renderPass *RenderPass) error {
	for i, imageView := range c.imageViews {
		frameBufferInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass.handle,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{imageView},
			Width:           c.extent.Width,
			Height:          c.extent.Height,
			Layers:          1,
		}

		var frameBuffer vk.Framebuffer
		res := vk.CreateFramebuffer(c.device.handle, &frameBufferInfo, nil, &frameBuffer)
		if err := vk.Error(res); err != nil {
			return errors.Wrapf(err, "failed to create frame buffer %d", i)
		}

		c.framebuffers = append(c.framebuffers, frameBuffer)
	}

	return nil
}

func (c *Chain) createSemaphores() error {
	semaphoreInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	for i := range c.images {
		var semaphore vk.Semaphore
		res := vk.CreateSemaphore(c.device.handle, &semaphoreInfo, nil, &semaphore)
		if err := vk.Error(res); err != nil {
			return errors.Wrapf(err, "failed to create render finished semaphore %d", i)
		}

		c.renderFinished = append(c.renderFinished, semaphore)
	}

	return nil
}

// supportsExtent reports whether the surface can currently take images of
// extent. A zero sized extent, as reported for minimized windows, never fits.
func supportsExtent(capabilities vk.SurfaceCapabilities, extent swapchain.Extent) bool {
	if extent.Width == 0 || extent.Height == 0 {
		return false
	}

	minExtent := capabilities.MinImageExtent
	maxExtent := capabilities.MaxImageExtent

	return extent.Width >= minExtent.Width && extent.Width <= maxExtent.Width &&
		extent.Height >= minExtent.Height && extent.Height <= maxExtent.Height
}

// chooseCompositeAlpha returns the lowest composite alpha mode in supported.
func chooseCompositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	for bit := vk.CompositeAlphaFlags(1); bit != 0 && bit <= supported; bit <<= 1 {
		if supported&bit != 0 {
			return vk.CompositeAlphaFlagBits(bit)
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

func swapchainCreateInfo(
	surface vk.Surface,
	capabilities vk.SurfaceCapabilities,
	format vk.SurfaceFormat,
	extent swapchain.Extent,
	old vk.Swapchain,
) vk.SwapchainCreateInfo {
	return vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         surface,
		MinImageCount:   capabilities.MinImageCount,
		ImageColorSpace: format.ColorSpace,
		ImageFormat:     format.Format,
		ImageExtent: vk.Extent2D{
			Width:  extent.Width,
			Height: extent.Height,
		},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   chooseCompositeAlpha(capabilities.SupportedCompositeAlpha),
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		OldSwapchain:     old,
	}
}

func imageViewCreateInfo(image vk.Image, format vk.Format) vk.ImageViewCreateInfo {
	return vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
}
