package graphics

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// RenderPass is the single pass which clears the swapchain image and draws
// the triangle into it.
type RenderPass struct {
	device *Device
	handle vk.RenderPass
}

// NewRenderPass creates a render pass writing to images of the given format.
func NewRenderPass(device *Device, format vk.Format) (*RenderPass, error) {
	colorAttachment := colorAttachmentDescription(format)

	colorAttachmentRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    []vk.AttachmentReference{colorAttachmentRef},
	}

	dependency := externalDependency()

	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{colorAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	var renderPass vk.RenderPass
	res := vk.CreateRenderPass(device.handle, &renderPassInfo, nil, &renderPass)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "failed to create render pass")
	}

	return &RenderPass{device: device, handle: renderPass}, nil
}

// Destroy destroys the render pass.
func (r *RenderPass) Destroy() {
	vk.DestroyRenderPass(r.device.handle, r.handle, nil)
}

func colorAttachmentDescription(format vk.Format) vk.AttachmentDescription {
	return vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
}

// externalDependency makes the subpass wait for the presentation engine to
// release the image before writing color.
func externalDependency() vk.SubpassDependency {
	return vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}
}
