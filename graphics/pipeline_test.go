package graphics

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/frame"
	"vulkan-triangle/geometry"
	"vulkan-triangle/swapchain"

	. "github.com/onsi/gomega"
)

func TestVertexInputMatchesVertex(t *testing.T) {
	g := NewWithT(t)

	binding := vertexBindingDescription()
	g.Expect(binding.Binding).To(Equal(uint32(0)))
	g.Expect(binding.Stride).To(Equal(uint32(8)))
	g.Expect(binding.InputRate).To(Equal(vk.VertexInputRateVertex))

	attributes := vertexAttributeDescriptions()
	g.Expect(attributes).To(HaveLen(1))
	g.Expect(attributes[0].Location).To(Equal(uint32(geometry.PositionLocation)))
	g.Expect(attributes[0].Format).To(Equal(vk.FormatR32g32Sfloat))
	g.Expect(attributes[0].Offset).To(Equal(uint32(0)))
}

func TestMaximalScissor(t *testing.T) {
	g := NewWithT(t)

	scissor := maximalScissor()
	g.Expect(scissor.Offset).To(Equal(vk.Offset2D{}))
	g.Expect(scissor.Extent.Width).To(Equal(uint32(0x7fffffff)))
	g.Expect(scissor.Extent.Height).To(Equal(uint32(0x7fffffff)))
}

func TestRasterizationState(t *testing.T) {
	g := NewWithT(t)

	state := rasterizationState()
	g.Expect(state.PolygonMode).To(Equal(vk.PolygonModeFill))
	g.Expect(state.CullMode).To(Equal(vk.CullModeFlags(vk.CullModeNone)))
	g.Expect(state.FrontFace).To(Equal(vk.FrontFaceCounterClockwise))
	g.Expect(state.LineWidth).To(Equal(float32(1)))
}

func TestRenderPassAttachment(t *testing.T) {
	g := NewWithT(t)

	attachment := colorAttachmentDescription(vk.FormatB8g8r8a8Srgb)
	g.Expect(attachment.Format).To(Equal(vk.FormatB8g8r8a8Srgb))
	g.Expect(attachment.Samples).To(Equal(vk.SampleCount1Bit))
	g.Expect(attachment.LoadOp).To(Equal(vk.AttachmentLoadOpClear))
	g.Expect(attachment.StoreOp).To(Equal(vk.AttachmentStoreOpStore))
	g.Expect(attachment.InitialLayout).To(Equal(vk.ImageLayoutUndefined))
	g.Expect(attachment.FinalLayout).To(Equal(vk.ImageLayoutPresentSrc))

	dependency := externalDependency()
	g.Expect(dependency.SrcSubpass).To(Equal(uint32(vk.SubpassExternal)))
	g.Expect(dependency.DstSubpass).To(Equal(uint32(0)))
	g.Expect(dependency.DstAccessMask).To(Equal(vk.AccessFlags(vk.AccessColorAttachmentWriteBit)))
}

func TestPassViewport(t *testing.T) {
	g := NewWithT(t)

	pass := frame.Pass{
		ClearColor:    [4]float32{0.1, 0.1, 0.1, 1},
		Viewport:      swapchain.Extent{Width: 1024, Height: 768},
		VertexCount:   3,
		InstanceCount: 1,
	}

	viewport := viewportFor(pass)
	g.Expect(viewport.Width).To(Equal(float32(1024)))
	g.Expect(viewport.Height).To(Equal(float32(768)))
	g.Expect(viewport.MinDepth).To(Equal(float32(0)))
	g.Expect(viewport.MaxDepth).To(Equal(float32(1)))

	info := renderPassBeginInfo(vk.NullRenderPass, vk.NullFramebuffer, pass)
	g.Expect(info.RenderArea.Extent).To(Equal(vk.Extent2D{Width: 1024, Height: 768}))
	g.Expect(info.ClearValueCount).To(Equal(uint32(1)))
	g.Expect(info.PClearValues).To(HaveLen(1))
}
