package graphics

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/frame"
)

func createCommandPool(device *Device) (vk.CommandPool, error) {
	poolInfo := vk.CommandPoolCreateInfo{
		SType: vk.StructureTypeCommandPoolCreateInfo,
		Flags: vk.CommandPoolCreateFlags(
			vk.CommandPoolCreateResetCommandBufferBit,
		),
		QueueFamilyIndex: device.family,
	}

	var commandPool vk.CommandPool
	res := vk.CreateCommandPool(device.handle, &poolInfo, nil, &commandPool)
	if err := vk.Error(res); err != nil {
		return vk.NullCommandPool, errors.Wrap(err, "failed to create command pool")
	}

	return commandPool, nil
}

func allocateCommandBuffer(device *Device, pool vk.CommandPool) (vk.CommandBuffer, error) {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}

	commandBuffers := make([]vk.CommandBuffer, 1)
	res := vk.AllocateCommandBuffers(device.handle, &allocInfo, commandBuffers)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "failed to allocate command buffer")
	}

	return commandBuffers[0], nil
}

// recordPass records pass drawing into framebuffer.
func (r *Renderer) recordPass(
	commandBuffer vk.CommandBuffer,
	framebuffer vk.Framebuffer,
	pass frame.Pass,
) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}

	res := vk.BeginCommandBuffer(commandBuffer, &beginInfo)
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "cannot add begin command to the buffer")
	}

	renderPassInfo := renderPassBeginInfo(r.renderPass.handle, framebuffer, pass)
	vk.CmdBeginRenderPass(commandBuffer, &renderPassInfo, vk.SubpassContentsInline)
	vk.CmdBindPipeline(commandBuffer, vk.PipelineBindPointGraphics, r.pipeline.handle)

	vk.CmdSetViewport(commandBuffer, 0, 1, []vk.Viewport{viewportFor(pass)})

	vertexBuffers := []vk.Buffer{r.vertices.buffer}
	offsets := []vk.DeviceSize{0}
	vk.CmdBindVertexBuffers(commandBuffer, 0, 1, vertexBuffers, offsets)

	vk.CmdDraw(commandBuffer, pass.VertexCount, pass.InstanceCount, 0, 0)
	vk.CmdEndRenderPass(commandBuffer)

	if err := vk.Error(vk.EndCommandBuffer(commandBuffer)); err != nil {
		return errors.Wrap(err, "recording commands to buffer failed")
	}
	return nil
}

func renderPassBeginInfo(
	renderPass vk.RenderPass,
	framebuffer vk.Framebuffer,
	pass frame.Pass,
) vk.RenderPassBeginInfo {
	clearColor := vk.NewClearValue(pass.ClearColor[:])

	return vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass,
		Framebuffer: framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{
				Width:  pass.Viewport.Width,
				Height: pass.Viewport.Height,
			},
		},
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clearColor},
	}
}

func viewportFor(pass frame.Pass) vk.Viewport {
	return vk.Viewport{
		X: 0, Y: 0,
		Width:    float32(pass.Viewport.Width),
		Height:   float32(pass.Viewport.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}
}
