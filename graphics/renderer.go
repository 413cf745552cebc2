package graphics

import (
	"math"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/frame"
	"vulkan-triangle/logging"
	"vulkan-triangle/swapchain"
)

// Renderer draws the triangle into swapchain images. It keeps a pool of
// synchronization sets, one per submission which is still in use.
type Renderer struct {
	device     *Device
	renderPass *RenderPass
	pipeline   *Pipeline
	vertices   *VertexBuffer

	commandPool vk.CommandPool
	syncs       syncOps
	all         []*frameSync
	free        []*frameSync
}

var _ frame.Renderer = (*Renderer)(nil)

// frameSync is everything a single submission needs. The semaphore signalled
// for presentation belongs to the swapchain image instead, since the
// presentation engine may still be waiting on it after the fence signalled.
type frameSync struct {
	imageAvailable vk.Semaphore
	inFlight       vk.Fence
	commandBuffer  vk.CommandBuffer
}

// syncOps are the device operations on a sync set.
type syncOps interface {
	signalled(sync *frameSync) bool
	wait(sync *frameSync) error
	reset(sync *frameSync)
	resetCommands(sync *frameSync) error
}

type deviceSyncs struct {
	device vk.Device
}

func (d deviceSyncs) signalled(sync *frameSync) bool {
	return vk.GetFenceStatus(d.device, sync.inFlight) == vk.Success
}

func (d deviceSyncs) wait(sync *frameSync) error {
	fences := []vk.Fence{sync.inFlight}
	res := vk.WaitForFences(d.device, 1, fences, vk.True, math.MaxUint64)
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "vkWaitForFences")
	}
	return nil
}

func (d deviceSyncs) reset(sync *frameSync) {
	vk.ResetFences(d.device, 1, []vk.Fence{sync.inFlight})
}

func (d deviceSyncs) resetCommands(sync *frameSync) error {
	res := vk.ResetCommandBuffer(sync.commandBuffer, 0)
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "cannot reset command buffer")
	}
	return nil
}

// NewRenderer returns a renderer drawing vertices with pipeline.
func NewRenderer(
	device *Device,
	renderPass *RenderPass,
	pipeline *Pipeline,
	vertices *VertexBuffer,
) (*Renderer, error) {
	commandPool, err := createCommandPool(device)
	if err != nil {
		return nil, errors.Wrap(err, "createCommandPool")
	}

	return &Renderer{
		device:      device,
		renderPass:  renderPass,
		pipeline:    pipeline,
		vertices:    vertices,
		commandPool: commandPool,
		syncs:       deviceSyncs{device: device.handle},
	}, nil
}

// Acquire implements frame.Renderer.
func (r *Renderer) Acquire(chain swapchain.Chain) (frame.Image, error) {
	c, err := vulkanChain(chain)
	if err != nil {
		return frame.Image{}, err
	}

	sync, err := r.take()
	if err != nil {
		return frame.Image{}, err
	}

	var imageIndex uint32
	res := vk.AcquireNextImage(
		r.device.handle,
		c.handle,
		math.MaxUint64,
		sync.imageAvailable,
		vk.NullFence,
		&imageIndex,
	)
	if err := acquireError(res); err != nil {
		r.free = append(r.free, sync)
		return frame.Image{}, err
	}

	return frame.Image{
		Index:      imageIndex,
		Suboptimal: res == vk.Suboptimal,
		Ready:      sync,
	}, nil
}

// Execute implements frame.Renderer.
func (r *Renderer) Execute(
	chain swapchain.Chain,
	img frame.Image,
	pass frame.Pass,
	prev frame.Work,
) (frame.Work, error) {
	c, err := vulkanChain(chain)
	if err != nil {
		return nil, err
	}

	sync, ok := img.Ready.(*frameSync)
	if !ok {
		return nil, errors.Errorf("image %d was not acquired by this renderer", img.Index)
	}

	if int(pass.Framebuffer) >= len(c.framebuffers) {
		return nil, errors.Errorf("framebuffer %d out of range, chain has %d",
			pass.Framebuffer, len(c.framebuffers))
	}
	if int(img.Index) >= len(c.renderFinished) {
		return nil, errors.Errorf("image %d out of range, chain has %d",
			img.Index, len(c.renderFinished))
	}

	if err := r.syncs.resetCommands(sync); err != nil {
		return nil, err
	}

	err = r.recordPass(sync.commandBuffer, c.framebuffers[pass.Framebuffer], pass)
	if err != nil {
		return nil, errors.Wrap(err, "recording command buffer")
	}

	signalSemaphores := []vk.Semaphore{
		c.renderFinished[img.Index],
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{sync.imageAvailable},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{sync.commandBuffer},
		PSignalSemaphores:    signalSemaphores,
		SignalSemaphoreCount: uint32(len(signalSemaphores)),
	}

	res := vk.QueueSubmit(
		r.device.queue,
		1,
		[]vk.SubmitInfo{submitInfo},
		sync.inFlight,
	)
	if res == vk.ErrorDeviceLost {
		return nil, errors.Wrap(frame.ErrDeviceLost, "vkQueueSubmit")
	}
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "queue submit error")
	}

	return &work{renderer: r, sync: sync, prev: prev}, nil
}

// Present implements frame.Renderer.
func (r *Renderer) Present(chain swapchain.Chain, img frame.Image, w frame.Work) error {
	c, err := vulkanChain(chain)
	if err != nil {
		return err
	}

	if _, ok := w.(*work); !ok {
		return errors.Errorf("cannot present after work of type %T", w)
	}
	if int(img.Index) >= len(c.renderFinished) {
		return errors.Errorf("image %d out of range, chain has %d",
			img.Index, len(c.renderFinished))
	}

	waitSemaphores := []vk.Semaphore{
		c.renderFinished[img.Index],
	}

	swapChains := []vk.Swapchain{
		c.handle,
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waitSemaphores)),
		PWaitSemaphores:    waitSemaphores,
		SwapchainCount:     uint32(len(swapChains)),
		PSwapchains:        swapChains,
		PImageIndices:      []uint32{img.Index},
	}

	return presentError(vk.QueuePresent(r.device.queue, &presentInfo))
}

// WaitIdle implements frame.Renderer.
func (r *Renderer) WaitIdle() error {
	return r.device.WaitIdle()
}

// Destroy waits for the device and frees all synchronization objects and
// command buffers. Work handed out by the renderer must be released before.
func (r *Renderer) Destroy() {
	if err := r.device.WaitIdle(); err != nil {
		logging.Logger().Error("waiting for device before destroying renderer", "err", err)
	}

	for _, sync := range r.all {
		vk.DestroySemaphore(r.device.handle, sync.imageAvailable, nil)
		vk.DestroyFence(r.device.handle, sync.inFlight, nil)
		vk.FreeCommandBuffers(r.device.handle, r.commandPool, 1,
			[]vk.CommandBuffer{sync.commandBuffer})
	}
	r.all = nil
	r.free = nil

	vk.DestroyCommandPool(r.device.handle, r.commandPool, nil)
}

// take returns an unused synchronization set, creating one when the pool is
// empty.
func (r *Renderer) take() (*frameSync, error) {
	if n := len(r.free); n > 0 {
		sync := r.free[n-1]
		r.free = r.free[:n-1]
		return sync, nil
	}

	sync, err := r.newFrameSync()
	if err != nil {
		return nil, errors.Wrap(err, "createSyncObjects")
	}
	r.all = append(r.all, sync)

	logging.Logger().Debug("frame sync allocated", "total", len(r.all))
	return sync, nil
}

func (r *Renderer) newFrameSync() (*frameSync, error) {
	semaphoreInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}

	var imageAvailable vk.Semaphore
	if err := vk.Error(
		vk.CreateSemaphore(r.device.handle, &semaphoreInfo, nil, &imageAvailable),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create image available semaphore")
	}

	var fence vk.Fence
	if err := vk.Error(
		vk.CreateFence(r.device.handle, &fenceInfo, nil, &fence),
	); err != nil {
		vk.DestroySemaphore(r.device.handle, imageAvailable, nil)
		return nil, errors.Wrap(err, "failed to create in flight fence")
	}

	commandBuffer, err := allocateCommandBuffer(r.device, r.commandPool)
	if err != nil {
		vk.DestroySemaphore(r.device.handle, imageAvailable, nil)
		vk.DestroyFence(r.device.handle, fence, nil)
		return nil, err
	}

	return &frameSync{
		imageAvailable: imageAvailable,
		inFlight:       fence,
		commandBuffer:  commandBuffer,
	}, nil
}

func vulkanChain(chain swapchain.Chain) (*Chain, error) {
	c, ok := chain.(*Chain)
	if !ok {
		return nil, errors.Errorf("unsupported swapchain type %T", chain)
	}
	return c, nil
}

// work is a submitted command buffer together with the work submitted before
// it.
type work struct {
	renderer *Renderer
	sync     *frameSync
	prev     frame.Work
	released bool
}

// Finished implements frame.Work.
func (w *work) Finished() bool {
	if w.released {
		return true
	}

	if w.prev != nil {
		if !w.prev.Finished() {
			return false
		}
		w.prev.Release()
		w.prev = nil
	}

	return w.renderer.syncs.signalled(w.sync)
}

// Release implements frame.Work.
func (w *work) Release() {
	if w.released {
		return
	}
	w.released = true

	if err := w.renderer.syncs.wait(w.sync); err != nil {
		logging.Logger().Error("waiting for frame fence", "err", err)
	}

	if w.prev != nil {
		w.prev.Release()
		w.prev = nil
	}

	w.renderer.syncs.reset(w.sync)
	w.renderer.free = append(w.renderer.free, w.sync)
}
