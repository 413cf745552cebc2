package frame

import (
	"github.com/pkg/errors"

	"vulkan-triangle/swapchain"
)

var (
	// ErrOutOfDate means the swapchain no longer matches the surface and has
	// to be recreated before it can be used again.
	ErrOutOfDate = errors.New("swapchain out of date")

	// ErrSuboptimal means the image was presented but the swapchain should be
	// recreated.
	ErrSuboptimal = errors.New("swapchain suboptimal")

	// ErrDeviceLost means the logical device is no longer usable.
	ErrDeviceLost = errors.New("device lost")
)

// Image is a presentable image handed out by Renderer.Acquire.
type Image struct {

	// Index is the position of the image, and its framebuffer, in the chain.
	Index uint32

	// Suboptimal is set when the image can be used but the chain no longer
	// matches the surface exactly.
	Suboptimal bool

	// Ready is renderer state which is signalled once the image may be
	// written. The loop only passes it back to the renderer.
	Ready any
}

// Pass describes the single render pass drawn in every frame.
type Pass struct {
	Framebuffer   uint32
	ClearColor    [4]float32
	Viewport      swapchain.Extent
	VertexCount   uint32
	InstanceCount uint32
}

// Renderer performs the GPU side of a frame.
type Renderer interface {

	// Acquire returns the next image of chain which may be drawn to. It blocks
	// until the presentation engine hands out an image. ErrOutOfDate is
	// returned when the chain has to be recreated first.
	Acquire(chain swapchain.Chain) (Image, error)

	// Execute records pass into a command buffer and submits it to run after
	// prev, which may be nil, and after img is ready. The returned work
	// includes prev.
	Execute(chain swapchain.Chain, img Image, pass Pass, prev Work) (Work, error)

	// Present queues img for presentation once work completes. It may return
	// ErrOutOfDate, ErrSuboptimal or ErrDeviceLost.
	Present(chain swapchain.Chain, img Image, work Work) error

	// WaitIdle blocks until the GPU has finished all submitted work.
	WaitIdle() error
}

// Mesh is the vertex data drawn every frame.
type Mesh interface {
	Len() uint32
}

// Window is where frames end up.
type Window interface {

	// FramebufferSize returns the current size of the drawable area.
	FramebufferSize() swapchain.Extent
}

// EventSource delivers window events.
type EventSource interface {

	// Poll returns the events which arrived since the last call. The last
	// one is always RedrawEventsCleared.
	Poll() []Event
}
