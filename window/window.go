// Package window wraps the GLFW window the triangle is drawn into and turns
// its callbacks into frame events.
package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"vulkan-triangle/frame"
	"vulkan-triangle/swapchain"
)

// Window is a resizable GLFW window without a client API. All methods must be
// called from the main thread.
type Window struct {
	glfw    *glfw.Window
	pending []frame.Event
}

// New initializes GLFW and opens a window.
func New(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw.Init")
	}

	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, errors.New("GLFW did not find a Vulkan loader")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "creating window")
	}

	w := &Window{glfw: win}
	win.SetFramebufferSizeCallback(w.frameBufferResizeCallback)
	win.SetCloseCallback(w.closeCallback)

	return w, nil
}

func (w *Window) frameBufferResizeCallback(_ *glfw.Window, width int, height int) {
	w.pending = append(w.pending, frame.Resized{Width: width, Height: height})
}

func (w *Window) closeCallback(_ *glfw.Window) {
	w.pending = append(w.pending, frame.CloseRequested{})
}

// Poll processes the window events which arrived since the last call and
// returns them, followed by a frame.RedrawEventsCleared.
func (w *Window) Poll() []frame.Event {
	glfw.PollEvents()
	return w.drain()
}

func (w *Window) drain() []frame.Event {
	events := w.pending
	w.pending = nil

	return append(events, frame.RedrawEventsCleared{})
}

// FramebufferSize returns the size of the drawable area in pixels. It is zero
// while the window is minimized.
func (w *Window) FramebufferSize() swapchain.Extent {
	width, height := w.glfw.GetFramebufferSize()
	return swapchain.Extent{
		Width:  uint32(max(width, 0)),
		Height: uint32(max(height, 0)),
	}
}

// GLFW returns the underlying window.
func (w *Window) GLFW() *glfw.Window {
	return w.glfw
}

// Destroy closes the window and terminates GLFW.
func (w *Window) Destroy() {
	w.glfw.Destroy()
	glfw.Terminate()
}
