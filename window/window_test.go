package window

import (
	"testing"

	"vulkan-triangle/frame"

	. "github.com/onsi/gomega"
)

func TestDrainKeepsCallbackOrder(t *testing.T) {
	g := NewWithT(t)
	w := &Window{}

	w.frameBufferResizeCallback(nil, 640, 480)
	w.frameBufferResizeCallback(nil, 400, 300)
	w.closeCallback(nil)

	g.Expect(w.drain()).To(Equal([]frame.Event{
		frame.Resized{Width: 640, Height: 480},
		frame.Resized{Width: 400, Height: 300},
		frame.CloseRequested{},
		frame.RedrawEventsCleared{},
	}))
	g.Expect(w.drain()).To(Equal([]frame.Event{frame.RedrawEventsCleared{}}))
}
