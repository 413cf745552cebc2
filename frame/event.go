package frame

// Event is something the window tells the loop about.
type Event interface {
	event()
}

// CloseRequested is sent when the user asks to close the window.
type CloseRequested struct{}

// Resized is sent when the framebuffer of the window changes size.
type Resized struct {
	Width  int
	Height int
}

// RedrawEventsCleared is sent once all pending window events have been
// delivered. Every one of them triggers drawing a frame.
type RedrawEventsCleared struct{}

func (CloseRequested) event()      {}
func (Resized) event()             {}
func (RedrawEventsCleared) event() {}
