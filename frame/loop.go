// Package frame runs the event driven loop which draws the triangle.
package frame

import (
	"context"

	"github.com/pkg/errors"

	"vulkan-triangle/logging"
	"vulkan-triangle/swapchain"
)

// ClearColor is the background of every frame.
var ClearColor = [4]float32{0.1, 0.1, 0.1, 1.0}

// State is everything the loop changes between ticks. Only the loop which
// owns it may modify it.
type State struct {
	Chains        *swapchain.Manager
	InFlight      InFlight
	NeedsRecreate bool

	// Frames is the number of frames submitted so far.
	Frames uint64
}

// Loop reacts to window events and draws a frame on every redraw tick. It is
// not safe for concurrent use.
type Loop struct {
	window   Window
	renderer Renderer
	mesh     Mesh

	state   State
	stopped bool
}

// NewLoop returns a loop drawing mesh into the chains of chains.
func NewLoop(chains *swapchain.Manager, window Window, renderer Renderer, mesh Mesh) *Loop {
	return &Loop{
		window:   window,
		renderer: renderer,
		mesh:     mesh,
		state: State{
			Chains:   chains,
			InFlight: Idle{},
		},
	}
}

// State returns a copy of the current loop state.
func (l *Loop) State() State {
	return l.state
}

// Run polls events and handles them until the window is closed or ctx is
// done. Before returning it waits for all submitted work to finish.
func (l *Loop) Run(ctx context.Context, events EventSource) (err error) {
	log := logging.Logger()
	log.Info("main loop started")

	defer func() {
		if shutdownErr := l.shutdown(); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
		log.Info("main loop stopped", "frames", l.state.Frames)
	}()

	for {
		if ctx.Err() != nil {
			l.stopped = true
			return nil
		}

		for _, event := range events.Poll() {
			stop, err := l.Handle(event)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
}

// Handle processes a single event. It returns true once the loop has to stop.
// Errors are fatal.
func (l *Loop) Handle(event Event) (bool, error) {
	if l.stopped {
		return true, nil
	}

	switch e := event.(type) {
	case CloseRequested:
		l.stopped = true
		return true, nil
	case Resized:
		logging.Logger().Debug("window resized", "width", e.Width, "height", e.Height)
		l.state.NeedsRecreate = true
	case RedrawEventsCleared:
		if err := l.tick(&l.state); err != nil {
			return false, err
		}
	}

	return false, nil
}

func (l *Loop) tick(s *State) error {
	s.InFlight = cleanup(s.InFlight)

	if err := l.checkResize(s); err != nil {
		return err
	}

	chain := s.Chains.Current()

	img, err := l.renderer.Acquire(chain)
	if errors.Is(err, ErrOutOfDate) {
		s.NeedsRecreate = true
		return nil
	} else if err != nil {
		return errors.Wrap(err, "failed to acquire next image")
	}

	if img.Suboptimal {
		s.NeedsRecreate = true
	}

	work, err := l.recordAndSubmit(s, chain, img)
	if err != nil {
		return err
	}

	return l.present(s, chain, img, work)
}

func (l *Loop) checkResize(s *State) error {
	if !s.NeedsRecreate {
		return nil
	}

	recreated, err := s.Chains.Recreate(l.window.FramebufferSize())
	if err != nil {
		return err
	}

	if recreated {
		s.NeedsRecreate = false
	}
	return nil
}

func (l *Loop) recordAndSubmit(s *State, chain swapchain.Chain, img Image) (Work, error) {
	pass := Pass{
		Framebuffer:   img.Index,
		ClearColor:    ClearColor,
		Viewport:      chain.Extent(),
		VertexCount:   l.mesh.Len(),
		InstanceCount: 1,
	}

	work, err := l.renderer.Execute(chain, img, pass, previous(s.InFlight))
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit frame")
	}

	// The previous work is joined into the new one.
	s.InFlight = Pending{Work: work}
	s.Frames++

	return work, nil
}

func (l *Loop) present(s *State, chain swapchain.Chain, img Image, work Work) error {
	err := l.renderer.Present(chain, img, work)
	switch {
	case err == nil:
	case errors.Is(err, ErrSuboptimal):
		s.NeedsRecreate = true
	case errors.Is(err, ErrOutOfDate):
		s.NeedsRecreate = true
		s.InFlight = reset(s.InFlight)
	case errors.Is(err, ErrDeviceLost):
		return errors.Wrap(err, "failed to present frame")
	default:
		logging.Logger().Error("failed to present frame", "err", err)
		s.InFlight = reset(s.InFlight)
	}

	return nil
}

func (l *Loop) shutdown() error {
	l.state.InFlight = reset(l.state.InFlight)

	if err := l.renderer.WaitIdle(); err != nil {
		return errors.Wrap(err, "waiting for device idle")
	}
	return nil
}
