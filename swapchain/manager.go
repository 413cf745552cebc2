// Package swapchain keeps track of the chain of presentable images and the
// framebuffers built on top of them.
package swapchain

import (
	"fmt"

	"github.com/pkg/errors"

	"vulkan-triangle/logging"
)

// ErrUnsupportedDimensions is returned by a Factory when the surface cannot
// hold images of the requested size at the moment. It is not fatal: the
// current chain stays in use and recreation is retried later.
var ErrUnsupportedDimensions = errors.New("unsupported swapchain dimensions")

// Extent is a size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// Chain is one generation of presentable images together with a framebuffer
// for each of them.
type Chain interface {
	Extent() Extent
	ImageCount() int
	FramebufferCount() int
	Destroy()
}

// Factory builds chains. When old is not nil the new chain replaces it. The
// factory must not destroy old.
type Factory interface {
	Create(extent Extent, old Chain) (Chain, error)
}

// Manager owns the current chain and replaces it on request.
type Manager struct {
	factory Factory
	current Chain

	// deferred is set while recreation keeps failing with
	// ErrUnsupportedDimensions.
	deferred bool
}

// New creates the first chain with the given extent. Any error is fatal for
// the program, including ErrUnsupportedDimensions.
func New(factory Factory, extent Extent) (*Manager, error) {
	chain, err := create(factory, extent, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating swapchain")
	}

	logging.Logger().Debug("swapchain created",
		"extent", chain.Extent(),
		"images", chain.ImageCount(),
	)

	return &Manager{
		factory: factory,
		current: chain,
	}, nil
}

// Current returns the chain in use.
func (m *Manager) Current() Chain {
	return m.current
}

// Recreate replaces the current chain with one of the given extent. It
// returns false without an error when the surface does not support the
// extent right now; the current chain is left as it was in that case.
func (m *Manager) Recreate(extent Extent) (bool, error) {
	chain, err := create(m.factory, extent, m.current)
	if errors.Is(err, ErrUnsupportedDimensions) {
		if !m.deferred {
			logging.Logger().Warn("skipping swapchain recreation", "extent", extent)
		} else {
			logging.Logger().Debug("skipping swapchain recreation", "extent", extent)
		}
		m.deferred = true
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "recreating swapchain with extent %s", extent)
	}

	m.current.Destroy()
	m.current = chain
	m.deferred = false

	logging.Logger().Info("swapchain recreated",
		"extent", chain.Extent(),
		"images", chain.ImageCount(),
	)
	return true, nil
}

// Close destroys the current chain.
func (m *Manager) Close() {
	if m.current == nil {
		return
	}
	m.current.Destroy()
	m.current = nil
}

func create(factory Factory, extent Extent, old Chain) (Chain, error) {
	chain, err := factory.Create(extent, old)
	if err != nil {
		return nil, err
	}

	if chain.FramebufferCount() != chain.ImageCount() {
		images, framebuffers := chain.ImageCount(), chain.FramebufferCount()
		chain.Destroy()
		return nil, errors.Errorf(
			"swapchain has %d images but %d framebuffers",
			images, framebuffers,
		)
	}

	return chain, nil
}
