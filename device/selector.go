// Package device picks the physical device the program renders with.
package device

import (
	"github.com/pkg/errors"

	"vulkan-triangle/queues"
)

// ErrNoSuitableDevice is returned by Select when no candidate can render to
// the window surface.
var ErrNoSuitableDevice = errors.New("failed to find a suitable physical device")

// Type is the kind of a physical device.
type Type int

// Known device types. Their order is the order of preference.
const (
	DiscreteGPU Type = iota
	IntegratedGPU
	VirtualGPU
	CPU
	Other
)

// Rank returns the preference of the device type. Lower is better.
func (t Type) Rank() int {
	switch t {
	case DiscreteGPU, IntegratedGPU, VirtualGPU, CPU:
		return int(t)
	default:
		return int(Other)
	}
}

func (t Type) String() string {
	switch t {
	case DiscreteGPU:
		return "DiscreteGpu"
	case IntegratedGPU:
		return "IntegratedGpu"
	case VirtualGPU:
		return "VirtualGpu"
	case CPU:
		return "Cpu"
	default:
		return "Other"
	}
}

// Candidate describes one enumerated physical device.
type Candidate struct {
	Name string
	Type Type

	// Extensions lists the names of the device extensions it supports.
	Extensions []string

	// Families holds the capabilities of each queue family, indexed by the
	// family index.
	Families []queues.Family

	// SurfaceFormats and PresentModes are the number of formats and present
	// modes the device offers for the window surface.
	SurfaceFormats int
	PresentModes   int
}

// Selection is the result of Select.
type Selection struct {

	// Index is the position of the chosen candidate in the enumerated list.
	Index int

	// Family is the queue family used for both drawing and presenting.
	Family uint32
}

// Select returns the best candidate able to render with the required device
// extensions. Discrete GPUs are preferred over integrated, virtual and
// software devices in that order. Between devices of the same type the one
// enumerated first wins.
func Select(candidates []Candidate, requiredExtensions []string) (Selection, error) {
	var (
		best     Selection
		bestRank int
		found    bool
	)

	for i, candidate := range candidates {
		family, ok := usable(candidate, requiredExtensions)
		if !ok {
			continue
		}

		rank := candidate.Type.Rank()
		if found && rank >= bestRank {
			continue
		}

		best = Selection{Index: i, Family: family}
		bestRank = rank
		found = true
	}

	if !found {
		return Selection{}, ErrNoSuitableDevice
	}
	return best, nil
}

// usable checks the candidate against the requirements of the program and
// returns the queue family to use with it.
func usable(candidate Candidate, requiredExtensions []string) (uint32, bool) {
	if !supportsExtensions(candidate.Extensions, requiredExtensions) {
		return 0, false
	}

	if candidate.SurfaceFormats == 0 || candidate.PresentModes == 0 {
		return 0, false
	}

	family := queues.FindGraphicsPresent(candidate.Families)
	if !family.HasValue() {
		return 0, false
	}

	return family.Get(), true
}

func supportsExtensions(available, required []string) bool {
	missing := make(map[string]struct{}, len(required))
	for _, name := range required {
		missing[name] = struct{}{}
	}

	for _, name := range available {
		delete(missing, name)
	}

	return len(missing) == 0
}
