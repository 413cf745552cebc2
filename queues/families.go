package queues

import (
	"vulkan-triangle/optional"
)

// Family describes what a single Vulkan queue family of a physical device can
// do for this program.
type Family struct {

	// Graphics is true when the family supports graphics commands.
	Graphics bool

	// Present is true when the family can present to the window surface.
	Present bool
}

// Usable returns true if the family can both draw and present.
func (f Family) Usable() bool {
	return f.Graphics && f.Present
}

// FindGraphicsPresent returns the index of the first family which supports
// graphics and presenting to the drawing surface. The result is empty when no
// family does both.
func FindGraphicsPresent(families []Family) optional.Optional[uint32] {
	for i, family := range families {
		if family.Usable() {
			return optional.Of(uint32(i))
		}
	}
	return optional.Optional[uint32]{}
}
