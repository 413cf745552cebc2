// Package geometry holds the static triangle drawn by the program.
package geometry

import (
	"unsafe"

	"github.com/xlab/linmath"
)

// Vertex is a single point of the triangle in normalized device coordinates.
type Vertex struct {
	Position linmath.Vec2
}

// VertexSize is the stride of Vertex in a vertex buffer.
const VertexSize = uint32(unsafe.Sizeof(Vertex{}))

// PositionOffset is the byte offset of Vertex.Position within a vertex.
const PositionOffset = uint32(unsafe.Offsetof(Vertex{}.Position))

// PositionLocation is the shader input location of the position attribute.
const PositionLocation = 0

// Triangle returns the three vertices of the triangle. Every call returns a
// new slice so callers can never modify the shape.
func Triangle() []Vertex {
	return []Vertex{
		{Position: linmath.Vec2{0.5, 0.5}},
		{Position: linmath.Vec2{-0.5, 0.5}},
		{Position: linmath.Vec2{0.0, -0.5}},
	}
}
