package shaders

import (
	"embed"

	"github.com/gogpu/naga"
	"github.com/pkg/errors"
)

// FS embeds the WGSL sources of the vertex and fragment shaders. They are
// compiled to SPIR-V when the pipeline is built.
//
//go:embed triangle.vert.wgsl
//go:embed triangle.frag.wgsl
var FS embed.FS

// Stage is one shader program of the pipeline.
type Stage struct {

	// File is the name of the WGSL source in FS.
	File string

	// Entry is the name of the entry point function.
	Entry string
}

var (
	// Vertex passes the 2D vertex position through.
	Vertex = Stage{File: "triangle.vert.wgsl", Entry: "vs_main"}

	// Fragment paints every covered pixel red.
	Fragment = Stage{File: "triangle.frag.wgsl", Entry: "fs_main"}
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// headerWords is the size of the SPIR-V module header.
const headerWords = 5

// MaxVersion is the newest SPIR-V version Compile hands out, encoded the way
// the second word of a module holds it. naga emits SPIR-V 1.3, which needs
// at least Vulkan 1.1.
const MaxVersion = 0x00010300

// VersionWord encodes a SPIR-V major.minor version as it appears in a module
// header.
func VersionWord(major, minor uint32) uint32 {
	return major<<16 | minor<<8
}

// Compile compiles the WGSL source of stage to SPIR-V words.
func Compile(stage Stage) ([]uint32, error) {
	source, err := FS.ReadFile(stage.File)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", stage.File)
	}

	spirvBytes, err := naga.Compile(string(source))
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", stage.File)
	}

	if len(spirvBytes) < headerWords*4 || len(spirvBytes)%4 != 0 {
		return nil, errors.Errorf("%s: SPIR-V output of %d bytes is not a valid module",
			stage.File, len(spirvBytes))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	if code[0] != spirvMagic {
		return nil, errors.Errorf("%s: invalid SPIR-V magic 0x%08X", stage.File, code[0])
	}

	if code[1] > MaxVersion {
		return nil, errors.Errorf("%s: SPIR-V version word 0x%08X is newer than 0x%08X",
			stage.File, code[1], MaxVersion)
	}

	return code, nil
}

// EntryName returns the entry point of stage as a NUL terminated string, the
// way the Vulkan bindings expect it.
func (s Stage) EntryName() string {
	return s.Entry + "\x00"
}
