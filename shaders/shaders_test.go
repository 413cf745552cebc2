package shaders

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestCompile(t *testing.T) {
	for _, stage := range []Stage{Vertex, Fragment} {
		t.Run(stage.File, func(t *testing.T) {
			g := NewWithT(t)

			code, err := Compile(stage)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(len(code)).To(BeNumerically(">", 5))
			g.Expect(code[0]).To(Equal(uint32(spirvMagic)))
		})
	}
}

func TestCompileMissingFile(t *testing.T) {
	g := NewWithT(t)

	_, err := Compile(Stage{File: "missing.wgsl", Entry: "main"})
	g.Expect(err).To(MatchError(ContainSubstring("reading missing.wgsl")))
}

func TestSourcesDeclareEntryPoints(t *testing.T) {
	for _, stage := range []Stage{Vertex, Fragment} {
		g := NewWithT(t)

		source, err := FS.ReadFile(stage.File)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(string(source)).To(ContainSubstring("fn " + stage.Entry + "("))
	}
}

func TestEntryName(t *testing.T) {
	NewWithT(t).Expect(Vertex.EntryName()).To(Equal("vs_main\x00"))
}

func TestCompiledVersionIsSupported(t *testing.T) {
	for _, stage := range []Stage{Vertex, Fragment} {
		g := NewWithT(t)

		code, err := Compile(stage)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(code[1]).To(BeNumerically("<=", uint32(MaxVersion)), "stage %s", stage.File)
	}
}

func TestVersionWord(t *testing.T) {
	g := NewWithT(t)

	g.Expect(VersionWord(1, 0)).To(Equal(uint32(0x00010000)))
	g.Expect(VersionWord(1, 3)).To(Equal(uint32(MaxVersion)))
	g.Expect(VersionWord(1, 5)).To(Equal(uint32(0x00010500)))
}
