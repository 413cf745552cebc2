package graphics

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/shaders"

	. "github.com/onsi/gomega"
)

func TestAPIVersionAcceptsShaders(t *testing.T) {
	g := NewWithT(t)

	g.Expect(uint32(shaders.MaxVersion)).To(BeNumerically("<=", spirvVersion(apiVersion)))
}

func TestSPIRVVersion(t *testing.T) {
	tests := []struct {
		api  uint32
		want uint32
	}{
		{vk.MakeVersion(1, 0, 0), shaders.VersionWord(1, 0)},
		{vk.MakeVersion(1, 1, 0), shaders.VersionWord(1, 3)},
		{vk.MakeVersion(1, 2, 131), shaders.VersionWord(1, 5)},
		{vk.MakeVersion(1, 3, 0), shaders.VersionWord(1, 6)},
	}

	for _, test := range tests {
		g := NewWithT(t)
		g.Expect(spirvVersion(test.api)).To(Equal(test.want), "api 0x%08X", test.api)
	}
}

func TestVulkan10RejectsShaders(t *testing.T) {
	g := NewWithT(t)

	g.Expect(uint32(shaders.MaxVersion)).To(BeNumerically(">", spirvVersion(vk.MakeVersion(1, 0, 0))))
}
