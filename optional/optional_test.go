package optional

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestOptionalEmpty(t *testing.T) {
	g := NewWithT(t)

	var o Optional[uint32]
	g.Expect(o.HasValue()).To(BeFalse())
	g.Expect(o.Get()).To(BeZero())
}

func TestOfZeroValue(t *testing.T) {
	g := NewWithT(t)

	o := Of(uint32(0))
	g.Expect(o.HasValue()).To(BeTrue())
	g.Expect(o.Get()).To(Equal(uint32(0)))
}

func TestOf(t *testing.T) {
	g := NewWithT(t)

	o := Of("queue")
	g.Expect(o.HasValue()).To(BeTrue())
	g.Expect(o.Get()).To(Equal("queue"))
}
