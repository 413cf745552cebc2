package queues

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestFindGraphicsPresent(t *testing.T) {
	tests := []struct {
		name     string
		families []Family
		want     uint32
		found    bool
	}{
		{name: "none", families: nil},
		{
			name:     "graphics without present",
			families: []Family{{Graphics: true}, {Present: true}},
		},
		{
			name:     "first usable wins",
			families: []Family{{Present: true}, {Graphics: true, Present: true}, {Graphics: true, Present: true}},
			want:     1,
			found:    true,
		},
		{
			name:     "index zero",
			families: []Family{{Graphics: true, Present: true}},
			want:     0,
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			index := FindGraphicsPresent(tt.families)
			g.Expect(index.HasValue()).To(Equal(tt.found))
			if tt.found {
				g.Expect(index.Get()).To(Equal(tt.want))
			}
		})
	}
}
