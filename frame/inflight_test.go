package frame

import (
	"testing"

	. "github.com/onsi/gomega"
)

type unknownInFlight struct{}

func (unknownInFlight) inFlight() {}

func TestCleanupKeepsUnfinishedWork(t *testing.T) {
	g := NewWithT(t)

	work := &fakeWork{}
	state := cleanup(Pending{Work: work})

	g.Expect(state).To(Equal(Pending{Work: work}))
	g.Expect(work.released).To(BeZero())
}

func TestCleanupReleasesFinishedWork(t *testing.T) {
	g := NewWithT(t)

	work := &fakeWork{finished: true}
	state := cleanup(Pending{Work: work})

	g.Expect(state).To(Equal(Idle{}))
	g.Expect(work.released).To(Equal(1))
	g.Expect(cleanup(Idle{})).To(Equal(Idle{}))
}

func TestResetReleasesPendingWork(t *testing.T) {
	g := NewWithT(t)

	prev := &fakeWork{}
	work := &fakeWork{prev: prev}

	g.Expect(reset(Pending{Work: work})).To(Equal(Idle{}))
	g.Expect(work.released).To(Equal(1))
	g.Expect(prev.released).To(Equal(1))
	g.Expect(reset(Idle{})).To(Equal(Idle{}))
}

func TestPrevious(t *testing.T) {
	g := NewWithT(t)

	work := &fakeWork{}
	g.Expect(previous(Idle{})).To(BeNil())
	g.Expect(previous(Pending{Work: work})).To(BeIdenticalTo(work))
}

func TestUnknownStatePanics(t *testing.T) {
	g := NewWithT(t)

	g.Expect(func() { cleanup(unknownInFlight{}) }).To(Panic())
	g.Expect(func() { reset(unknownInFlight{}) }).To(Panic())
	g.Expect(func() { previous(unknownInFlight{}) }).To(Panic())
}
