package graphics

import (
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/frame"

	. "github.com/onsi/gomega"
)

type fakeSyncs struct {
	done        map[*frameSync]bool
	waits       []*frameSync
	resets      []*frameSync
	commandsErr error
}

func newFakeSyncs() *fakeSyncs {
	return &fakeSyncs{done: map[*frameSync]bool{}}
}

func (f *fakeSyncs) signalled(sync *frameSync) bool { return f.done[sync] }

func (f *fakeSyncs) wait(sync *frameSync) error {
	f.waits = append(f.waits, sync)
	f.done[sync] = true
	return nil
}

func (f *fakeSyncs) reset(sync *frameSync) {
	f.resets = append(f.resets, sync)
	f.done[sync] = false
}

func (f *fakeSyncs) resetCommands(*frameSync) error { return f.commandsErr }

func newTestRenderer() (*Renderer, *fakeSyncs) {
	syncs := newFakeSyncs()
	return &Renderer{syncs: syncs}, syncs
}

func TestWorkFinishedFollowsFence(t *testing.T) {
	g := NewWithT(t)
	r, fences := newTestRenderer()

	w := &work{renderer: r, sync: &frameSync{}}
	g.Expect(w.Finished()).To(BeFalse())

	fences.done[w.sync] = true
	g.Expect(w.Finished()).To(BeTrue())
	g.Expect(r.free).To(BeEmpty())
}

func TestWorkWaitsForPrevious(t *testing.T) {
	g := NewWithT(t)
	r, fences := newTestRenderer()

	prev := &work{renderer: r, sync: &frameSync{}}
	w := &work{renderer: r, sync: &frameSync{}, prev: prev}

	fences.done[w.sync] = true
	g.Expect(w.Finished()).To(BeFalse())
	g.Expect(prev.released).To(BeFalse())

	fences.done[prev.sync] = true
	g.Expect(w.Finished()).To(BeTrue())
	g.Expect(prev.released).To(BeTrue())
	g.Expect(w.prev).To(BeNil())
	g.Expect(r.free).To(HaveLen(1))
	g.Expect(r.free[0]).To(BeIdenticalTo(prev.sync))
}

func TestWorkReleaseReturnsSyncSets(t *testing.T) {
	g := NewWithT(t)
	r, fences := newTestRenderer()

	prev := &work{renderer: r, sync: &frameSync{}}
	w := &work{renderer: r, sync: &frameSync{}, prev: prev}

	w.Release()
	g.Expect(fences.waits).To(HaveLen(2))
	g.Expect(fences.waits[0]).To(BeIdenticalTo(w.sync))
	g.Expect(fences.waits[1]).To(BeIdenticalTo(prev.sync))
	g.Expect(fences.resets).To(HaveLen(2))
	g.Expect(r.free).To(HaveLen(2))
	g.Expect(r.free[0]).To(BeIdenticalTo(prev.sync))
	g.Expect(r.free[1]).To(BeIdenticalTo(w.sync))
	g.Expect(w.Finished()).To(BeTrue())

	w.Release()
	prev.Release()
	g.Expect(fences.waits).To(HaveLen(2))
	g.Expect(r.free).To(HaveLen(2))
}

func TestTakeReusesReleasedSyncSet(t *testing.T) {
	g := NewWithT(t)
	r, _ := newTestRenderer()

	w := &work{renderer: r, sync: &frameSync{}}
	w.Release()

	sync, err := r.take()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sync).To(BeIdenticalTo(w.sync))
	g.Expect(r.free).To(BeEmpty())
}

func TestExecuteRejectsImageWithoutSemaphore(t *testing.T) {
	g := NewWithT(t)
	r, _ := newTestRenderer()

	chain := &Chain{
		framebuffers:   make([]vk.Framebuffer, 2),
		renderFinished: make([]vk.Semaphore, 1),
	}
	img := frame.Image{Index: 1, Ready: &frameSync{}}

	_, err := r.Execute(chain, img, frame.Pass{Framebuffer: 0}, nil)
	g.Expect(err).To(MatchError(ContainSubstring("image 1 out of range")))
}

func TestExecuteFailsWhenCommandBufferResetFails(t *testing.T) {
	g := NewWithT(t)
	r, syncs := newTestRenderer()
	syncs.commandsErr = errors.Wrap(vk.Error(vk.ErrorOutOfDeviceMemory), "cannot reset command buffer")

	chain := &Chain{
		framebuffers:   make([]vk.Framebuffer, 2),
		renderFinished: make([]vk.Semaphore, 2),
	}
	img := frame.Image{Index: 1, Ready: &frameSync{}}

	w, err := r.Execute(chain, img, frame.Pass{Framebuffer: 1}, nil)
	g.Expect(err).To(MatchError(ContainSubstring("cannot reset command buffer")))
	g.Expect(w).To(BeNil())
}

func TestPresentChecksWorkAndImage(t *testing.T) {
	g := NewWithT(t)
	r, _ := newTestRenderer()

	chain := &Chain{renderFinished: make([]vk.Semaphore, 2)}

	err := r.Present(chain, frame.Image{Index: 0}, nil)
	g.Expect(err).To(MatchError(ContainSubstring("cannot present after work")))

	w := &work{renderer: r, sync: &frameSync{}}
	err = r.Present(chain, frame.Image{Index: 2}, w)
	g.Expect(err).To(MatchError(ContainSubstring("image 2 out of range")))
}
