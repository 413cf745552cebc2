package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/gomega"
)

func TestLoggerDefaultSilent(t *testing.T) {
	g := NewWithT(t)

	l := Logger()
	g.Expect(l).NotTo(BeNil())
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		g.Expect(l.Enabled(context.Background(), level)).To(BeFalse())
	}
}

func TestSetLogger(t *testing.T) {
	g := NewWithT(t)
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	Logger().Info("swapchain recreated", "width", 400)
	g.Expect(buf.String()).To(ContainSubstring("swapchain recreated"))
	g.Expect(buf.String()).To(ContainSubstring("width=400"))
}

func TestSetLoggerNil(t *testing.T) {
	g := NewWithT(t)
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(nil)
	g.Expect(Logger().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
}
