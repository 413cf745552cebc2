package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkg/errors"

	"vulkan-triangle/config"
	"vulkan-triangle/device"
	"vulkan-triangle/frame"
	"vulkan-triangle/geometry"
	"vulkan-triangle/graphics"
	"vulkan-triangle/logging"
	"vulkan-triangle/swapchain"
	"vulkan-triangle/window"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called
	// from the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(2)
	}

	logging.SetLogger(newLogger(os.Stderr, cfg.Debug))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &TriangleApp{
		cfg:    cfg,
		stdout: os.Stdout,
	}
	if err := app.Run(ctx); err != nil {
		logging.Logger().Error("exiting", "err", err)
		stop()
		os.Exit(1)
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// TriangleApp draws a single triangle until its window is closed.
type TriangleApp struct {
	cfg    config.Config
	stdout io.Writer

	window *window.Window

	instance *graphics.Instance
	surface  *graphics.Surface
	device   *graphics.Device

	renderPass *graphics.RenderPass
	pipeline   *graphics.Pipeline
	vertices   *graphics.VertexBuffer
	renderer   *graphics.Renderer
	chains     *swapchain.Manager
}

// Run runs the program until the window is closed or ctx is done.
func (a *TriangleApp) Run(ctx context.Context) error {
	if err := a.initWindow(); err != nil {
		return errors.Wrap(err, "initWindow")
	}
	defer a.cleanWindow()

	err := a.initVulkan()
	defer a.cleanVulkan()
	if err != nil {
		return errors.Wrap(err, "initVulkan")
	}

	if err := a.mainLoop(ctx); err != nil {
		return errors.Wrap(err, "mainLoop")
	}

	return nil
}

func (a *TriangleApp) initWindow() error {
	win, err := window.New(a.cfg.Width, a.cfg.Height, a.cfg.Title)
	if err != nil {
		return err
	}

	a.window = win
	return nil
}

func (a *TriangleApp) cleanWindow() {
	a.window.Destroy()
}

func (a *TriangleApp) initVulkan() error {
	if err := graphics.Init(); err != nil {
		return err
	}

	if err := a.createInstance(); err != nil {
		return errors.Wrap(err, "createInstance")
	}

	surface, err := graphics.NewSurface(a.instance, a.window.GLFW())
	if err != nil {
		return errors.Wrap(err, "createSurface")
	}
	a.surface = surface

	if err := a.createDevice(); err != nil {
		return err
	}

	format, err := graphics.SurfaceFormat(a.device, a.surface)
	if err != nil {
		return errors.Wrap(err, "chooseSurfaceFormat")
	}

	renderPass, err := graphics.NewRenderPass(a.device, format.Format)
	if err != nil {
		return errors.Wrap(err, "createRenderPass")
	}
	a.renderPass = renderPass

	factory := graphics.NewSwapchainFactory(a.device, a.surface, format, a.renderPass)
	chains, err := swapchain.New(factory, a.window.FramebufferSize())
	if err != nil {
		return errors.Wrap(err, "createSwapChain")
	}
	a.chains = chains

	vertices, err := graphics.NewVertexBuffer(a.device, geometry.Triangle())
	if err != nil {
		return errors.Wrap(err, "createVertexBuffer")
	}
	a.vertices = vertices

	pipeline, err := graphics.NewPipeline(a.device, a.renderPass)
	if err != nil {
		return errors.Wrap(err, "createGraphicsPipeline")
	}
	a.pipeline = pipeline

	renderer, err := graphics.NewRenderer(a.device, a.renderPass, a.pipeline, a.vertices)
	if err != nil {
		return errors.Wrap(err, "createRenderer")
	}
	a.renderer = renderer

	return nil
}

func (a *TriangleApp) createInstance() error {
	var layers []string
	if a.cfg.Debug {
		layers = a.cfg.ValidationLayers
	}

	instance, err := graphics.NewInstance(
		a.cfg.Title,
		a.window.GLFW().GetRequiredInstanceExtensions(),
		layers,
	)
	if err != nil {
		return err
	}

	a.instance = instance
	return nil
}

// createDevice picks the physical device and creates the logical device and
// its queue on it.
func (a *TriangleApp) createDevice() error {
	physical, candidates, err := graphics.EnumerateDevices(a.instance, a.surface)
	if err != nil {
		return errors.Wrap(err, "pickPhysicalDevice")
	}

	selection, err := device.Select(candidates, graphics.DeviceExtensions)
	if err != nil {
		return errors.Wrap(err, "pickPhysicalDevice")
	}

	selected := candidates[selection.Index]
	fmt.Fprintf(a.stdout, "Using device: %s (type: %s)\n", selected.Name, selected.Type)

	var layers []string
	if a.cfg.Debug {
		layers = a.cfg.ValidationLayers
	}

	dev, err := graphics.NewDevice(
		physical[selection.Index],
		selection.Family,
		graphics.DeviceExtensions,
		layers,
	)
	if err != nil {
		return errors.Wrap(err, "createLogicalDevice")
	}

	a.device = dev
	return nil
}

func (a *TriangleApp) mainLoop(ctx context.Context) error {
	loop := frame.NewLoop(a.chains, a.window, a.renderer, a.vertices)
	return loop.Run(ctx, a.window)
}

// cleanVulkan destroys whatever initVulkan managed to create, in reverse
// order.
func (a *TriangleApp) cleanVulkan() {
	if a.device != nil {
		if err := a.device.WaitIdle(); err != nil {
			logging.Logger().Error("waiting for device", "err", err)
		}
	}

	if a.renderer != nil {
		a.renderer.Destroy()
	}
	if a.pipeline != nil {
		a.pipeline.Destroy()
	}
	if a.vertices != nil {
		a.vertices.Destroy()
	}
	if a.chains != nil {
		a.chains.Close()
	}
	if a.renderPass != nil {
		a.renderPass.Destroy()
	}
	if a.device != nil {
		a.device.Destroy()
	}
	if a.surface != nil {
		a.surface.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
	}
}
