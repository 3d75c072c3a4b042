package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"tv-frame/pkg/avplayer"
	"tv-frame/pkg/channels"
	"tv-frame/pkg/config"
	"tv-frame/pkg/device"
	"tv-frame/pkg/mpeg"
	"tv-frame/screens/root"
)

const (
	targetFPS      = 60
	fallbackWidth  = 1280
	fallbackHeight = 720
)

func main() {
	// SDL must stay on the main thread
	runtime.LockOSThread()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()
	setupMemoryManagement()

	if err := initializeSDL2(); err != nil {
		log.Fatalf("Failed to initialize SDL2: %v", err)
	}
	defer func() {
		log.Println("Shutting down SDL2...")
		sdl.Quit()
	}()

	screenWidth, screenHeight := getDisplayDimensions()
	log.Printf("Starting %s | Resolution: %dx%d | Adapter: %s", cfg.WindowTitle, screenWidth, screenHeight, cfg.Adapter)

	window, err := createWindow(cfg, screenWidth, screenHeight)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := createRenderer(window)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Destroy()

	dvr := device.AdapterEndpoints(cfg.Adapter).DVR
	newEngine := func() avplayer.Engine {
		return mpeg.NewEngine(mpeg.WithResolver(channels.Resolver(dvr)))
	}

	screen := root.NewRootScreen(window, renderer, cfg, newEngine)
	defer screen.Close()

	runLoop(screen)

	log.Printf("%s shutting down...", cfg.WindowTitle)
}

// setupMemoryManagement keeps the heap small on low-memory receivers
func setupMemoryManagement() {
	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(50)
	}
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(256 << 20)
	}
}

// driverHints are applied before SDL is initialized with a given video driver
var driverHints = map[string]map[string]string{
	"kmsdrm": {
		"SDL_KMSDRM_REQUIRE_DRM_MASTER": "1",
		sdl.HINT_RENDER_DRIVER:          "opengles2",
	},
	"cocoa":   {sdl.HINT_RENDER_DRIVER: "opengl"},
	"wayland": {"SDL_VIDEO_WAYLAND_WMCLASS": "tv-frame"},
	"fbcon":   {"SDL_FBDEV": "/dev/fb0"},
}

// videoDrivers lists the drivers to try, most capable first. Set-top boxes
// usually run without a display server, so kmsdrm leads on Linux.
func videoDrivers() []string {
	if env := os.Getenv("SDL_VIDEODRIVER"); env != "" {
		return []string{env, "kmsdrm", "x11", "dummy"}
	}
	if runtime.GOOS == "darwin" {
		return []string{"cocoa", "dummy"}
	}
	return []string{"kmsdrm", "wayland", "x11", "fbcon", "dummy"}
}

// initializeSDL2 brings up SDL with the first video driver that works
func initializeSDL2() error {
	var errs []error
	for _, driver := range videoDrivers() {
		if err := initWithDriver(driver); err != nil {
			log.Printf("initializeSDL2: %s driver unavailable: %v", driver, err)
			errs = append(errs, err)
			continue
		}
		log.Printf("initializeSDL2: using %s driver", driver)
		return nil
	}
	return fmt.Errorf("no SDL2 video driver usable: %w", errors.Join(errs...))
}

func initWithDriver(driver string) error {
	sdl.Quit()

	sdl.SetHint(sdl.HINT_VIDEODRIVER, driver)
	for name, value := range driverHints[driver] {
		sdl.SetHint(name, value)
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "1")
	// keep playing when focus moves to another output
	sdl.SetHint(sdl.HINT_VIDEO_MINIMIZE_ON_FOCUS_LOSS, "0")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("%s: %w", driver, err)
	}
	if _, err := sdl.GetCurrentVideoDriver(); err != nil {
		sdl.Quit()
		return fmt.Errorf("%s: %w", driver, err)
	}
	return nil
}

// getDisplayDimensions returns the screen dimensions or fallback values
func getDisplayDimensions() (int32, int32) {
	displayMode, err := sdl.GetCurrentDisplayMode(0)
	if err != nil {
		log.Printf("Warning: Failed to get display mode, using fallback: %v", err)
		return fallbackWidth, fallbackHeight
	}
	return displayMode.W, displayMode.H
}

// createWindow creates a fullscreen window, or a resizable one when windowed
func createWindow(cfg config.Config, width, height int32) (*sdl.Window, error) {
	var flags uint32 = sdl.WINDOW_SHOWN | sdl.WINDOW_ALLOW_HIGHDPI
	x, y := int32(0), int32(0)

	if cfg.Windowed {
		flags |= sdl.WINDOW_RESIZABLE
		width, height = width*2/3, height*2/3
		x, y = sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED
	} else {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	return sdl.CreateWindow(cfg.WindowTitle, x, y, width, height, flags)
}

// createRenderer prefers an accelerated renderer with vsync and falls back to
// software rendering
func createRenderer(window *sdl.Window) (*sdl.Renderer, error) {
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		log.Printf("Hardware acceleration failed, trying software: %v", err)
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			return nil, err
		}
	}

	renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	return renderer, nil
}

// runLoop polls events, updates and draws until the user quits
func runLoop(screen *root.RootScreen) {
	running := true
	frameTime := time.Second / targetFPS
	lastTime := time.Now()

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.WindowEvent:
				screen.HandleWindowEvent(e)
			}
		}
		if !running {
			break
		}

		if err := screen.Update(); err != nil {
			if !errors.Is(err, root.ErrQuit) {
				log.Printf("Update error: %v", err)
			}
			break
		}

		if err := screen.Draw(); err != nil {
			log.Printf("Draw error: %v", err)
			break
		}

		elapsed := time.Since(lastTime)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
		lastTime = time.Now()
	}
}
