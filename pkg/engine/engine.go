package engine

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"farm/internal/logger"
	"farm/pkg/config"
	"farm/pkg/scene"
)

// maxTicksPerFrame bounds the catch-up after a long stall
const maxTicksPerFrame = 10

// Engine owns the window and runs the frame loop
type Engine struct {
	window       *glfw.Window
	config       *config.Config
	logger       *logger.Logger
	controller   *scene.Controller
	renderer     Renderer
	input        *InputHandler
	audioEngine  *AudioEngine
	isRunning    bool
	lastUpdate   time.Time
	frameRate    int
	tick         time.Duration
	accumulator  time.Duration
	cursorLocked bool
	pickPending  bool
}

// NewEngine creates the window, the GL context and loads the scene. A scene
// that fails to load is logged and the viewer starts empty.
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	bindings, err := BuildBindings(cfg.Keys)
	if err != nil {
		return nil, fmt.Errorf("invalid key bindings: %w", err)
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Set window hints
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.StencilBits, 8)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	fbWidth, fbHeight := window.GetFramebufferSize()
	renderer := NewOpenGLRenderer(fbWidth, fbHeight)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		renderer.UpdateResolution(width, height)
	})

	backend := NewGLBackend(log, cfg.Resolve(cfg.Scene.ShaderDir), cfg.Scene.MaxTextureSize)
	controller := scene.NewController(cfg, log, backend)
	if err := controller.Load(); err != nil {
		log.Warn("starting without a scene, press reload to try again")
	}

	engine := &Engine{
		window:     window,
		config:     cfg,
		logger:     log,
		controller: controller,
		renderer:   renderer,
		input:      NewInputHandler(window, bindings),
		frameRate:  cfg.Window.FrameRate,
		tick:       time.Duration(cfg.Movement.TickMillis) * time.Millisecond,
	}

	if cfg.Audio.Enabled {
		audioEngine, err := NewAudioEngine(cfg.Audio)
		if err != nil {
			log.Warnf("audio disabled: %v", err)
		} else {
			engine.audioEngine = audioEngine
		}
	}

	return engine, nil
}

// Run starts the main loop
func (e *Engine) Run() {
	e.isRunning = true
	e.lastUpdate = time.Now()

	for e.isRunning && !e.window.ShouldClose() {
		currentTime := time.Now()
		deltaTime := currentTime.Sub(e.lastUpdate)
		e.lastUpdate = currentTime

		glfw.PollEvents()
		e.processInput()

		// Movement runs on a fixed tick, animations on frame time
		e.accumulator += deltaTime
		if e.accumulator > maxTicksPerFrame*e.tick {
			e.accumulator = e.tick
		}
		for e.accumulator >= e.tick {
			e.controller.Tick()
			e.accumulator -= e.tick
		}
		e.update(deltaTime.Seconds())

		e.render()
		e.window.SwapBuffers()

		// Cap the frame rate
		if e.frameRate > 0 {
			frameTime := time.Since(currentTime)
			targetFrameTime := time.Second / time.Duration(e.frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}

	e.cleanup()
}

// processInput handles user input
func (e *Engine) processInput() {
	e.input.Update()
	e.input.Dispatch(e.controller)

	if e.controller.QuitRequested() {
		e.isRunning = false
	}

	if locked := e.controller.CursorLocked(); locked != e.cursorLocked {
		e.cursorLocked = locked
		if locked {
			e.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			e.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
		e.input.ResetMouse()
	}

	if e.input.IsMouseButtonPressed(glfw.MouseButtonLeft) {
		e.pickPending = true
	}
}

// update advances animations and feeds the audio engine
func (e *Engine) update(deltaTime float64) {
	e.controller.Advance(float32(deltaTime))

	if e.audioEngine != nil {
		state := e.controller.State()
		e.audioEngine.Update(state.CampfireGain(e.config.Audio.Volume), float64(state.Lights.Point.Intensity))
	}
}

// render renders the current frame and resolves a pending click against
// its stencil buffer before the buffers are swapped
func (e *Engine) render() {
	e.renderer.Render(e.controller.State())

	if !e.pickPending {
		return
	}
	e.pickPending = false

	x, y := e.pickPosition()
	if id := e.renderer.Pick(x, y); id != scene.PickNone {
		e.controller.Pick(id)
	}
}

// pickPosition converts the cursor to framebuffer pixels. With a locked
// cursor the click goes to the centre of the view.
func (e *Engine) pickPosition() (int, int) {
	winWidth, winHeight := e.window.GetSize()
	fbWidth, fbHeight := e.window.GetFramebufferSize()
	if winWidth == 0 || winHeight == 0 {
		return -1, -1
	}
	if e.cursorLocked {
		return fbWidth / 2, fbHeight / 2
	}
	pos := e.input.GetMousePosition()
	return int(pos[0] * float64(fbWidth) / float64(winWidth)), int(pos[1] * float64(fbHeight) / float64(winHeight))
}

// cleanup performs necessary cleanup before exiting
func (e *Engine) cleanup() {
	e.logger.Info("Shutting down viewer...")
	e.controller.Unload()
	e.renderer.Close()
	if e.audioEngine != nil {
		e.audioEngine.Shutdown()
	}
	glfw.Terminate()
}
