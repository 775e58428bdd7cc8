package engine

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"

	"farm/internal/math/noise"
	"farm/pkg/config"
)

const (
	sampleRate      = 44100
	framesPerBuffer = 1024
	numChannels     = 2
)

// AudioEngine plays the campfire crackle. The stream callback runs on a
// PortAudio thread and only reads the published gain and flicker.
type AudioEngine struct {
	config    config.AudioConfig
	crackle   *noise.Crackle
	stream    *portaudio.Stream
	gain      atomic.Uint64 // float64 bits
	flicker   atomic.Uint64 // float64 bits
	isRunning bool
}

// NewAudioEngine creates a new audio engine and starts its output stream
func NewAudioEngine(cfg config.AudioConfig) (*AudioEngine, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	engine := &AudioEngine{
		config:  cfg,
		crackle: noise.NewCrackle(time.Now().UnixNano(), sampleRate),
	}
	engine.flicker.Store(math.Float64bits(1))

	if err := engine.initAudio(); err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}

	return engine, nil
}

// initAudio initializes the audio output
func (ae *AudioEngine) initAudio() error {
	var err error

	ae.stream, err = portaudio.OpenDefaultStream(0, numChannels, sampleRate, framesPerBuffer, ae.audioCallback)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := ae.stream.Start(); err != nil {
		ae.stream.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	ae.isRunning = true
	return nil
}

// Update publishes the crackle gain and the fire flicker for the callback
func (ae *AudioEngine) Update(gain, flicker float64) {
	ae.gain.Store(math.Float64bits(gain))
	ae.flicker.Store(math.Float64bits(flicker))
}

// audioCallback is called by PortAudio to fill the audio buffer
func (ae *AudioEngine) audioCallback(out []float32) {
	gain := math.Float64frombits(ae.gain.Load())
	flicker := math.Float64frombits(ae.flicker.Load())
	ae.crackle.Fill(out, numChannels, gain, flicker)
}

// Shutdown stops the stream and releases PortAudio
func (ae *AudioEngine) Shutdown() {
	if !ae.isRunning {
		return
	}
	ae.isRunning = false
	ae.stream.Stop()
	ae.stream.Close()
	portaudio.Terminate()
}
