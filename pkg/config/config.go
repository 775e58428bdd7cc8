package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Window       WindowConfig        `yaml:"window"`
	Scene        SceneConfig         `yaml:"scene"`
	Movement     MovementConfig      `yaml:"movement"`
	Lighting     LightingConfig      `yaml:"lighting"`
	Keys         map[string][]string `yaml:"keys"`         // action -> key names
	Interactions map[string]string   `yaml:"interactions"` // model file name -> pick action
	Audio        AudioConfig         `yaml:"audio"`
	Log          LogConfig           `yaml:"log"`
}

// WindowConfig contains window and frame pacing settings
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	VSync     bool   `yaml:"vsync"`
	FrameRate int    `yaml:"framerate"`
}

// SceneConfig contains the scene data file and the built-in resources
type SceneConfig struct {
	DataFile    string `yaml:"data_file"`
	ResourceDir string `yaml:"resource_dir"` // base of every relative path
	ShaderDir   string `yaml:"shader_dir"`   // overrides the built-in shaders when set

	SkyboxPrefix  string `yaml:"skybox_prefix"`
	FogTexture    string `yaml:"fog_texture"`
	UFOTexture    string `yaml:"ufo_texture"`
	FireTexture   string `yaml:"fire_texture"`
	BannerTexture string `yaml:"banner_texture"`

	// An empty creature model disables the animated creature
	CreatureModel    string `yaml:"creature_model"`
	CreatureDiffuse  string `yaml:"creature_diffuse"`
	CreatureSpecular string `yaml:"creature_specular"`

	Message        string `yaml:"message"`
	MaxTextureSize int    `yaml:"max_texture_size"`
}

// BoundsConfig is the walkable area on the X/Z plane
type BoundsConfig struct {
	MinX float32 `yaml:"min_x"`
	MaxX float32 `yaml:"max_x"`
	MinZ float32 `yaml:"min_z"`
	MaxZ float32 `yaml:"max_z"`
}

// MovementConfig contains first-person movement settings
type MovementConfig struct {
	Speed              float32      `yaml:"speed"` // world units per tick
	TickMillis         int          `yaml:"tick_ms"`
	MouseSensitivity   float32      `yaml:"mouse_sensitivity"`
	Bounds             BoundsConfig `yaml:"bounds"`
	CampfireHalfExtent float32      `yaml:"campfire_half_extent"`
}

// LightingConfig contains light animation settings
type LightingConfig struct {
	FlashlightStep  float32 `yaml:"flashlight_step"`
	FlashlightMax   float32 `yaml:"flashlight_max"`
	DayPeriodMillis float64 `yaml:"day_period_ms"`
	Fog             bool    `yaml:"fog"`
}

// AudioConfig contains audio-related configuration
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultKeys returns the default key bindings
func DefaultKeys() map[string][]string {
	return map[string][]string{
		"forward":       {"W", "Up"},
		"back":          {"S", "Down"},
		"left":          {"A", "Left"},
		"right":         {"D", "Right"},
		"quit":          {"Escape"},
		"cursor_lock":   {"F"},
		"reload":        {"R"},
		"fog":           {"G"},
		"flashlight":    {"L"},
		"camera_chord":  {"C"},
		"polygon_chord": {"M"},
		"select_1":      {"1"},
		"select_2":      {"2"},
		"select_3":      {"3"},
		"select_4":      {"4"},
	}
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     512,
			Height:    512,
			Title:     "Farm",
			VSync:     true,
			FrameRate: 60,
		},
		Scene: SceneConfig{
			DataFile:         "ModelsData.txt",
			ResourceDir:      ".",
			SkyboxPrefix:     "Resources/Textures/Skybox/skybox",
			FogTexture:       "Resources/Textures/fog.png",
			UFOTexture:       "Resources/Textures/ufo_light_diffuse.png",
			FireTexture:      "Resources/Textures/fire_animation_diffuse.png",
			BannerTexture:    "Resources/Textures/cow_diffuse.png",
			CreatureModel:    "Resources/Models/duck.obj",
			CreatureDiffuse:  "Resources/Textures/duck_diffuse.png",
			CreatureSpecular: "Resources/Textures/no_specular.png",
			Message:          "Hello there",
			MaxTextureSize:   2048,
		},
		Movement: MovementConfig{
			Speed:            0.3,
			TickMillis:       33,
			MouseSensitivity: 0.1,
			Bounds: BoundsConfig{
				MinX: -10.25,
				MaxX: 4.75,
				MinZ: -13.5,
				MaxZ: 5.5,
			},
			CampfireHalfExtent: 1.0,
		},
		Lighting: LightingConfig{
			FlashlightStep:  1.0,
			FlashlightMax:   10.0,
			DayPeriodMillis: 10000,
		},
		Keys: DefaultKeys(),
		Interactions: map[string]string{
			"tractor.obj": "fog",
			"trough.obj":  "creature",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.6,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file. The defaults are returned
// alongside any error so that the caller can keep running on them.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	// Key bindings replace the defaults per action rather than wholesale
	keys := config.Keys
	config.Keys = nil
	if err := yaml.Unmarshal(data, config); err != nil {
		config.Keys = keys
		return config, fmt.Errorf("error parsing config: %w", err)
	}
	for action, names := range config.Keys {
		keys[action] = names
	}
	config.Keys = keys

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks values that would break the viewer
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Movement.TickMillis <= 0 {
		errs = append(errs, fmt.Errorf("tick_ms %d must be positive", c.Movement.TickMillis))
	}
	if c.Movement.Speed < 0 {
		errs = append(errs, fmt.Errorf("movement speed %v must not be negative", c.Movement.Speed))
	}
	b := c.Movement.Bounds
	if b.MinX >= b.MaxX || b.MinZ >= b.MaxZ {
		errs = append(errs, fmt.Errorf("walk bounds x[%v,%v] z[%v,%v] are empty", b.MinX, b.MaxX, b.MinZ, b.MaxZ))
	}
	if c.Scene.DataFile == "" {
		errs = append(errs, errors.New("scene data_file is required"))
	}
	if c.Lighting.DayPeriodMillis <= 0 {
		errs = append(errs, fmt.Errorf("day_period_ms %v must be positive", c.Lighting.DayPeriodMillis))
	}

	return errors.Join(errs...)
}

// Resolve turns a resource path into a file system path under ResourceDir
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Scene.ResourceDir == "" {
		return path
	}
	return filepath.Join(c.Scene.ResourceDir, path)
}
