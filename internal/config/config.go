// Package config loads the flaphand configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/flaphand/internal/game"
)

// ErrInvalid is returned when a non-game setting is out of range.
var ErrInvalid = errors.New("invalid config")

// Landmark pairs the gesture classifier can compare.
const (
	PairThumbIndex  = "thumb-index"
	PairMiddleIndex = "middle-index"
)

// Config is the full application configuration.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Gesture  GestureConfig  `yaml:"gesture"`
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
	SSH      SSHConfig      `yaml:"ssh"`

	// Seed fixes the pipe height sequence. Zero picks a seed from the clock.
	Seed uint64 `yaml:"seed"`
}

// GameConfig mirrors game.Config with YAML names.
type GameConfig struct {
	ScreenWidth          float64       `yaml:"screen_width"`
	ScreenHeight         float64       `yaml:"screen_height"`
	BirdX                float64       `yaml:"bird_x"`
	BirdWidth            float64       `yaml:"bird_width"`
	BirdHeight           float64       `yaml:"bird_height"`
	Gravity              float64       `yaml:"gravity"`
	JumpVelocity         float64       `yaml:"jump_velocity"`
	PipeWidth            float64       `yaml:"pipe_width"`
	PipeGap              float64       `yaml:"pipe_gap"`
	MinPipeHeight        float64       `yaml:"min_pipe_height"`
	DistanceBetweenPipes float64       `yaml:"distance_between_pipes"`
	TicksBetweenSpawns   float64       `yaml:"ticks_between_spawns"`
	StageInterval        time.Duration `yaml:"stage_interval"`
	StageSpawnFactor     float64       `yaml:"stage_spawn_factor"`
	GameOverHold         time.Duration `yaml:"game_over_hold"`
	ExitAfterGameOver    bool          `yaml:"exit_after_game_over"`
	TargetFPS            int           `yaml:"target_fps"`
}

// CameraConfig selects and sizes the capture device.
type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// DetectorConfig controls the MediaPipe helper process.
type DetectorConfig struct {
	// Script overrides the mediapipe_service.py lookup.
	Script string `yaml:"script"`
	// Python overrides the interpreter lookup.
	Python                string        `yaml:"python"`
	MaxHands              int           `yaml:"max_hands"`
	MinConfidence         float64       `yaml:"min_confidence"`
	MinTrackingConfidence float64       `yaml:"min_tracking_confidence"`
	IdleTimeout           time.Duration `yaml:"idle_timeout"`
	// MotionThreshold is the percentage of changed pixels below which the previous
	// signal is reused without running detection. Zero disables the shortcut.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// GestureConfig controls how landmarks become a signal.
type GestureConfig struct {
	Pair     string  `yaml:"pair"`
	DeadZone float64 `yaml:"dead_zone"`
}

// StoreConfig locates the run history database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig enables the spectator HTTP server when Addr is set.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SSHConfig enables the terminal spectator when Addr is set.
type SSHConfig struct {
	Addr string `yaml:"addr"`
	// HostKeyPath is created on first use when missing.
	HostKeyPath string `yaml:"host_key_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	g := game.DefaultConfig()
	return Config{
		Game: GameConfig{
			ScreenWidth:          g.ScreenWidth,
			ScreenHeight:         g.ScreenHeight,
			BirdX:                g.BirdX,
			BirdWidth:            g.BirdWidth,
			BirdHeight:           g.BirdHeight,
			Gravity:              g.Gravity,
			JumpVelocity:         g.JumpVelocity,
			PipeWidth:            g.PipeWidth,
			PipeGap:              g.PipeGap,
			MinPipeHeight:        g.MinPipeHeight,
			DistanceBetweenPipes: g.DistanceBetweenPipes,
			TicksBetweenSpawns:   g.TicksBetweenSpawns,
			StageInterval:        g.StageInterval,
			StageSpawnFactor:     g.StageSpawnFactor,
			GameOverHold:         g.GameOverHold,
			ExitAfterGameOver:    g.ExitAfterGameOver,
			TargetFPS:            30,
		},
		Camera: CameraConfig{
			Device: 0,
			Width:  640,
			Height: 480,
			FPS:    30,
		},
		Detector: DetectorConfig{
			MaxHands:              1,
			MinConfidence:         0.5,
			MinTrackingConfidence: 0.5,
			IdleTimeout:           30 * time.Second,
			MotionThreshold:       0,
		},
		Gesture: GestureConfig{
			Pair:     PairThumbIndex,
			DeadZone: 0.02,
		},
		Store: StoreConfig{
			Path: DefaultStorePath(),
		},
		SSH: SSHConfig{
			HostKeyPath: defaultPath("ssh_host_key", "flaphand_host_key"),
		},
	}
}

// DefaultStorePath returns ~/.flaphand/flaphand.db, or a relative path when the
// home directory is unknown.
func DefaultStorePath() string {
	return defaultPath("flaphand.db", "flaphand.db")
}

func defaultPath(name, fallback string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return fallback
	}
	return filepath.Join(home, ".flaphand", name)
}

// Load reads the YAML file at path over the defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		if path != "" {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.GameConfig().Validate(); err != nil {
		return err
	}
	if c.Game.TargetFPS <= 0 {
		return fmt.Errorf("%w: target_fps must be positive, got %d", ErrInvalid, c.Game.TargetFPS)
	}
	if c.Camera.Device < 0 {
		return fmt.Errorf("%w: camera device must not be negative, got %d", ErrInvalid, c.Camera.Device)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("%w: camera size %dx%d", ErrInvalid, c.Camera.Width, c.Camera.Height)
	}
	if c.Detector.MaxHands <= 0 {
		return fmt.Errorf("%w: max_hands must be positive, got %d", ErrInvalid, c.Detector.MaxHands)
	}
	for name, v := range map[string]float64{
		"min_confidence":          c.Detector.MinConfidence,
		"min_tracking_confidence": c.Detector.MinTrackingConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrInvalid, name, v)
		}
	}
	if c.Detector.MotionThreshold < 0 {
		return fmt.Errorf("%w: motion_threshold must not be negative, got %v", ErrInvalid, c.Detector.MotionThreshold)
	}
	switch c.Gesture.Pair {
	case PairThumbIndex, PairMiddleIndex:
	default:
		return fmt.Errorf("%w: unknown gesture pair %q", ErrInvalid, c.Gesture.Pair)
	}
	if c.Gesture.DeadZone < 0 {
		return fmt.Errorf("%w: dead_zone must not be negative, got %v", ErrInvalid, c.Gesture.DeadZone)
	}
	return nil
}

// GameConfig converts the game section into the game package's type.
func (c Config) GameConfig() game.Config {
	g := c.Game
	return game.Config{
		ScreenWidth:          g.ScreenWidth,
		ScreenHeight:         g.ScreenHeight,
		BirdX:                g.BirdX,
		BirdWidth:            g.BirdWidth,
		BirdHeight:           g.BirdHeight,
		Gravity:              g.Gravity,
		JumpVelocity:         g.JumpVelocity,
		PipeWidth:            g.PipeWidth,
		PipeGap:              g.PipeGap,
		MinPipeHeight:        g.MinPipeHeight,
		DistanceBetweenPipes: g.DistanceBetweenPipes,
		TicksBetweenSpawns:   g.TicksBetweenSpawns,
		StageInterval:        g.StageInterval,
		StageSpawnFactor:     g.StageSpawnFactor,
		GameOverHold:         g.GameOverHold,
		ExitAfterGameOver:    g.ExitAfterGameOver,
	}
}
