package picker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultHintText = "Left click: Pick an object in scene \n\n" +
	"Middle click: Choose from nearby objects \n\n" +
	"Right click: Cancel"

// Config tunes the picker. Keys missing from a config file keep their defaults.
type Config struct {
	// GroupDistance is the pick distance under which candidates count as
	// nearby the best candidate.
	GroupDistance float32 `yaml:"group_distance"`
	// DepthDamping divides projected depth before distances are measured.
	DepthDamping float32 `yaml:"depth_damping"`

	HintText     string        `yaml:"hint_text"`
	HintDuration time.Duration `yaml:"hint_duration"`

	// LabelOffset lifts the candidate label above the pointer, in pixels.
	LabelOffset float32 `yaml:"label_offset"`
	// PointerRayDepth is how far along the pointer ray the guide line ends.
	PointerRayDepth float32 `yaml:"pointer_ray_depth"`
	// DashSize is the dash length of the guide line, in pixels.
	DashSize float32 `yaml:"dash_size"`
}

func DefaultConfig() Config {
	return Config{
		GroupDistance:   25,
		DepthDamping:    DefaultDepthDamping,
		HintText:        defaultHintText,
		HintDuration:    3 * time.Second,
		LabelOffset:     10,
		PointerRayDepth: 10,
		DashSize:        2,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read picker config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML on top of DefaultConfig. Unknown keys are errors.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse picker config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.GroupDistance < 0 {
		return fmt.Errorf("group_distance must not be negative, got %v", c.GroupDistance)
	}
	if c.DepthDamping <= 0 {
		return fmt.Errorf("depth_damping must be positive, got %v", c.DepthDamping)
	}
	return nil
}
