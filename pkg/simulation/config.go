package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "squirrels.schema.json"

// schema is compiled once. Config files and runtime tuning share it.
var schema = jsonschema.MustCompileString(configSchemaURL, configSchema)

type Config struct {
	// Window (initial viewport, the window stays resizable)
	WindowWidth  float64 `json:"windowWidth"`
	WindowHeight float64 `json:"windowHeight"`
	WindowTitle  string  `json:"windowTitle"`
	ShowPanel    bool    `json:"showPanel"`

	// Population
	NumSquirrels int     `json:"numSquirrels"`
	MinSpeed     float64 `json:"minSpeed"` // initial speed range
	MaxSpeed     float64 `json:"maxSpeed"`
	Seed         uint64  `json:"seed"` // 0 picks a seed from the clock

	// Boids flocking parameters
	FlockingRange      float64 `json:"flockingRange"`
	SeparationDistance float64 `json:"separationDistance"`
	CenteringFactor    float64 `json:"centeringFactor"`
	AlignmentFactor    float64 `json:"alignmentFactor"`
	SeparationFactor   float64 `json:"separationFactor"`

	// Speed regulation band
	LowSpeed         float64 `json:"lowSpeed"`
	HighSpeed        float64 `json:"highSpeed"`
	RegulationFactor float64 `json:"regulationFactor"`

	TickRate int `json:"tickRate"` // fixed ticks per simulated second

	// Pipeline stages that can be switched off
	EnableCentering  bool `json:"enableCentering"`
	EnableAlignment  bool `json:"enableAlignment"`
	EnableSeparation bool `json:"enableSeparation"`
	EnableRegulation bool `json:"enableRegulation"`

	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"` // "console" or "json"

	StatsEvery    int    `json:"statsEvery"` // ticks between two telemetry samples
	TelemetryFile string `json:"telemetryFile"`
}

func DefaultConfig() *Config {
	return &Config{
		WindowWidth:        1280,
		WindowHeight:       720,
		WindowTitle:        "Squirrels",
		ShowPanel:          true,
		NumSquirrels:       120,
		MinSpeed:           flock.DefaultLowSpeed,
		MaxSpeed:           flock.DefaultHighSpeed,
		FlockingRange:      flock.DefaultFlockingRange,
		SeparationDistance: flock.DefaultSeparationDistance,
		CenteringFactor:    flock.DefaultCenteringFactor,
		AlignmentFactor:    flock.DefaultAlignmentFactor,
		SeparationFactor:   flock.DefaultSeparationFactor,
		LowSpeed:           flock.DefaultLowSpeed,
		HighSpeed:          flock.DefaultHighSpeed,
		RegulationFactor:   flock.DefaultRegulationFactor,
		TickRate:           flock.DefaultTickRate,
		EnableCentering:    true,
		EnableAlignment:    true,
		EnableSeparation:   true,
		EnableRegulation:   true,
		LogLevel:           "info",
		LogFormat:          "console",
		StatsEvery:         60,
	}
}

// LoadConfig reads a JSON, YAML or TOML file (picked by extension), validates
// it against the embedded schema and overlays it on DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Read Config File as a JSON document
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	doc, err := toJSON(filepath.Ext(configFile), b)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", configFile, err)
	}

	// 2. Validate
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	// 3. Unmarshal over the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateDocument(doc []byte) error {
	var v interface{}
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// validateSchema checks the whole config, as it would be written to a file,
// against the embedded schema.
func (c Config) validateSchema() error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return validateDocument(doc)
}

// toJSON normalizes YAML and TOML documents so a single schema covers them all.
func toJSON(ext string, b []byte) ([]byte, error) {
	var m map[string]interface{}
	switch strings.ToLower(ext) {
	case ".json", "":
		return b, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &m); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return json.Marshal(m)
}

// Validate checks the relations between fields that the schema cannot express.
func (c Config) Validate() error {
	var err error
	if c.MinSpeed > c.MaxSpeed {
		err = multierr.Append(err, fmt.Errorf("minSpeed %v is greater than maxSpeed %v", c.MinSpeed, c.MaxSpeed))
	}
	if c.LowSpeed > c.HighSpeed {
		err = multierr.Append(err, fmt.Errorf("lowSpeed %v is greater than highSpeed %v", c.LowSpeed, c.HighSpeed))
	}
	if c.TickRate <= 0 {
		err = multierr.Append(err, fmt.Errorf("tickRate must be positive, got %d", c.TickRate))
	}
	if c.NumSquirrels < 0 {
		err = multierr.Append(err, fmt.Errorf("numSquirrels must not be negative, got %d", c.NumSquirrels))
	}
	if c.StatsEvery < 0 {
		err = multierr.Append(err, fmt.Errorf("statsEvery must not be negative, got %d", c.StatsEvery))
	}
	if perr := c.FlockParams().Validate(); perr != nil {
		err = multierr.Append(err, perr)
	}
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Step is the simulated time of one tick.
func (c Config) Step() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// FlockParams maps the config to the engine tuning.
func (c Config) FlockParams() flock.Params {
	timestep := 0.0
	if c.TickRate > 0 {
		timestep = 1.0 / float64(c.TickRate)
	}
	return flock.Params{
		FlockingRange:      c.FlockingRange,
		SeparationDistance: c.SeparationDistance,
		CenteringFactor:    c.CenteringFactor,
		AlignmentFactor:    c.AlignmentFactor,
		SeparationFactor:   c.SeparationFactor,
		Regulation: flock.RegulationParams{
			Low:    c.LowSpeed,
			High:   c.HighSpeed,
			Factor: c.RegulationFactor,
		},
		Timestep: timestep,
		Rules: flock.RuleSet{
			Centering:  c.EnableCentering,
			Alignment:  c.EnableAlignment,
			Separation: c.EnableSeparation,
			Regulation: c.EnableRegulation,
			Orient:     true,
		},
	}
}

// SpawnParams maps the population settings.
func (c Config) SpawnParams() flock.SpawnParams {
	return flock.SpawnParams{Count: c.NumSquirrels, MinSpeed: c.MinSpeed, MaxSpeed: c.MaxSpeed}
}
