package simulation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if got, want := cfg.FlockParams(), flock.DefaultParams(); got != want {
		t.Errorf("FlockParams() = %+v; want the engine defaults %+v", got, want)
	}
	if cfg.Step() != time.Second/60 {
		t.Errorf("Step() = %v; want 1/60s", cfg.Step())
	}
}

func TestLoadConfigFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "squirrels.json", `{"numSquirrels": 42, "flockingRange": 150, "enableAlignment": false, "logFormat": "json"}`},
		{"yaml", "squirrels.yaml", "numSquirrels: 42\nflockingRange: 150\nenableAlignment: false\nlogFormat: json\n"},
		{"toml", "squirrels.toml", "numSquirrels = 42\nflockingRange = 150.0\nenableAlignment = false\nlogFormat = \"json\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.NumSquirrels != 42 || cfg.FlockingRange != 150 || cfg.EnableAlignment || cfg.LogFormat != "json" {
				t.Errorf("overlay not applied: %+v", cfg)
			}
			// untouched keys keep their defaults
			if cfg.SeparationDistance != flock.DefaultSeparationDistance || !cfg.EnableCentering {
				t.Errorf("defaults lost: %+v", cfg)
			}
		})
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown key", "a.json", `{"numSquirels": 3}`, "validation"},
		{"wrong type", "b.json", `{"numSquirrels": "many"}`, "validation"},
		{"out of range", "c.yaml", "centeringFactor: 2\n", "validation"},
		{"bad enum", "d.json", `{"logLevel": "chatty"}`, "validation"},
		{"inverted band", "e.json", `{"lowSpeed": 900, "highSpeed": 100}`, "lowSpeed"},
		{"unsupported format", "f.ini", "numSquirrels=3", "unsupported"},
		{"broken yaml", "g.yml", "numSquirrels: [", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestConfigValueMethods(t *testing.T) {
	cfg := *DefaultConfig()
	cfg.TickRate = 50

	if got := cfg.Step(); got != 20*time.Millisecond {
		t.Errorf("Step() = %v; want 20ms", got)
	}
	if got := cfg.FlockParams().Timestep; got != 1.0/50 {
		t.Errorf("Timestep = %v; want 1/50", got)
	}
	if err := cfg.validateSchema(); err != nil {
		t.Errorf("default config does not pass its own schema: %v", err)
	}
	cfg.NumSquirrels = 100000
	if err := cfg.validateSchema(); err == nil {
		t.Error("schema accepted 100000 squirrels")
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSpeed, cfg.MaxSpeed = 10, 5
	cfg.LowSpeed, cfg.HighSpeed = 10, 5
	cfg.TickRate = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"minSpeed", "lowSpeed", "tickRate"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
