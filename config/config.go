// Package config holds the settings of an emulation session and turns them
// into emulator options.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/sarchlab/akita/v4/sim"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/timing/clock"
)

// MaxLogVerbosity is the most detailed log level the emulator emits
// (per-instruction traces).
const MaxLogVerbosity = 2

// Config holds the settings of one emulation session.
type Config struct {
	// CPUFrequencyHz is the CPU clock frequency.
	// Default: 4194304 Hz (DMG).
	CPUFrequencyHz float64 `json:"cpu_frequency_hz" yaml:"cpu_frequency_hz"`

	// CyclesPerFrame is the number of cycles in one frame.
	// Default: 70224.
	CyclesPerFrame uint64 `json:"cycles_per_frame" yaml:"cycles_per_frame"`

	// Throttle paces execution to real time.
	Throttle bool `json:"throttle" yaml:"throttle"`

	// Frames is the number of frames to run. 0 runs until interrupted.
	Frames uint64 `json:"frames" yaml:"frames"`

	// MaxInstructions stops execution after this many instructions.
	// 0 means no limit.
	MaxInstructions uint64 `json:"max_instructions" yaml:"max_instructions"`

	// StopOnIllegalOpcode ends the run when an illegal opcode is executed.
	// Default: true.
	StopOnIllegalOpcode bool `json:"stop_on_illegal_opcode" yaml:"stop_on_illegal_opcode"`

	// LogVerbosity is the logr verbosity: 0 warnings, 1 events, 2 traces.
	LogVerbosity int `json:"log_verbosity" yaml:"log_verbosity"`

	// Trace logs every executed instruction at verbosity 2.
	Trace bool `json:"trace" yaml:"trace"`
}

// Default returns a Config for an original Game Boy.
func Default() *Config {
	return &Config{
		CPUFrequencyHz:      float64(clock.DMGFrequency),
		CyclesPerFrame:      clock.CyclesPerFrame,
		StopOnIllegalOpcode: true,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Load reads a Config from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return config, nil
}

// Save writes the Config to a JSON or YAML file, chosen by extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the values describe a runnable session.
func (c *Config) Validate() error {
	if c.CPUFrequencyHz <= 0 {
		return fmt.Errorf("cpu_frequency_hz must be > 0")
	}
	if c.CyclesPerFrame == 0 {
		return fmt.Errorf("cycles_per_frame must be > 0")
	}
	if c.LogVerbosity < 0 || c.LogVerbosity > MaxLogVerbosity {
		return fmt.Errorf("log_verbosity must be between 0 and %d", MaxLogVerbosity)
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// NewClock creates a clock with the configured frequency and frame budget.
func (c *Config) NewClock() *clock.Clock {
	return clock.New(
		clock.WithFrequency(sim.Freq(c.CPUFrequencyHz)*sim.Hz),
		clock.WithCyclesPerFrame(c.CyclesPerFrame),
	)
}

// NewLogger creates a logger that writes one line per entry to w at the
// configured verbosity.
func (c *Config) NewLogger(w io.Writer) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: c.LogVerbosity})
}

// EmulatorOptions translates the Config into emulator options. The clock is
// created fresh from the Config.
func (c *Config) EmulatorOptions(logger logr.Logger) []emu.EmulatorOption {
	return []emu.EmulatorOption{
		emu.WithClock(c.NewClock()),
		emu.WithLogger(logger),
		emu.WithTrace(c.Trace),
		emu.WithThrottle(c.Throttle),
		emu.WithStopOnIllegalOpcode(c.StopOnIllegalOpcode),
		emu.WithMaxInstructions(c.MaxInstructions),
	}
}
