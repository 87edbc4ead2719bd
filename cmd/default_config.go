package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/procsim/sim/trace"
)

// Config represents the optional procsim.yaml structure.
// Every key must be listed here to satisfy KnownFields(true) strict parsing.
// Empty values mean "not set" and leave the flag default in place.
type Config struct {
	ProcessesFile string `yaml:"processes_file"`
	MemoryFile    string `yaml:"memory_file"`
	LogLevel      string `yaml:"log_level"`
	Trace         string `yaml:"trace"`
}

// loadConfig parses a YAML config file with strict field checking, so a
// misspelled key is an error rather than a silently ignored setting.
func loadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) { // empty file is an empty config
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks level names. Empty fields are valid.
func (c Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("unknown log_level %q", c.LogLevel)
		}
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q", c.Trace)
	}
	return nil
}
