// Package config loads run settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/perfgo/latencylab/model"
	"github.com/perfgo/latencylab/results"
	"gopkg.in/yaml.v3"
)

// File is the content of a run configuration file. Pointer fields are nil
// when the key is absent, so defaults can be told apart from explicit zeros.
type File struct {
	Case       string   `yaml:"case"`
	Iterations *uint64  `yaml:"iterations"`
	Warmup     *uint64  `yaml:"warmup"`
	Pin        *int     `yaml:"pin"`
	Noise      string   `yaml:"noise"`
	Clock      string   `yaml:"clock"`
	GCOff      bool     `yaml:"gc_off"`
	Out        string   `yaml:"out"`
	OutFile    string   `yaml:"out_file"`
	Format     string   `yaml:"format"`
	Profile    bool     `yaml:"profile"`
	Tags       []string `yaml:"tags"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document. Unknown keys are rejected and an
// empty document yields an empty File.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg File
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that can be checked without other settings.
func (f *File) Validate() error {
	if f.Pin != nil && *f.Pin < 0 {
		return fmt.Errorf("%w: pin must be >= 0, got %d", model.ErrConfiguration, *f.Pin)
	}
	if _, err := model.ParseNoiseMode(f.Noise); err != nil {
		return err
	}
	if _, err := model.ParseClockKind(f.Clock); err != nil {
		return err
	}
	if _, err := results.ParseFormat(f.Format); err != nil {
		return err
	}
	return nil
}
