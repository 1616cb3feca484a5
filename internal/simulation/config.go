// Package simulation certifies the adaptive engine against synthetic
// examinees with known ability: it drives many concurrent sessions through
// the public engine API and reports estimation error, convergence and
// stability.
package simulation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/adaptiq/internal/itembank"
)

// Config controls a simulation run.
type Config struct {
	Iterations int     `yaml:"iterations"`
	MinTheta   float64 `yaml:"min_theta"`
	MaxTheta   float64 `yaml:"max_theta"`

	Sections        []itembank.Section `yaml:"sections"`
	ItemsPerSection int                `yaml:"items_per_section"`

	// MaxQuestions caps the whole assessment. Zero means no cap.
	MaxQuestions int `yaml:"max_questions"`

	ConvergenceThreshold    float64 `yaml:"convergence_threshold"`
	MinConvergenceQuestions int     `yaml:"min_convergence_questions"`

	// HintProbability is the chance of a hint request after a wrong answer.
	HintProbability float64 `yaml:"hint_probability"`

	BatchSize int `yaml:"batch_size"`
	// Workers bounds concurrency within a batch. Zero means BatchSize.
	Workers int `yaml:"workers"`

	Seed uint64 `yaml:"seed"`

	// SEAtCurrentTheta is passed through to the engine.
	SEAtCurrentTheta bool `yaml:"se_at_current_theta"`

	Thresholds Thresholds `yaml:"thresholds"`
}

// ValidationConfig is the full validation run: 300,000 examinees over
// [-4, 4], eight items per section, at most 20 questions each.
func ValidationConfig() Config {
	return Config{
		Iterations:              300_000,
		MinTheta:                -4,
		MaxTheta:                4,
		Sections:                itembank.AllSections(),
		ItemsPerSection:         8,
		MaxQuestions:            20,
		ConvergenceThreshold:    0.3,
		MinConvergenceQuestions: 5,
		HintProbability:         0.2,
		BatchSize:               1000,
		Seed:                    1,
		Thresholds:              DefaultThresholds(),
	}
}

// BatchConfig is the lighter run: abilities in [-3, 3] and five items per
// section.
func BatchConfig() Config {
	cfg := ValidationConfig()
	cfg.Iterations = 10_000
	cfg.MinTheta = -3
	cfg.MaxTheta = 3
	cfg.ItemsPerSection = 5
	cfg.MaxQuestions = 0
	return cfg
}

// DefaultConfig returns ValidationConfig.
func DefaultConfig() Config {
	return ValidationConfig()
}

// Preset returns a named configuration.
func Preset(name string) (Config, error) {
	switch name {
	case "validation", "":
		return ValidationConfig(), nil
	case "batch":
		return BatchConfig(), nil
	}
	return Config{}, fmt.Errorf("unknown preset %q (want validation or batch)", name)
}

// LoadConfig reads a YAML file over base. Fields absent from the file keep
// base's values.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read simulation config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse simulation config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("simulation config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Iterations <= 0:
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	case c.MinTheta >= c.MaxTheta:
		return fmt.Errorf("min_theta %.2f must be below max_theta %.2f", c.MinTheta, c.MaxTheta)
	case c.ItemsPerSection <= 0:
		return fmt.Errorf("items_per_section must be positive, got %d", c.ItemsPerSection)
	case c.MaxQuestions < 0:
		return fmt.Errorf("max_questions must not be negative, got %d", c.MaxQuestions)
	case c.HintProbability < 0 || c.HintProbability > 1:
		return fmt.Errorf("hint_probability must be in [0, 1], got %.2f", c.HintProbability)
	case c.BatchSize <= 0:
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	for _, s := range c.Sections {
		if !s.Valid() {
			return fmt.Errorf("unknown section %q", s)
		}
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return c.BatchSize
}

func (c Config) sections() []itembank.Section {
	if len(c.Sections) == 0 {
		return itembank.AllSections()
	}
	return c.Sections
}
