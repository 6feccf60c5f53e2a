// Package config provides configuration loading for the imedict tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Merge policies for words that occur in several intermediate files.
const (
	PolicyLastWins  = "last-wins"
	PolicyFirstWins = "first-wins"
)

// Handling of words without a pinyin reading.
const (
	MissingSkip  = "skip"
	MissingEmpty = "empty"
)

// Comment column modes.
const (
	CommentNone   = "none"
	CommentSource = "source"
)

// Config represents the complete configuration of both batch jobs.
type Config struct {
	Segment SegmentConfig `yaml:"segment"`
	Lexicon LexiconConfig `yaml:"lexicon"`
	Build   BuildConfig   `yaml:"build"`
	Log     LogConfig     `yaml:"log"`
}

// SegmentConfig configures vocabulary extraction.
type SegmentConfig struct {
	// OutputDir is the intermediate directory (default: raw)
	OutputDir string `yaml:"output_dir"`
	Recursive bool   `yaml:"recursive"`
	// Merge unions all files of a directory run into one output file
	Merge     bool `yaml:"merge"`
	Overwrite bool `yaml:"overwrite"`
	// Jobs is the number of files segmented concurrently
	Jobs int `yaml:"jobs"`
	// Mode is the segmentation algorithm: dag, crf or hybrid
	Mode string `yaml:"mode"`
	// Search also emits dictionary sub-words of long words
	Search    bool     `yaml:"search"`
	MinLength int      `yaml:"min_length"`
	Exclude   []string `yaml:"exclude"`
	// Encodings are tried in order when a file is not UTF-8
	Encodings []string       `yaml:"encodings"`
	Discover  DiscoverConfig `yaml:"discover"`
}

// DiscoverConfig configures unsupervised new-word discovery.
type DiscoverConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold int     `yaml:"threshold"`
	MaxGram   int     `yaml:"max_gram"`
	Ratio     float64 `yaml:"ratio"`
}

// LexiconConfig locates the segmentation dictionary and model.
type LexiconConfig struct {
	// Dictionaries are loaded in order, later files win (empty = built-in seed list)
	Dictionaries []string `yaml:"dictionaries"`
	// Model is an optional CRF model used by the crf and hybrid modes
	Model string `yaml:"model"`
}

// BuildConfig configures the pinyin dictionary build.
type BuildConfig struct {
	InputDir    string `yaml:"input_dir"`
	OutputDir   string `yaml:"output_dir"`
	OutputName  string `yaml:"output_name"`
	Policy      string `yaml:"policy"`
	OnMissing   string `yaml:"on_missing"`
	Style       string `yaml:"style"`
	SyllableSep string `yaml:"syllable_sep"`
	ReadingSep  string `yaml:"reading_sep"`
	MaxReadings int    `yaml:"max_readings"`
	// Heteronym lists every reading of characters no known phrase pins down
	Heteronym bool `yaml:"heteronym"`
	// PhraseFile adds contextual phrase readings over the built-in table
	PhraseFile string `yaml:"phrase_file"`
	// Weights adds the lexicon frequency of each word as the weight column
	Weights bool   `yaml:"weights"`
	Comment string `yaml:"comment"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Segment: SegmentConfig{
			OutputDir: "raw",
			Merge:     true,
			Jobs:      1,
			Mode:      "dag",
			MinLength: 2,
			Encodings: []string{"gb18030", "big5"},
			Discover: DiscoverConfig{
				Threshold: 5,
				MaxGram:   4,
				Ratio:     0.9,
			},
		},
		Build: BuildConfig{
			InputDir:    "raw",
			OutputDir:   "results",
			OutputName:  "pinyin_dict.txt",
			Policy:      PolicyLastWins,
			OnMissing:   MissingSkip,
			Style:       "normal",
			Heteronym:   true,
			SyllableSep: "'",
			ReadingSep:  "|",
			MaxReadings: 4,
			Comment:     CommentNone,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Segment.Mode {
	case "dag", "crf", "hybrid":
	default:
		return fmt.Errorf("segment.mode must be dag, crf or hybrid, got %q", c.Segment.Mode)
	}
	if c.Segment.OutputDir == "" {
		return fmt.Errorf("segment.output_dir is required")
	}
	if c.Segment.Jobs < 1 {
		return fmt.Errorf("segment.jobs must be at least 1")
	}
	if c.Segment.MinLength < 1 {
		return fmt.Errorf("segment.min_length must be at least 1")
	}
	if d := c.Segment.Discover; d.Enabled {
		if d.Threshold < 1 || d.MaxGram < 2 || d.Ratio <= 0 {
			return fmt.Errorf("segment.discover needs threshold >= 1, max_gram >= 2 and ratio > 0")
		}
	}
	if c.Build.InputDir == "" || c.Build.OutputDir == "" || c.Build.OutputName == "" {
		return fmt.Errorf("build.input_dir, build.output_dir and build.output_name are required")
	}
	if c.Build.Policy != PolicyLastWins && c.Build.Policy != PolicyFirstWins {
		return fmt.Errorf("build.policy must be %s or %s, got %q", PolicyLastWins, PolicyFirstWins, c.Build.Policy)
	}
	if c.Build.OnMissing != MissingSkip && c.Build.OnMissing != MissingEmpty {
		return fmt.Errorf("build.on_missing must be %s or %s, got %q", MissingSkip, MissingEmpty, c.Build.OnMissing)
	}
	if c.Build.Comment != CommentNone && c.Build.Comment != CommentSource {
		return fmt.Errorf("build.comment must be %s or %s, got %q", CommentNone, CommentSource, c.Build.Comment)
	}
	switch c.Build.Style {
	case "normal", "tone", "tone2", "tone3":
	default:
		return fmt.Errorf("build.style must be normal, tone, tone2 or tone3, got %q", c.Build.Style)
	}
	if c.Build.SyllableSep == " " || c.Build.ReadingSep == " " {
		return fmt.Errorf("build separators must not be a space, it separates columns")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
