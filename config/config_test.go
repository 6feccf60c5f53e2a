package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "raw", cfg.Segment.OutputDir)
	assert.True(t, cfg.Segment.Merge)
	assert.Equal(t, 2, cfg.Segment.MinLength)
	assert.Equal(t, "raw", cfg.Build.InputDir)
	assert.Equal(t, "results", cfg.Build.OutputDir)
	assert.Equal(t, PolicyLastWins, cfg.Build.Policy)
	assert.Equal(t, MissingSkip, cfg.Build.OnMissing)
	assert.True(t, cfg.Build.Heteronym)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown mode",
			modify:  func(c *Config) { c.Segment.Mode = "hmm" },
			wantErr: true,
		},
		{
			name:    "zero jobs",
			modify:  func(c *Config) { c.Segment.Jobs = 0 },
			wantErr: true,
		},
		{
			name:    "zero min length",
			modify:  func(c *Config) { c.Segment.MinLength = 0 },
			wantErr: true,
		},
		{
			name: "discover without threshold",
			modify: func(c *Config) {
				c.Segment.Discover.Enabled = true
				c.Segment.Discover.Threshold = 0
			},
			wantErr: true,
		},
		{
			name:    "unknown policy",
			modify:  func(c *Config) { c.Build.Policy = "random" },
			wantErr: true,
		},
		{
			name:    "first wins policy",
			modify:  func(c *Config) { c.Build.Policy = PolicyFirstWins },
			wantErr: false,
		},
		{
			name:    "unknown missing mode",
			modify:  func(c *Config) { c.Build.OnMissing = "abort" },
			wantErr: true,
		},
		{
			name:    "unknown style",
			modify:  func(c *Config) { c.Build.Style = "bopomofo" },
			wantErr: true,
		},
		{
			name:    "space separator",
			modify:  func(c *Config) { c.Build.SyllableSep = " " },
			wantErr: true,
		},
		{
			name:    "missing output name",
			modify:  func(c *Config) { c.Build.OutputName = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imedict.yaml")
	content := `
segment:
  recursive: true
  mode: hybrid
lexicon:
  dictionaries: [core.txt, user.txt]
build:
  policy: first-wins
  heteronym: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Segment.Recursive)
	assert.Equal(t, "hybrid", cfg.Segment.Mode)
	assert.True(t, cfg.Segment.Merge, "unset fields keep defaults")
	assert.Equal(t, []string{"core.txt", "user.txt"}, cfg.Lexicon.Dictionaries)
	assert.Equal(t, PolicyFirstWins, cfg.Build.Policy)
	assert.False(t, cfg.Build.Heteronym)
	assert.Equal(t, "results", cfg.Build.OutputDir)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segment: [unclosed"), 0644))
	_, err := LoadFromFile(path)
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoader_Load(t *testing.T) {
	l := NewLoader(nil)

	t.Run("explicit missing path", func(t *testing.T) {
		_, err := l.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("explicit invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte("build:\n  policy: coin-flip\n"), 0644))
		_, err := l.Load(path)
		assert.Error(t, err)
	})

	t.Run("project file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(ProjectConfigFile, []byte("segment:\n  jobs: 3\n"), 0644))
		cfg, err := l.Load("")
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Segment.Jobs)
	})

	t.Run("defaults without file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := l.Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}
