// Package config loads the settings of the xpander command from a YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Defacto2/xpander"
	"github.com/Defacto2/xpander/command"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file settings.
const (
	EnvExecutable  = "XPANDER_EXECUTABLE"
	EnvDestination = "XPANDER_DESTINATION"
)

// ErrFolder is returned for a fixed location policy without an absolute folder.
var ErrFolder = errors.New("fixed location folder must be an absolute path")

// Config holds the settings of the xpander command.
type Config struct {
	Executable  string            `yaml:"executable"`
	Destination DestinationConfig `yaml:"destination"`
	Scan        ScanConfig        `yaml:"scan"`
	Options     OptionsConfig     `yaml:"options"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DestinationConfig is the policy that locates the expanded files.
// Policy is one of same-as-archive, fixed-location or ask-when-extracting.
type DestinationConfig struct {
	Policy      string `yaml:"policy"`
	Folder      string `yaml:"folder"`
	Surrounding bool   `yaml:"surrounding_folder"`
}

// ScanConfig controls the archives found within named folders.
type ScanConfig struct {
	LookIntoFolders bool `yaml:"look_into_folders"`
	TreatAllFiles   bool `yaml:"treat_all_files_as_archives"`
}

// OptionsConfig are the default unace options of every batch.
type OptionsConfig struct {
	OverwriteFiles  bool `yaml:"overwrite_files"`
	ExtractFullPath bool `yaml:"extract_full_path"`
	AssumeYes       bool `yaml:"assume_yes"`
	ShowComments    bool `yaml:"show_comments"`
	ListVerbosely   bool `yaml:"list_verbosely"`
	Debug           bool `yaml:"debug"`
}

// LoggingConfig sets the minimum level of the logger, such as warn or debug.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

func defaults() *Config {
	return &Config{
		Executable: command.Unace,
		Destination: DestinationConfig{
			Policy: xpander.SameAsArchive.String(),
		},
		Options: OptionsConfig{
			ShowComments:  true,
			ListVerbosely: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path and then with
// the environment. An empty path or a missing file only uses the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config read %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config parse %s: %w", path, err)
			}
		}
	}
	cfg.env()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) env() {
	if v := os.Getenv(EnvExecutable); v != "" {
		c.Executable = v
	}
	if v := os.Getenv(EnvDestination); v != "" {
		c.Destination.Policy = xpander.FixedLocation.String()
		c.Destination.Folder = v
	}
}

// Validate checks the destination settings.
func (c *Config) Validate() error {
	p, err := xpander.ParsePolicy(c.Destination.Policy)
	if err != nil {
		return fmt.Errorf("config %w", err)
	}
	if p == xpander.FixedLocation && !filepath.IsAbs(c.Destination.Folder) {
		return fmt.Errorf("config %w: %q", ErrFolder, c.Destination.Folder)
	}
	return nil
}

// Dest returns the destination policy of the settings.
func (c *Config) Dest() xpander.Destination {
	p, _ := xpander.ParsePolicy(c.Destination.Policy)
	return xpander.Destination{
		Policy:      p,
		Folder:      c.Destination.Folder,
		Surrounding: c.Destination.Surrounding,
	}
}

// RunOptions returns the default run options for the cmd command.
// Overwriting files also assumes yes, as unace would otherwise stop to ask.
func (c *Config) RunOptions(cmd xpander.Command) xpander.Options {
	o := c.Options
	return xpander.Options{
		Command:      cmd,
		Overwrite:    o.OverwriteFiles,
		FullPath:     o.ExtractFullPath,
		AssumeYes:    o.AssumeYes || o.OverwriteFiles,
		ShowComments: o.ShowComments,
		Verbose:      o.ListVerbosely,
		Debug:        o.Debug,
	}
}
