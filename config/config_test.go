package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Defacto2/xpander"
	"github.com/Defacto2/xpander/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `executable: /opt/ace/unace
destination:
  policy: Fixed-Location
  folder: /srv/expanded
  surrounding_folder: true
scan:
  look_into_folders: true
options:
  overwrite_files: true
  show_comments: false
logging:
  level: info
`

func write(t *testing.T, s string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "xpander.yaml")
	require.NoError(t, os.WriteFile(name, []byte(s), 0o644))
	return name
}

func TestLoad(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(write(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "/opt/ace/unace", cfg.Executable)
	assert.True(t, cfg.Scan.LookIntoFolders)
	assert.False(t, cfg.Scan.TreatAllFiles)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Options.ListVerbosely, "a missing key keeps its default")
	assert.False(t, cfg.Options.ShowComments)
	assert.Equal(t, xpander.Destination{
		Policy:      xpander.FixedLocation,
		Folder:      "/srv/expanded",
		Surrounding: true,
	}, cfg.Dest())
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := config.Load(name)
		require.NoError(t, err)
		assert.Equal(t, "unace", cfg.Executable)
		assert.Equal(t, xpander.Destination{Policy: xpander.SameAsArchive}, cfg.Dest())
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.True(t, cfg.Options.ShowComments)
		assert.True(t, cfg.Options.ListVerbosely)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"policy", "destination:\n  policy: elsewhere\n", xpander.ErrPolicy},
		{"no folder", "destination:\n  policy: fixed-location\n", config.ErrFolder},
		{"relative folder", "destination:\n  policy: fixed-location\n  folder: out\n", config.ErrFolder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(write(t, tt.yaml))
			require.ErrorIs(t, err, tt.want)
		})
	}
	_, err := config.Load(write(t, "options: [1, 2"))
	require.Error(t, err)
	_, err = config.Load(t.TempDir())
	require.Error(t, err, "a folder is not a config file")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvExecutable, "/usr/local/bin/unace")
	t.Setenv(config.EnvDestination, dir)
	cfg, err := config.Load(write(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/unace", cfg.Executable)
	assert.Equal(t, xpander.FixedLocation, cfg.Dest().Policy)
	assert.Equal(t, dir, cfg.Dest().Folder)

	t.Setenv(config.EnvDestination, "relative")
	_, err = config.Load("")
	require.ErrorIs(t, err, config.ErrFolder)
}

func TestConfig_RunOptions(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(write(t, sample))
	require.NoError(t, err)
	o := cfg.RunOptions(xpander.Expand)
	assert.Equal(t, xpander.Options{
		Command:   xpander.Expand,
		Overwrite: true,
		AssumeYes: true,
		Verbose:   true,
	}, o)

	cfg, err = config.Load("")
	require.NoError(t, err)
	o = cfg.RunOptions(xpander.List)
	assert.False(t, o.AssumeYes)
	assert.True(t, o.ShowComments)
	assert.Equal(t, xpander.List, o.Command)
}
