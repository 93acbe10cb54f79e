package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"customtube/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runLoadConfig(t *testing.T, args ...string) (*config.TomlConfig, error) {
	t.Helper()

	var loaded *config.TomlConfig
	app := &cli.App{
		Name: "customtube",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
		},
		Commands: []*cli.Command{
			{
				Name:  "check",
				Flags: append(databaseFlags(), feedFlags()...),
				Action: func(ctx *cli.Context) error {
					cfg, err := loadConfig(ctx)
					loaded = cfg
					return err
				},
			},
		},
	}

	err := app.Run(append([]string{"customtube"}, args...))
	return loaded, err
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customtube.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
path = "from-file.db"

[feed]
per_keyword = 7
cache = "memory"
`), 0o600))

	tests := []struct {
		name       string
		args       []string
		path       string
		perKeyword int
		cache      string
	}{
		{
			name:       "defaults",
			args:       []string{"check"},
			path:       "customtube.db",
			perKeyword: 10,
			cache:      "database",
		},
		{
			name:       "file over defaults",
			args:       []string{"--config", path, "check"},
			path:       "from-file.db",
			perKeyword: 7,
			cache:      "memory",
		},
		{
			name:       "flags over file",
			args:       []string{"--config", path, "check", "--per-keyword", "3", "--database", "flag.db"},
			path:       "flag.db",
			perKeyword: 3,
			cache:      "memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := runLoadConfig(t, tt.args...)
			require.NoError(t, err)
			require.NotNil(t, cfg)

			assert.Equal(t, tt.path, cfg.Database.Path)
			assert.Equal(t, tt.perKeyword, cfg.Feed.PerKeyword)
			assert.Equal(t, tt.cache, cfg.Feed.Cache)
		})
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("CUSTOMTUBE_PER_KEYWORD", "4")

	cfg, err := runLoadConfig(t, "check")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Feed.PerKeyword)
}

func TestLoadConfigRejectsInvalidSettings(t *testing.T) {
	_, err := runLoadConfig(t, "check", "--provider", "youtube")
	assert.Error(t, err)

	_, err = runLoadConfig(t, "check", "--cache", "redis")
	assert.Error(t, err)
}
