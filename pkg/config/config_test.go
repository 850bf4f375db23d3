package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web-cloner-go/pkg/config"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("CLONER_BASE_URL", "")
	t.Setenv("CLONER_OUTPUT_DIR", "")
	return home
}

func TestLoadCreatesDefaults(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	home := setupHome(t)

	cfg, err := config.Load()
	require.NoError(err)

	assert.Equal("http://localhost:8000", cfg.Service.BaseURL)
	assert.Equal(time.Second, cfg.PollInterval())
	assert.Equal(600, cfg.Poll.MaxAttempts)
	assert.Equal(time.Duration(0), cfg.PollTimeout())
	assert.Equal(30*time.Second, cfg.RequestTimeout())
	assert.Equal(800*time.Millisecond, cfg.StepDelay())

	_, err = os.Stat(filepath.Join(home, ".config", "web-cloner", "config.toml"))
	assert.NoError(err)
}

func TestLoadFromFile(t *testing.T) {
	tests := map[string]struct {
		content string
		env     map[string]string
		exp     func(t *testing.T, cfg *config.Config)
		expErr  bool
	}{
		"partial file keeps defaults": {
			content: "[service]\nbase_url = \"http://cloner:9000\"\n",
			exp: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "http://cloner:9000", cfg.Service.BaseURL)
				assert.Equal(t, 1000, cfg.Poll.IntervalMS)
				assert.Equal(t, 8090, cfg.Preview.Port)
				assert.Equal(t, ".", cfg.Output.Dir)
			},
		},
		"zero attempts stays unbounded": {
			content: "[poll]\ninterval_ms = 250\nmax_attempts = 0\ntimeout_seconds = 60\n",
			exp: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
				assert.Equal(t, 0, cfg.Poll.MaxAttempts)
				assert.Equal(t, time.Minute, cfg.PollTimeout())
			},
		},
		"environment overrides file": {
			content: "[service]\nbase_url = \"http://cloner:9000\"\n[output]\ndir = \"/srv/out\"\n",
			env: map[string]string{
				"CLONER_BASE_URL":   "http://other:8000",
				"CLONER_OUTPUT_DIR": "/tmp/pages",
			},
			exp: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "http://other:8000", cfg.Service.BaseURL)
				assert.Equal(t, "/tmp/pages", cfg.Output.Dir)
			},
		},
		"invalid base url is rejected": {
			content: "[service]\nbase_url = \"not a url\"\n",
			expErr:  true,
		},
		"negative attempts are rejected": {
			content: "[poll]\nmax_attempts = -1\n",
			expErr:  true,
		},
		"broken toml is rejected": {
			content: "[service\n",
			expErr:  true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			setupHome(t)
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(test.content), 0644))
			t.Setenv(config.EnvConfigPath, path)
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			test.exp(t, cfg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	setupHome(t)

	cfg := config.DefaultConfig()
	cfg.Output.Dir = "/srv/pages"
	cfg.Poll.MaxAttempts = 42
	require.NoError(t, config.Save(cfg))

	got, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigSet(t *testing.T) {
	tests := map[string]struct {
		set    string
		exp    func(t *testing.T, cfg *config.Config)
		expErr bool
	}{
		"base url": {
			set: "service.base_url=http://cloner:9000",
			exp: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "http://cloner:9000", cfg.Service.BaseURL)
			},
		},
		"value containing equals sign": {
			set: "service.base_url=http://cloner:9000/?a=b",
			exp: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "http://cloner:9000/?a=b", cfg.Service.BaseURL)
			},
		},
		"poll interval": {
			set: "poll.interval_ms=500",
			exp: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 500, cfg.Poll.IntervalMS)
			},
		},
		"preview port": {
			set: "preview.port=9999",
			exp: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 9999, cfg.Preview.Port)
			},
		},
		"stub step delay": {
			set: "stub.step_delay_ms=0",
			exp: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 0, cfg.Stub.StepDelayMS)
			},
		},
		"missing equals":        {set: "service.base_url", expErr: true},
		"missing section":       {set: "base_url=x", expErr: true},
		"unknown section":       {set: "db.url=x", expErr: true},
		"unknown key":           {set: "poll.speed=1", expErr: true},
		"non numeric value":     {set: "poll.interval_ms=fast", expErr: true},
		"zero interval":         {set: "poll.interval_ms=0", expErr: true},
		"port out of range":     {set: "stub.port=70000", expErr: true},
		"invalid url is caught": {set: "service.base_url=::nope", expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			err := cfg.Set(test.set)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			test.exp(t, cfg)
		})
	}
}
