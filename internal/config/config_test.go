package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdir isolates Load from any voxa.yaml in the package directory.
func chdir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	chdir(t)

	path := filepath.Join(t.TempDir(), "voxa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen:
  backend: socket
  socket: /run/voxa.sock
  duck_factor: 0.5
  duck_fade: 80ms
tts:
  backend: console
dialogue:
  listen_timeout: 3s
  turn_pause: 0s
messaging:
  transport: bus
  bus_url: ws://localhost:8092/bus
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "socket", cfg.Listen.Backend)
	require.Equal(t, "/run/voxa.sock", cfg.Listen.Socket)
	require.Equal(t, 0.5, cfg.Listen.DuckFactor)
	require.Equal(t, 80*time.Millisecond, cfg.Listen.DuckFade)
	require.Equal(t, 10, cfg.Listen.DuckFloor)
	require.Equal(t, "console", cfg.TTS.Backend)
	require.Equal(t, 3*time.Second, cfg.Dialogue.ListenTimeout)
	require.Equal(t, 5*time.Second, cfg.Dialogue.ComposeTimeout)
	require.Zero(t, cfg.Dialogue.TurnPause)
	require.Equal(t, "bus", cfg.Messaging.Transport)
	require.Equal(t, 10*time.Second, cfg.Messaging.SendDelay)
}

func TestLoad_Env(t *testing.T) {
	chdir(t)
	t.Setenv("VOXA_TTS_BACKEND", "console")
	t.Setenv("VOXA_DIALOGUE_PHRASE_LIMIT", "4s")
	t.Setenv("VOXA_STT_BACKEND", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "console", cfg.TTS.Backend)
	require.Equal(t, 4*time.Second, cfg.Dialogue.PhraseLimit)
	require.Equal(t, "sk-test", cfg.STT.OpenAIAPIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"listen backend":    func(c *Config) { c.Listen.Backend = "radio" },
		"files without dir": func(c *Config) { c.Listen.Backend = "files" },
		"stt backend":       func(c *Config) { c.STT.Backend = "vosk" },
		"openai without key": func(c *Config) {
			c.STT.Backend = "openai"
		},
		"tts backend":            func(c *Config) { c.TTS.Backend = "festival" },
		"transport":              func(c *Config) { c.Messaging.Transport = "sms" },
		"bus without url":        func(c *Config) { c.Messaging.Transport = "bus" },
		"telegram without token": func(c *Config) { c.Messaging.Transport = "telegram" },
		"zero timeout":           func(c *Config) { c.Dialogue.ListenTimeout = 0 },
		"negative pause":         func(c *Config) { c.Dialogue.TurnPause = -time.Second },
		"duck factor":            func(c *Config) { c.Listen.DuckFactor = 1.5 },
		"negative duck fade":     func(c *Config) { c.Listen.DuckFade = -time.Millisecond },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			require.Error(t, c.Validate())
		})
	}

	require.NoError(t, Default().Validate())

	c := Default()
	c.Listen.Duck = false
	c.Listen.DuckFactor = 0
	require.NoError(t, c.Validate())
}

func TestValidate_SocketSkipsSTT(t *testing.T) {
	c := Default()
	c.Listen.Backend = "socket"
	c.STT.Backend = "none"
	require.NoError(t, c.Validate())
}
