// Package config loads voxa's settings from an optional YAML file and VOXA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Listen    ListenConfig    `mapstructure:"listen"`
	STT       STTConfig       `mapstructure:"stt"`
	TTS       TTSConfig       `mapstructure:"tts"`
	Dialogue  DialogueConfig  `mapstructure:"dialogue"`
	Media     MediaConfig     `mapstructure:"media"`
	Wiki      WikiConfig      `mapstructure:"wiki"`
	Messaging MessagingConfig `mapstructure:"messaging"`
	Contacts  ContactsConfig  `mapstructure:"contacts"`
	Proxy     ProxyConfig     `mapstructure:"proxy"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ListenConfig struct {
	Backend          string        `mapstructure:"backend"` // mic, files, socket
	Dir              string        `mapstructure:"dir"`
	Socket           string        `mapstructure:"socket"`
	SilenceThreshold float64       `mapstructure:"silence_threshold"`
	SilenceDuration  time.Duration `mapstructure:"silence_duration"`
	Calibration      time.Duration `mapstructure:"calibration"`
	Duck             bool          `mapstructure:"duck"`
	DuckFactor       float64       `mapstructure:"duck_factor"`
	DuckFade         time.Duration `mapstructure:"duck_fade"`
	DuckFloor        int           `mapstructure:"duck_floor"`
	Chime            string        `mapstructure:"chime"`
	Notify           bool          `mapstructure:"notify"`
}

type STTConfig struct {
	Backend      string `mapstructure:"backend"` // whisper, openai
	Model        string `mapstructure:"model"`
	OpenAIModel  string `mapstructure:"openai_model"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	Language     string `mapstructure:"language"`
	Threads      int    `mapstructure:"threads"`
}

type TTSConfig struct {
	Backend string `mapstructure:"backend"` // espeak, console
	Voice   string `mapstructure:"voice"`
	Rate    int    `mapstructure:"rate"`
}

type DialogueConfig struct {
	ListenTimeout  time.Duration `mapstructure:"listen_timeout"`
	ComposeTimeout time.Duration `mapstructure:"compose_timeout"`
	PhraseLimit    time.Duration `mapstructure:"phrase_limit"`
	TurnPause      time.Duration `mapstructure:"turn_pause"`
}

type MediaConfig struct {
	YouTubeURL string `mapstructure:"youtube_url"`
	SearchURL  string `mapstructure:"search_url"`
}

type WikiConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Sentences int    `mapstructure:"sentences"`
}

type MessagingConfig struct {
	Transport        string        `mapstructure:"transport"` // web, bus, telegram
	WebURL           string        `mapstructure:"web_url"`
	SendDelay        time.Duration `mapstructure:"send_delay"`
	AppPath          string        `mapstructure:"app_path"`
	BusURL           string        `mapstructure:"bus_url"`
	BusFrom          string        `mapstructure:"bus_from"`
	TelegramToken    string        `mapstructure:"telegram_token"`
	TelegramEndpoint string        `mapstructure:"telegram_endpoint"`
}

type ContactsConfig struct {
	Path string `mapstructure:"path"`
}

type ProxyConfig struct {
	Socks   string        `mapstructure:"socks"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

func Default() *Config {
	return &Config{
		Listen: ListenConfig{
			Backend:          "mic",
			Socket:           "/tmp/voxa.sock",
			SilenceThreshold: 0.015,
			SilenceDuration:  600 * time.Millisecond,
			Calibration:      500 * time.Millisecond,
			Duck:             true,
			DuckFactor:       0.3,
			DuckFade:         150 * time.Millisecond,
			DuckFloor:        10,
			Notify:           true,
		},
		STT: STTConfig{
			Backend:     "whisper",
			Model:       "models/ggml-base.en.bin",
			OpenAIModel: "whisper-1",
			Language:    "en",
		},
		TTS: TTSConfig{
			Backend: "espeak",
			Voice:   "en",
			Rate:    165,
		},
		Dialogue: DialogueConfig{
			ListenTimeout:  10 * time.Second,
			ComposeTimeout: 5 * time.Second,
			PhraseLimit:    8 * time.Second,
			TurnPause:      time.Second,
		},
		Media: MediaConfig{
			YouTubeURL: "https://www.youtube.com",
			SearchURL:  "https://www.google.com/search?q=",
		},
		Wiki: WikiConfig{
			BaseURL:   "https://en.wikipedia.org",
			Sentences: 2,
		},
		Messaging: MessagingConfig{
			Transport: "web",
			WebURL:    "https://web.whatsapp.com",
			SendDelay: 10 * time.Second,
			BusFrom:   "voxa",
		},
		Contacts: ContactsConfig{
			Path: "contacts.yaml",
		},
		Proxy: ProxyConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads path, or voxa.yaml from the working directory and
// $HOME/.config/voxa when path is empty, then applies VOXA_* overrides.
// A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("VOXA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// secrets keep their conventional names
	_ = v.BindEnv("stt.openai_api_key", "VOXA_STT_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("messaging.telegram_token", "VOXA_MESSAGING_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("voxa")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/voxa")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Listen.Backend {
	case "mic", "socket":
	case "files":
		if c.Listen.Dir == "" {
			return errors.New("config: listen.dir is required for the files backend")
		}
	default:
		return fmt.Errorf("config: invalid listen.backend %q (mic, files or socket)", c.Listen.Backend)
	}

	if l := c.Listen; l.Duck && (l.DuckFactor <= 0 || l.DuckFactor > 1 || l.DuckFade < 0) {
		return errors.New("config: listen.duck_factor must be in (0, 1] and listen.duck_fade not negative")
	}

	if c.Listen.Backend != "socket" {
		switch c.STT.Backend {
		case "whisper":
			if c.STT.Model == "" {
				return errors.New("config: stt.model is required for the whisper backend")
			}
		case "openai":
			if c.STT.OpenAIAPIKey == "" {
				return errors.New("config: OPENAI_API_KEY is required for the openai backend")
			}
		default:
			return fmt.Errorf("config: invalid stt.backend %q (whisper or openai)", c.STT.Backend)
		}
	}

	switch c.TTS.Backend {
	case "espeak", "console":
	default:
		return fmt.Errorf("config: invalid tts.backend %q (espeak or console)", c.TTS.Backend)
	}

	switch c.Messaging.Transport {
	case "web":
	case "bus":
		if c.Messaging.BusURL == "" {
			return errors.New("config: messaging.bus_url is required for the bus transport")
		}
	case "telegram":
		if c.Messaging.TelegramToken == "" {
			return errors.New("config: TELEGRAM_BOT_TOKEN is required for the telegram transport")
		}
	default:
		return fmt.Errorf("config: invalid messaging.transport %q (web, bus or telegram)", c.Messaging.Transport)
	}

	d := c.Dialogue
	if d.ListenTimeout <= 0 || d.ComposeTimeout <= 0 || d.PhraseLimit <= 0 {
		return errors.New("config: dialogue timeouts must be positive")
	}
	if d.TurnPause < 0 || c.Messaging.SendDelay < 0 {
		return errors.New("config: dialogue.turn_pause and messaging.send_delay must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("listen.backend", d.Listen.Backend)
	v.SetDefault("listen.dir", d.Listen.Dir)
	v.SetDefault("listen.socket", d.Listen.Socket)
	v.SetDefault("listen.silence_threshold", d.Listen.SilenceThreshold)
	v.SetDefault("listen.silence_duration", d.Listen.SilenceDuration)
	v.SetDefault("listen.calibration", d.Listen.Calibration)
	v.SetDefault("listen.duck", d.Listen.Duck)
	v.SetDefault("listen.duck_factor", d.Listen.DuckFactor)
	v.SetDefault("listen.duck_fade", d.Listen.DuckFade)
	v.SetDefault("listen.duck_floor", d.Listen.DuckFloor)
	v.SetDefault("listen.chime", d.Listen.Chime)
	v.SetDefault("listen.notify", d.Listen.Notify)

	v.SetDefault("stt.backend", d.STT.Backend)
	v.SetDefault("stt.model", d.STT.Model)
	v.SetDefault("stt.openai_model", d.STT.OpenAIModel)
	v.SetDefault("stt.language", d.STT.Language)
	v.SetDefault("stt.threads", d.STT.Threads)

	v.SetDefault("tts.backend", d.TTS.Backend)
	v.SetDefault("tts.voice", d.TTS.Voice)
	v.SetDefault("tts.rate", d.TTS.Rate)

	v.SetDefault("dialogue.listen_timeout", d.Dialogue.ListenTimeout)
	v.SetDefault("dialogue.compose_timeout", d.Dialogue.ComposeTimeout)
	v.SetDefault("dialogue.phrase_limit", d.Dialogue.PhraseLimit)
	v.SetDefault("dialogue.turn_pause", d.Dialogue.TurnPause)

	v.SetDefault("media.youtube_url", d.Media.YouTubeURL)
	v.SetDefault("media.search_url", d.Media.SearchURL)

	v.SetDefault("wiki.base_url", d.Wiki.BaseURL)
	v.SetDefault("wiki.sentences", d.Wiki.Sentences)

	v.SetDefault("messaging.transport", d.Messaging.Transport)
	v.SetDefault("messaging.web_url", d.Messaging.WebURL)
	v.SetDefault("messaging.send_delay", d.Messaging.SendDelay)
	v.SetDefault("messaging.app_path", d.Messaging.AppPath)
	v.SetDefault("messaging.bus_url", d.Messaging.BusURL)
	v.SetDefault("messaging.bus_from", d.Messaging.BusFrom)
	v.SetDefault("messaging.telegram_endpoint", d.Messaging.TelegramEndpoint)

	v.SetDefault("contacts.path", d.Contacts.Path)

	v.SetDefault("proxy.socks", d.Proxy.Socks)
	v.SetDefault("proxy.timeout", d.Proxy.Timeout)

	v.SetDefault("metrics.addr", d.Metrics.Addr)
}
