package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	log "log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/openai/openai-go/v3/option"

	"voxa/internal/audio"
	"voxa/internal/config"
	"voxa/internal/contacts"
	"voxa/internal/dialogue"
	"voxa/internal/executor"
	"voxa/internal/ipc"
	"voxa/internal/jokes"
	"voxa/internal/listen"
	"voxa/internal/media"
	"voxa/internal/messaging"
	"voxa/internal/metrics"
	"voxa/internal/nlu"
	"voxa/internal/notify"
	"voxa/internal/proxy"
	"voxa/internal/tts"
	"voxa/internal/wiki"
	"voxa/pkg/stt"
)

// streams the ducker must leave alone
var selfStreams = []string{"espeak-ng", "espeak", "voxa"}

type app struct {
	session *dialogue.Session
	closers []func()
}

func (a *app) onClose(f func()) {
	a.closers = append(a.closers, f)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func build(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.close()
		return nil, err
	}

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				log.Error("Metrics server failed", "addr", cfg.Metrics.Addr, "err", err)
			}
		}()
	}

	httpClient, err := proxy.NewHTTPClient(cfg.Proxy.Socks, cfg.Proxy.Timeout)
	if err != nil {
		return fail(fmt.Errorf("proxy: %w", err))
	}
	log.Debug("Loaded http client", "proxy", cfg.Proxy.Socks)

	dir, err := loadContacts(cfg.Contacts.Path)
	if err != nil {
		return fail(err)
	}
	log.Debug("Loaded contacts", "count", dir.Len())

	listener, err := buildListener(cfg, httpClient, a)
	if err != nil {
		return fail(fmt.Errorf("listener: %w", err))
	}
	log.Debug("Loaded listener", "backend", cfg.Listen.Backend)

	speaker, err := buildSpeaker(cfg)
	if err != nil {
		return fail(fmt.Errorf("speaker: %w", err))
	}

	browser := media.NewBrowser(media.Exec)
	keys := media.NewKeyboard(media.Exec)

	desktop, err := media.NewDesktop(browser, media.NewYouTube(httpClient, cfg.Media.YouTubeURL), keys, cfg.Media.SearchURL)
	if err != nil {
		return fail(err)
	}

	messenger, err := buildMessenger(ctx, cfg, httpClient, browser, keys, a)
	if err != nil {
		return fail(fmt.Errorf("messaging: %w", err))
	}
	log.Debug("Loaded messaging", "transport", cfg.Messaging.Transport)

	exec, err := executor.New(executor.Deps{
		Media:        desktop,
		Encyclopedia: wiki.New(httpClient, cfg.Wiki.BaseURL),
		Messenger:    messenger,
		Launcher:     media.NewLauncher(),
		Jokes:        jokes.New(),
		Metrics:      m,
	}, executor.Config{
		MediaSiteURL:     cfg.Media.YouTubeURL,
		MessagingWebURL:  cfg.Messaging.WebURL,
		MessagingAppPath: messagingAppPath(cfg.Messaging.AppPath),
		SummarySentences: cfg.Wiki.Sentences,
		SendDelay:        cfg.Messaging.SendDelay,
	})
	if err != nil {
		return fail(err)
	}

	session, err := dialogue.New(dialogue.Deps{
		Listener:  listener,
		Speaker:   speaker,
		Router:    nlu.NewRouter(),
		Directory: dir,
		Executor:  exec,
		Metrics:   m,
	}, dialogue.Config{
		ListenTimeout:  cfg.Dialogue.ListenTimeout,
		ComposeTimeout: cfg.Dialogue.ComposeTimeout,
		PhraseLimit:    cfg.Dialogue.PhraseLimit,
		TurnPause:      cfg.Dialogue.TurnPause,
	})
	if err != nil {
		return fail(err)
	}

	a.session = session
	return a, nil
}

// loadContacts tolerates a missing file; composing then always ends with
// "contact not found".
func loadContacts(path string) (*contacts.Directory, error) {
	dir, err := contacts.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("Contacts file not found, starting with none", "path", path)
		return contacts.New(nil)
	}
	return dir, err
}

func buildListener(cfg *config.Config, httpClient *http.Client, a *app) (dialogue.Listener, error) {
	if cfg.Listen.Backend == "socket" {
		sock := listen.NewSocket(0)
		srv, err := ipc.StartServer(cfg.Listen.Socket, func(msg ipc.ControlMessage) {
			switch msg.Cmd {
			case ipc.CmdSay:
				if !sock.Push(msg.Text) {
					log.Warn("Dropped typed utterance, queue full", "text", msg.Text)
				}
			default:
				log.Warn("Unknown command", "cmd", msg.Cmd)
			}
		})
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = srv.Close() })
		log.Info("Waiting for typed utterances", "socket", cfg.Listen.Socket)
		return sock, nil
	}

	eng, err := buildEngine(cfg.STT, httpClient)
	if err != nil {
		return nil, err
	}
	a.onClose(func() { _ = eng.Close() })

	opt := stt.Options{Language: cfg.STT.Language, Threads: cfg.STT.Threads}

	if cfg.Listen.Backend == "files" {
		return listen.NewFiles(cfg.Listen.Dir, eng, opt)
	}

	rec := audio.NewRecorder(audio.RecorderConfig{
		SilenceThreshRMS: cfg.Listen.SilenceThreshold,
		SilenceDuration:  cfg.Listen.SilenceDuration,
		Calibration:      cfg.Listen.Calibration,
	})
	if err := rec.Init(); err != nil {
		return nil, fmt.Errorf("init audio: %w", err)
	}
	a.onClose(rec.Close)

	deps := listen.MicDeps{Recorder: rec, Engine: eng, Options: opt}
	if cfg.Listen.Duck {
		deps.Ducker = audio.NewDucker(audio.DuckConfig{
			Factor:    cfg.Listen.DuckFactor,
			Fade:      cfg.Listen.DuckFade,
			Floor:     cfg.Listen.DuckFloor,
			SelfNames: selfStreams,
		})
	}
	if cfg.Listen.Chime != "" {
		deps.Chime = notify.NewChime(cfg.Listen.Chime)
	}
	if cfg.Listen.Notify {
		deps.Notifier = notify.New(true)
	}
	return listen.NewMic(deps)
}

func buildEngine(cfg config.STTConfig, httpClient *http.Client) (stt.Engine, error) {
	switch cfg.Backend {
	case "openai":
		return stt.NewOpenAI(cfg.OpenAIModel,
			option.WithAPIKey(cfg.OpenAIAPIKey),
			option.WithHTTPClient(httpClient),
		), nil
	default:
		log.Debug("Loading whisper model", "path", cfg.Model)
		return stt.NewWhisper(cfg.Model)
	}
}

func buildSpeaker(cfg *config.Config) (dialogue.Speaker, error) {
	switch cfg.TTS.Backend {
	case "console":
		return tts.NewConsole(os.Stdout), nil
	case "espeak":
		return tts.NewEspeak(cfg.TTS.Voice, cfg.TTS.Rate), nil
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.TTS.Backend)
	}
}

func buildMessenger(ctx context.Context, cfg *config.Config, httpClient *http.Client, browser *media.Browser, keys *media.Keyboard, a *app) (executor.Messenger, error) {
	mc := cfg.Messaging
	switch mc.Transport {
	case "bus":
		bus, err := messaging.NewBus(ctx, mc.BusURL, mc.BusFrom)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = bus.Close() })
		return bus, nil
	case "telegram":
		return messaging.NewTelegram(mc.TelegramToken, httpClient, mc.TelegramEndpoint)
	default:
		return messaging.NewWeb(browser, keys, mc.WebURL, media.KeyEnter)
	}
}

// messagingAppPath falls back to the per-user WhatsApp Desktop install on
// Windows. Elsewhere an empty path makes the executor go straight to the
// web client.
func messagingAppPath(configured string) string {
	if configured != "" || runtime.GOOS != "windows" {
		return configured
	}
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		return ""
	}
	return filepath.Join(base, "WhatsApp", "WhatsApp.exe")
}
