// Package executor turns routed actions into collaborator calls.
//
// Collaborator failures never escape: they become an Outcome carrying a
// Fault with the apology to speak.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	log "log/slog"
	"time"

	"voxa/internal/metrics"
	"voxa/internal/nlu"
)

const (
	KeyPlayPause  = "space"
	KeyVolumeUp   = "volume_up"
	KeyVolumeDown = "volume_down"

	volumeSteps = 3
)

type Media interface {
	PlayByQuery(ctx context.Context, query string) error
	OpenSite(ctx context.Context, url string) error
	SendKey(ctx context.Context, key string) error
	WebSearch(ctx context.Context, query string) error
}

// Encyclopedia summarizes the article a topic resolves to and reports the
// title it resolved to.
type Encyclopedia interface {
	Summarize(ctx context.Context, topic string, sentences int) (title, summary string, err error)
	ArticleURL(title string) string
}

type Messenger interface {
	SendInstant(ctx context.Context, address, body string, delay time.Duration) error
}

// Launcher starts a local application. A missing application is reported
// with an error wrapping fs.ErrNotExist.
type Launcher interface {
	LaunchIfPresent(ctx context.Context, path string) error
}

type Joker interface {
	Joke() string
}

type Deps struct {
	Media        Media
	Encyclopedia Encyclopedia
	Messenger    Messenger
	Launcher     Launcher
	Jokes        Joker
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

type Config struct {
	MediaSiteURL     string
	MessagingWebURL  string
	MessagingAppPath string
	SummarySentences int
	SendDelay        time.Duration
}

func DefaultConfig() Config {
	return Config{
		MediaSiteURL:     "https://www.youtube.com",
		MessagingWebURL:  "https://web.whatsapp.com",
		SummarySentences: 2,
		SendDelay:        10 * time.Second,
	}
}

type Executor struct {
	media    Media
	wiki     Encyclopedia
	msg      Messenger
	launcher Launcher
	jokes    Joker
	metrics  *metrics.Metrics
	now      func() time.Time
	cfg      Config
}

func New(d Deps, cfg Config) (*Executor, error) {
	if d.Media == nil {
		return nil, errors.New("executor: media must not be nil")
	}
	if d.Encyclopedia == nil {
		return nil, errors.New("executor: encyclopedia must not be nil")
	}
	if d.Messenger == nil {
		return nil, errors.New("executor: messenger must not be nil")
	}
	if d.Launcher == nil {
		return nil, errors.New("executor: launcher must not be nil")
	}
	if d.Jokes == nil {
		return nil, errors.New("executor: jokes must not be nil")
	}

	def := DefaultConfig()
	if cfg.MediaSiteURL == "" {
		cfg.MediaSiteURL = def.MediaSiteURL
	}
	if cfg.MessagingWebURL == "" {
		cfg.MessagingWebURL = def.MessagingWebURL
	}
	if cfg.SummarySentences <= 0 {
		cfg.SummarySentences = def.SummarySentences
	}
	if cfg.SendDelay < 0 {
		cfg.SendDelay = 0
	}

	now := d.Now
	if now == nil {
		now = time.Now
	}

	return &Executor{
		media:    d.Media,
		wiki:     d.Encyclopedia,
		msg:      d.Messenger,
		launcher: d.Launcher,
		jokes:    d.Jokes,
		metrics:  d.Metrics,
		now:      now,
		cfg:      cfg,
	}, nil
}

// Announce returns what to say before a is carried out. Actions that only
// report their result announce nothing.
func (e *Executor) Announce(a nlu.Action) []string {
	switch a.Kind {
	case nlu.PlayMedia:
		return []string{fmt.Sprintf("Playing %s on YouTube.", a.Arg)}
	case nlu.LookupTopic:
		return []string{fmt.Sprintf("Searching Wikipedia for %s", a.Arg)}
	default:
		return nil
	}
}

func (e *Executor) Execute(ctx context.Context, a nlu.Action) Outcome {
	start := time.Now()
	out := e.execute(ctx, a)
	e.metrics.Action(a.Kind.String(), time.Since(start))

	if out.Fault != nil {
		log.Warn("Action failed", "action", a.String(), "kind", out.Fault.Kind, "err", out.Fault.Err)
	}
	return out
}

func (e *Executor) execute(ctx context.Context, a nlu.Action) Outcome {
	switch a.Kind {
	case nlu.Terminate:
		return say("Goodbye! Have a nice day.")

	case nlu.ReportTime:
		return say(fmt.Sprintf("The time is %s.", e.now().Format("03:04 PM")))

	case nlu.ReportDate:
		return say(fmt.Sprintf("Today is %s.", e.now().Format("Monday, January 02, 2006")))

	case nlu.ReportYear:
		return say(fmt.Sprintf("The current year is %d.", e.now().Year()))

	case nlu.PlayMedia:
		if err := e.media.PlayByQuery(ctx, a.Arg); err != nil {
			return fail("Sorry, I couldn't play that on YouTube.", err)
		}
		return Outcome{}

	case nlu.OpenMediaSite:
		if err := e.media.OpenSite(ctx, e.cfg.MediaSiteURL); err != nil {
			return fail("Sorry, I couldn't open YouTube.", err)
		}
		return say("Opening YouTube.")

	case nlu.OpenMessagingApp:
		return e.openMessagingApp(ctx)

	case nlu.MediaControl:
		return e.control(ctx, a.Op)

	case nlu.LookupTopic:
		return e.lookup(ctx, a.Arg)

	case nlu.TellJoke:
		return say(e.jokes.Joke())

	case nlu.GenericSearch:
		if err := e.media.WebSearch(ctx, a.Arg); err != nil {
			return fail("Sorry, I couldn't search for that.", err)
		}
		return say("I'm not sure about that. Let me search it for you.")

	default:
		// ComposeMessage is a dialogue of its own and never reaches here.
		log.Warn("Action not executable", "action", a.String())
		return Outcome{}
	}
}

// Send delivers a composed message to a resolved address.
func (e *Executor) Send(ctx context.Context, address, body string) Outcome {
	start := time.Now()
	defer func() { e.metrics.Action("send_message", time.Since(start)) }()

	if err := e.msg.SendInstant(ctx, address, body, e.cfg.SendDelay); err != nil {
		log.Warn("Message not sent", "err", err)
		return fail("Sorry, I could not send the message.", err)
	}
	return say("Message sent successfully.")
}

func (e *Executor) openMessagingApp(ctx context.Context) Outcome {
	lines := []string{"Opening WhatsApp."}

	if e.cfg.MessagingAppPath != "" {
		err := e.launcher.LaunchIfPresent(ctx, e.cfg.MessagingAppPath)
		switch {
		case err == nil:
			return say(append(lines, "WhatsApp Desktop opened.")...)
		case errors.Is(err, fs.ErrNotExist):
			lines = append(lines, "WhatsApp Desktop not found. Opening WhatsApp Web.")
		default:
			log.Warn("Desktop app launch failed", "path", e.cfg.MessagingAppPath, "err", err)
			lines = append(lines, "Unable to open WhatsApp Desktop. Opening WhatsApp Web.")
		}
	} else {
		lines = append(lines, "WhatsApp Desktop not found. Opening WhatsApp Web.")
	}

	if err := e.media.OpenSite(ctx, e.cfg.MessagingWebURL); err != nil {
		return fail("Sorry, I couldn't open WhatsApp.", err, lines...)
	}
	return say(lines...)
}

func (e *Executor) control(ctx context.Context, op nlu.MediaOp) Outcome {
	var (
		key   string
		times = 1
		done  string
	)

	switch op {
	case nlu.Pause:
		key, done = KeyPlayPause, "Video paused."
	case nlu.Resume:
		key, done = KeyPlayPause, "Video resumed."
	case nlu.VolumeUp:
		key, done, times = KeyVolumeUp, "Volume increased.", volumeSteps
	case nlu.VolumeDown:
		key, done, times = KeyVolumeDown, "Volume decreased.", volumeSteps
	default:
		return fail("Sorry, I can't do that with the video.", fmt.Errorf("unknown media op %d", int(op)))
	}

	for i := 0; i < times; i++ {
		if err := e.media.SendKey(ctx, key); err != nil {
			return fail("Sorry, I couldn't control the video.", fmt.Errorf("send key %s: %w", key, err))
		}
	}
	return say(done)
}

// lookup reads the summary first; the article page opens after it has
// been spoken.
func (e *Executor) lookup(ctx context.Context, topic string) Outcome {
	title, summary, err := e.wiki.Summarize(ctx, topic, e.cfg.SummarySentences)
	if err != nil {
		return fail("Sorry, I couldn't find that on Wikipedia.", err)
	}

	out := say("According to Wikipedia:", summary)
	out.Then = func(ctx context.Context) {
		if err := e.media.OpenSite(ctx, e.wiki.ArticleURL(title)); err != nil {
			log.Warn("Failed to open article", "topic", topic, "title", title, "err", err)
		}
	}
	return out
}
