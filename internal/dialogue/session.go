// Package dialogue runs the spoken conversation: greet, then listen, route,
// act and prompt again until the user says goodbye.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"voxa/internal/executor"
	"voxa/internal/metrics"
	"voxa/internal/nlu"
)

const (
	promptNextTask  = "What is the next task?"
	promptRecipient = "Who do you want to send the message to?"
	apologyNoSpeech = "Sorry, I didn't catch that. Please say it again."
)

// Listener returns one transcribed utterance, or an error when nothing
// intelligible was heard within timeout.
type Listener interface {
	Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error)
}

// Speaker blocks until the text has been spoken.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type Router interface {
	Route(text string) nlu.Action
}

type Directory interface {
	Resolve(name string) (string, error)
}

// Executor carries out actions. Announce gives the lines spoken before
// Execute runs.
type Executor interface {
	Announce(a nlu.Action) []string
	Execute(ctx context.Context, a nlu.Action) executor.Outcome
	Send(ctx context.Context, address, body string) executor.Outcome
}

type Deps struct {
	Listener  Listener
	Speaker   Speaker
	Router    Router
	Directory Directory
	Executor  Executor
	Metrics   *metrics.Metrics
	Now       func() time.Time

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

type Config struct {
	ListenTimeout  time.Duration
	ComposeTimeout time.Duration
	PhraseLimit    time.Duration
	TurnPause      time.Duration
}

func DefaultConfig() Config {
	return Config{
		ListenTimeout:  10 * time.Second,
		ComposeTimeout: 5 * time.Second,
		PhraseLimit:    8 * time.Second,
		TurnPause:      time.Second,
	}
}

type Session struct {
	listener  Listener
	speaker   Speaker
	router    Router
	directory Directory
	executor  Executor
	metrics   *metrics.Metrics
	now       func() time.Time
	observe   func(from, to State)

	cfg   Config
	state State
}

func New(d Deps, cfg Config) (*Session, error) {
	if d.Listener == nil {
		return nil, errors.New("dialogue: listener must not be nil")
	}
	if d.Speaker == nil {
		return nil, errors.New("dialogue: speaker must not be nil")
	}
	if d.Router == nil {
		return nil, errors.New("dialogue: router must not be nil")
	}
	if d.Directory == nil {
		return nil, errors.New("dialogue: directory must not be nil")
	}
	if d.Executor == nil {
		return nil, errors.New("dialogue: executor must not be nil")
	}

	def := DefaultConfig()
	if cfg.ListenTimeout <= 0 {
		cfg.ListenTimeout = def.ListenTimeout
	}
	if cfg.ComposeTimeout <= 0 {
		cfg.ComposeTimeout = def.ComposeTimeout
	}
	if cfg.PhraseLimit <= 0 {
		cfg.PhraseLimit = def.PhraseLimit
	}
	if cfg.TurnPause < 0 {
		cfg.TurnPause = 0
	}

	now := d.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		listener:  d.Listener,
		speaker:   d.Speaker,
		router:    d.Router,
		directory: d.Directory,
		executor:  d.Executor,
		metrics:   d.Metrics,
		now:       now,
		observe:   d.OnTransition,
		cfg:       cfg,
		state:     Greeting,
	}, nil
}

func (s *Session) State() State {
	return s.state
}

// Run drives the conversation until a Terminate action. It returns nil
// then, and ctx.Err() if the context ends first. Faults never end it.
func (s *Session) Run(ctx context.Context) error {
	s.speak(ctx, welcome(s.now()))
	s.enter(AwaitingUtterance)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		turn := s.listen(ctx, s.cfg.ListenTimeout)
		lg := log.With("turn", turn.ID)

		if !turn.Heard {
			if err := ctx.Err(); err != nil {
				return err
			}
			lg.Info("Nothing heard")
			s.metrics.Turn("no_speech")
			s.report(ctx, executor.Outcome{
				Fault: executor.NewFault(executor.FaultNoSpeech, apologyNoSpeech, nil),
			})
			s.pause(ctx)
			continue
		}

		s.enter(Dispatching)
		action := s.router.Route(turn.Normalized)
		lg.Info("Dispatching", "heard", turn.Normalized, "action", action.String())
		s.metrics.Turn("dispatched")

		if action.Kind == nlu.ComposeMessage {
			s.report(ctx, s.compose(ctx))
			s.enter(Dispatching)
		} else {
			s.report(ctx, executor.Outcome{Say: s.executor.Announce(action)})
			s.report(ctx, s.executor.Execute(ctx, action))
		}

		if action.Kind == nlu.Terminate {
			s.enter(Terminated)
			return nil
		}

		s.speak(ctx, promptNextTask)
		s.enter(AwaitingUtterance)
		s.pause(ctx)
	}
}

// compose collects a recipient and a body, then hands them to the
// executor. Any missing piece aborts with an apology.
func (s *Session) compose(ctx context.Context) executor.Outcome {
	s.enter(ComposeRecipient)
	s.speak(ctx, promptRecipient)

	recipient := s.listen(ctx, s.cfg.ComposeTimeout)
	if !recipient.Heard {
		return executor.Outcome{
			Fault: executor.NewFault(executor.FaultEmptyInput, "No contact detected.", nil),
		}
	}

	name := recipient.Normalized
	address, err := s.directory.Resolve(name)
	if err != nil {
		return executor.Outcome{
			Fault: executor.NewFault(executor.FaultContactNotFound, "Sorry, I couldn't find that contact.", err),
		}
	}

	s.enter(ComposeMessageBody)
	s.speak(ctx, fmt.Sprintf("What message should I send to %s?", name))

	body := s.listen(ctx, s.cfg.ComposeTimeout)
	if !body.Heard {
		return executor.Outcome{
			Fault: executor.NewFault(executor.FaultEmptyInput, "No message detected.", nil),
		}
	}

	s.speak(ctx, fmt.Sprintf("Sending message to %s.", name))
	// The body keeps the speaker's casing; only routing needs lower case.
	return s.executor.Send(ctx, address, strings.TrimSpace(body.Raw))
}

func (s *Session) listen(ctx context.Context, timeout time.Duration) Turn {
	turn := Turn{ID: uuid.NewString()}

	raw, err := s.listener.Listen(ctx, timeout, s.cfg.PhraseLimit)
	if err != nil {
		log.Debug("Listen returned nothing", "turn", turn.ID, "err", err)
		return turn
	}

	turn.Raw = raw
	turn.Normalized = nlu.Normalize(raw)
	turn.Heard = turn.Normalized != ""
	return turn
}

// report is the one place where outcomes, faults included, become speech.
func (s *Session) report(ctx context.Context, out executor.Outcome) {
	if f := out.Fault; f != nil {
		s.metrics.Fault(string(f.Kind))
		log.Info("Recovered", "fault", f.Kind, "err", f.Err)
	}

	for _, line := range out.Lines() {
		s.speak(ctx, line)
	}
	if out.Then != nil {
		out.Then(ctx)
	}
}

func (s *Session) speak(ctx context.Context, text string) {
	log.Info("Assistant", "say", text)
	if err := s.speaker.Speak(ctx, text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}

func (s *Session) enter(next State) {
	prev := s.state
	s.state = next
	if prev != next {
		log.Debug("State", "from", prev.String(), "to", next.String())
	}
	if s.observe != nil {
		s.observe(prev, next)
	}
}

func (s *Session) pause(ctx context.Context) {
	if s.cfg.TurnPause <= 0 {
		return
	}

	t := time.NewTimer(s.cfg.TurnPause)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func welcome(t time.Time) string {
	var greet string

	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		greet = "Good morning"
	case h >= 12 && h < 17:
		greet = "Good afternoon"
	default:
		greet = "Good evening"
	}

	return greet + "! I am your voice assistant. I am listening continuously. How can I help you today?"
}
