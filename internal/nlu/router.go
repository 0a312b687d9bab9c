package nlu

import (
	log "log/slog"
	"slices"
	"strings"
	"unicode"
)

// Rule pairs a predicate over the normalized utterance with the builder of
// the action it yields.
type Rule struct {
	Name    string
	Match   func(text string) bool
	Extract func(text string) Action
}

// Router classifies utterances by evaluating its rules in order.
// The first matching rule wins; no match yields GenericSearch.
type Router struct {
	rules []Rule
}

func NewRouter() *Router {
	return &Router{rules: defaultRules()}
}

// Rules returns a copy of the rule table in evaluation order.
func (r *Router) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Route is a pure function of text, which must already be normalized.
func (r *Router) Route(text string) Action {
	for _, rule := range r.rules {
		if rule.Match(text) {
			a := rule.Extract(text)
			log.Debug("Routed", "rule", rule.Name, "action", a.String())
			return a
		}
	}

	return Action{Kind: GenericSearch, Arg: text}
}

// Punctuation is the sentence punctuation transcribers attach to words.
const Punctuation = ".,!?;:"

// Normalize lower-cases a raw transcription, collapses its whitespace and
// drops sentence punctuation around words. Apostrophes and in-word dots
// ("what's", "3.5") survive.
func Normalize(raw string) string {
	fields := strings.Fields(strings.ToLower(raw))
	words := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, Punctuation); f != "" {
			words = append(words, f)
		}
	}
	return strings.Join(words, " ")
}

func defaultRules() []Rule {
	return []Rule{
		{"terminate", containsAny("stop", "exit", "bye"), fixed(Terminate)},
		{"time", containsWord("time", "times"), fixed(ReportTime)},
		{"date", containsWord("date", "dates"), fixed(ReportDate)},
		{"year", containsWord("year", "years"), fixed(ReportYear)},
		{"play_on_youtube", containsAll("play", "youtube"), stripped(PlayMedia, "play", "on youtube")},
		{"play", hasPrefix("play "), stripped(PlayMedia, "play")},
		{"open_youtube", containsAny("open youtube"), fixed(OpenMediaSite)},
		{"open_whatsapp", containsAny("open whatsapp"), fixed(OpenMessagingApp)},
		{"compose", containsAny("send message", "whatsapp message"), fixed(ComposeMessage)},
		{"pause", containsAny("pause", "stop video"), media(Pause)},
		{"resume", containsAny("resume", "play video"), media(Resume)},
		{"volume_up", containsAny("volume up"), media(VolumeUp)},
		{"volume_down", containsAny("volume down"), media(VolumeDown)},
		{"lookup", containsAny("wikipedia", "who is", "what is"), stripped(LookupTopic, "wikipedia", "who is", "what is")},
		{"joke", containsAny("joke"), fixed(TellJoke)},
	}
}

func containsAny(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

// containsWord matches any of forms as a whole word, so "timer" or
// "update" do not trigger the calendar rules.
func containsWord(forms ...string) func(string) bool {
	return func(text string) bool {
		words := strings.FieldsFunc(text, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, word := range words {
			if slices.Contains(forms, word) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if !strings.Contains(text, s) {
				return false
			}
		}
		return true
	}
}

func hasPrefix(p string) func(string) bool {
	return func(text string) bool {
		return strings.HasPrefix(text, p)
	}
}

func fixed(k Kind) func(string) Action {
	return func(string) Action {
		return Action{Kind: k}
	}
}

func media(op MediaOp) func(string) Action {
	return func(string) Action {
		return Action{Kind: MediaControl, Op: op}
	}
}

func stripped(k Kind, phrases ...string) func(string) Action {
	return func(text string) Action {
		return Action{Kind: k, Arg: strip(text, phrases...)}
	}
}

// strip removes every phrase until none is left, so removals that splice
// a new occurrence together are removed as well.
func strip(text string, phrases ...string) string {
	for {
		prev := text
		for _, p := range phrases {
			text = strings.ReplaceAll(text, p, "")
		}
		if text == prev {
			return strings.TrimSpace(text)
		}
	}
}
