// Package notify gives the user audible and desktop cues around listening.
package notify

import (
	"github.com/gen2brain/beeep"
)

const appName = "voxa"

// Notifier shows desktop notifications. Failures are ignored; a missing
// notification daemon must never stall the dialogue.
type Notifier struct {
	enabled bool
	send    func(title, message, icon string) error
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, send: beeep.Notify}
}

func (n *Notifier) Listening() {
	n.notify("Listening", "Speak now")
}

func (n *Notifier) Heard(text string) {
	n.notify("Heard", truncate(text, 100))
}

func (n *Notifier) notify(title, message string) {
	if n == nil || !n.enabled {
		return
	}
	_ = n.send(appName+": "+title, message, "")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
