package executor

import (
	"context"
	"fmt"
)

type FaultKind string

const (
	FaultNoSpeech        FaultKind = "no_speech"
	FaultContactNotFound FaultKind = "contact_not_found"
	FaultCollaborator    FaultKind = "collaborator"
	FaultEmptyInput      FaultKind = "empty_input"
)

// Fault is a recovered failure together with the apology the user hears.
type Fault struct {
	Kind    FaultKind
	Apology string
	Err     error
}

func (f *Fault) Error() string {
	if f == nil {
		return ""
	}
	if f.Err == nil {
		return fmt.Sprintf("executor: %s (%s)", f.Kind, f.Apology)
	}
	return fmt.Sprintf("executor: %s (%s): %v", f.Kind, f.Apology, f.Err)
}

func (f *Fault) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

func NewFault(kind FaultKind, apology string, err error) *Fault {
	return &Fault{Kind: kind, Apology: apology, Err: err}
}

// Outcome is what an action produced: lines to speak, or a fault whose
// apology is spoken after any lines.
type Outcome struct {
	Say   []string
	Fault *Fault

	// Then, when set, runs once the lines have been spoken.
	Then func(ctx context.Context)
}

func (o Outcome) Lines() []string {
	lines := append([]string(nil), o.Say...)
	if o.Fault != nil && o.Fault.Apology != "" {
		lines = append(lines, o.Fault.Apology)
	}
	return lines
}

func say(lines ...string) Outcome {
	return Outcome{Say: lines}
}

func fail(apology string, err error, lines ...string) Outcome {
	return Outcome{Say: lines, Fault: NewFault(FaultCollaborator, apology, err)}
}
