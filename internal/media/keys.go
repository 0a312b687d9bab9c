package media

import (
	"context"
	"fmt"
)

// Key names understood by Keyboard.
const (
	KeyPlayPause  = "space"
	KeyVolumeUp   = "volume_up"
	KeyVolumeDown = "volume_down"
	KeyEnter      = "enter"
)

// Keyboard injects key presses into the focused window, in-process where
// the platform has an input API and through an external tool elsewhere.
type Keyboard struct {
	run    Runner
	inject func(key string) error
}

func NewKeyboard(run Runner) *Keyboard {
	if run == nil {
		run = Exec
	}
	return &Keyboard{run: run, inject: injectKey}
}

func (k *Keyboard) Press(ctx context.Context, key string) error {
	if k.inject != nil {
		if err := k.inject(key); err != nil {
			return fmt.Errorf("press %s: %w", key, err)
		}
		return nil
	}

	name, args, err := keyCommand(key)
	if err != nil {
		return err
	}
	if err := k.run(ctx, name, args...); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}
