package audio

import (
	"bufio"
	"context"
	"fmt"
	log "log/slog"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxVolume is the loudest level pactl is asked to set, in percent.
const maxVolume = 150

// DuckConfig says how far and how fast other applications are turned down
// while the assistant listens.
type DuckConfig struct {
	Factor    float64       // foreign streams drop to volume*Factor
	Fade      time.Duration // ramp length, both ways
	Floor     int           // percent a stream is never ducked below
	SelfNames []string      // application.name values left alone
}

type sinkInput struct {
	ID     int
	Volume int
	App    string
}

// mixer is the slice of PulseAudio the Ducker needs.
type mixer interface {
	sinkInputs(ctx context.Context) ([]sinkInput, error)
	setVolume(ctx context.Context, id, percent int) error
}

type ramp struct {
	id       int
	from, to int
}

// Ducker fades other applications' sink inputs down while the microphone
// is open, so a playing video does not drown the user, and restores them
// afterwards.
type Ducker struct {
	cfg DuckConfig
	mix mixer

	mu    sync.Mutex
	saved map[int]int // volume before ducking; nil while nothing is ducked
}

func NewDucker(cfg DuckConfig) *Ducker {
	if cfg.Factor <= 0 || cfg.Factor > 1 {
		cfg.Factor = 0.3
	}
	cfg.Floor = min(max(cfg.Floor, 0), maxVolume)
	cfg.Fade = max(cfg.Fade, 0)
	cfg.SelfNames = append([]string(nil), cfg.SelfNames...)

	return &Ducker{cfg: cfg, mix: pactl{}}
}

// Duck lowers every foreign stream. With nothing foreign playing it
// changes nothing and leaves no state for Restore to undo.
func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.saved != nil {
		return nil
	}

	inputs, err := d.mix.sinkInputs(ctx)
	if err != nil {
		return err
	}

	saved := make(map[int]int)
	var ramps []ramp
	for _, in := range inputs {
		if d.isSelf(in) {
			continue
		}
		to := d.lowered(in.Volume)
		if to >= in.Volume {
			continue
		}
		saved[in.ID] = in.Volume
		ramps = append(ramps, ramp{id: in.ID, from: in.Volume, to: to})
	}
	if len(ramps) == 0 {
		return nil
	}

	log.Debug("Ducking", "streams", len(ramps), "factor", d.cfg.Factor)
	d.saved = saved
	return d.fade(ctx, ramps)
}

// Restore brings ducked streams back to their saved volume. Streams that
// appeared or vanished in between are ignored.
func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	saved := d.saved
	if saved == nil {
		return nil
	}
	d.saved = nil

	inputs, err := d.mix.sinkInputs(ctx)
	if err != nil {
		return err
	}

	var ramps []ramp
	for _, in := range inputs {
		if orig, ok := saved[in.ID]; ok {
			ramps = append(ramps, ramp{id: in.ID, from: in.Volume, to: orig})
		}
	}
	return d.fade(ctx, ramps)
}

func (d *Ducker) isSelf(in sinkInput) bool {
	for _, name := range d.cfg.SelfNames {
		if in.App == name {
			return true
		}
	}
	return false
}

func (d *Ducker) lowered(volume int) int {
	to := int(math.Round(float64(volume) * d.cfg.Factor))
	return min(max(to, d.cfg.Floor), maxVolume)
}

// fade steps every ramp linearly, one step per 10ms of Fade.
func (d *Ducker) fade(ctx context.Context, ramps []ramp) error {
	if len(ramps) == 0 {
		return nil
	}

	steps := max(int(d.cfg.Fade/(10*time.Millisecond)), 1)
	tick := d.cfg.Fade / time.Duration(steps)

	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		for _, r := range ramps {
			v := r.from + int(math.Round(float64(r.to-r.from)*frac))
			if err := d.mix.setVolume(ctx, r.id, v); err != nil {
				return fmt.Errorf("set sink input %d: %w", r.id, err)
			}
		}
		if i == steps || tick <= 0 {
			continue
		}

		t := time.NewTimer(tick)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// pactl drives PulseAudio (or PipeWire's pulse shim) through its CLI.
type pactl struct{}

func (pactl) sinkInputs(ctx context.Context) ([]sinkInput, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return parseSinkInputs(string(out)), nil
}

func (pactl) setVolume(ctx context.Context, id, percent int) error {
	percent = min(max(percent, 0), maxVolume)
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume",
		strconv.Itoa(id), strconv.Itoa(percent)+"%").Run()
}

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

// parseSinkInputs reads `pactl list sink-inputs`. Only the first channel's
// volume is used; blocks with neither volume nor name are dropped.
func parseSinkInputs(text string) []sinkInput {
	var (
		out []sinkInput
		cur *sinkInput
	)
	flush := func() {
		if cur != nil && (cur.Volume > 0 || cur.App != "") {
			out = append(out, *cur)
		}
		cur = nil
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "Sink Input #"):
			flush()
			if id, err := strconv.Atoi(strings.TrimPrefix(line, "Sink Input #")); err == nil {
				cur = &sinkInput{ID: id}
			}
		case cur == nil:
		case strings.HasPrefix(line, "Volume:") && cur.Volume == 0:
			if m := percentRe.FindStringSubmatch(line); m != nil {
				cur.Volume, _ = strconv.Atoi(m[1])
			}
		case strings.HasPrefix(line, "application.name = "):
			cur.App = strings.Trim(strings.TrimPrefix(line, "application.name = "), `"`)
		}
	}
	flush()
	return out
}
