package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

static int
voxa_say(const char *text, const char *lang, int rate)
{
	if (!text || !lang)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	espeak_VOICE specs = { .languages = lang };
	espeak_SetVoiceByProperties(&specs);
	if (rate > 0)
	{ espeak_SetParameter(espeakRATE, rate, 0); }

	espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

// Espeak speaks through libespeak-ng and blocks until playback ends.
type Espeak struct {
	Voice string // language tag, "en" by default
	Rate  int    // words per minute, <=0 keeps the engine default

	mu sync.Mutex
}

func NewEspeak(voice string, rate int) *Espeak {
	if voice == "" {
		voice = "en"
	}
	return &Espeak{Voice: voice, Rate: rate}
}

func (e *Espeak) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// libespeak-ng keeps global state
	e.mu.Lock()
	defer e.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	clang := C.CString(e.Voice)
	defer C.free(unsafe.Pointer(clang))

	if rc := C.voxa_say(ctext, clang, C.int(e.Rate)); rc != 0 {
		return fmt.Errorf("espeak: say failed: %d", int(rc))
	}
	return nil
}
