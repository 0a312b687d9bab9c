package media

import (
	"fmt"
	"os"
	"os/exec"
)

var x11Keys = map[string]string{
	KeyPlayPause:  "space",
	KeyVolumeUp:   "XF86AudioRaiseVolume",
	KeyVolumeDown: "XF86AudioLowerVolume",
	KeyEnter:      "Return",
}

// keyCommand prefers wtype under Wayland and xdotool otherwise.
func keyCommand(key string) (string, []string, error) {
	sym, ok := x11Keys[key]
	if !ok {
		return "", nil, fmt.Errorf("unknown key %q", key)
	}

	if os.Getenv("WAYLAND_DISPLAY") != "" {
		if _, err := exec.LookPath("wtype"); err == nil {
			return "wtype", []string{"-k", sym}, nil
		}
	}
	return "xdotool", []string{"key", sym}, nil
}
