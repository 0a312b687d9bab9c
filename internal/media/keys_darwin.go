package media

import "fmt"

var appleScripts = map[string]string{
	KeyPlayPause:  `tell application "System Events" to key code 49`,
	KeyEnter:      `tell application "System Events" to key code 36`,
	KeyVolumeUp:   `set volume output volume ((output volume of (get volume settings)) + 6)`,
	KeyVolumeDown: `set volume output volume ((output volume of (get volume settings)) - 6)`,
}

func keyCommand(key string) (string, []string, error) {
	script, ok := appleScripts[key]
	if !ok {
		return "", nil, fmt.Errorf("unknown key %q", key)
	}
	return "osascript", []string{"-e", script}, nil
}
