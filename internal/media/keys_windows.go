//go:build windows

package media

import (
	"fmt"
	"syscall"
	"unsafe"
)

var (
	user32        = syscall.NewLazyDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard  = 1
	keyEventFKeyUp = 0x0002

	vkReturn     = 0x0D
	vkSpace      = 0x20
	vkVolumeDown = 0xAE
	vkVolumeUp   = 0xAF
)

var virtualKeys = map[string]uint16{
	KeyPlayPause:  vkSpace,
	KeyVolumeUp:   vkVolumeUp,
	KeyVolumeDown: vkVolumeDown,
	KeyEnter:      vkReturn,
}

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// input mirrors INPUT; padding covers the larger MOUSEINPUT arm of the union.
type input struct {
	inputType uint32
	ki        keyboardInput
	padding   uint64
}

var injectKey = sendKey

// keyCommand is never reached on Windows, where injectKey is set.
func keyCommand(string) (string, []string, error) {
	return "", nil, ErrUnsupported
}

func keyInputs(key string) ([]input, error) {
	vk, ok := virtualKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", key)
	}
	return []input{
		{inputType: inputKeyboard, ki: keyboardInput{wVk: vk}},
		{inputType: inputKeyboard, ki: keyboardInput{wVk: vk, dwFlags: keyEventFKeyUp}},
	}, nil
}

// sendKey presses and releases key through user32!SendInput.
func sendKey(key string) error {
	inputs, err := keyInputs(key)
	if err != nil {
		return err
	}

	n, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		uintptr(unsafe.Sizeof(inputs[0])),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput: %d of %d events injected: %w", n, len(inputs), callErr)
	}
	return nil
}
