//go:build windows

package media

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestKeyInputs(t *testing.T) {
	cases := map[string]uint16{
		KeyPlayPause:  0x20,
		KeyVolumeUp:   0xAF,
		KeyVolumeDown: 0xAE,
		KeyEnter:      0x0D,
	}

	for key, vk := range cases {
		in, err := keyInputs(key)
		require.NoError(t, err, key)
		require.Len(t, in, 2)
		require.Equal(t, vk, in[0].ki.wVk)
		require.Zero(t, in[0].ki.dwFlags)
		require.Equal(t, vk, in[1].ki.wVk)
		require.Equal(t, uint32(keyEventFKeyUp), in[1].ki.dwFlags)
	}

	_, err := keyInputs("escape")
	require.Error(t, err)
}

func TestInputMatchesWin32Layout(t *testing.T) {
	want := uintptr(28)
	if unsafe.Sizeof(uintptr(0)) == 8 {
		want = 40
	}
	require.Equal(t, want, unsafe.Sizeof(input{}))
}

func TestNewKeyboard_InjectsInProcess(t *testing.T) {
	require.NotNil(t, NewKeyboard(nil).inject)
}
