package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyCommand_X11(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")

	name, args, err := keyCommand(KeyVolumeUp)
	require.NoError(t, err)
	require.Equal(t, "xdotool", name)
	require.Equal(t, []string{"key", "XF86AudioRaiseVolume"}, args)

	_, args, err = keyCommand(KeyPlayPause)
	require.NoError(t, err)
	require.Equal(t, []string{"key", "space"}, args)
}
