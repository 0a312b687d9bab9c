package proxy

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Direct(t *testing.T) {
	c, err := NewHTTPClient("", 5*time.Second)
	require.NoError(t, err)
	require.Nil(t, c.Transport)
	require.Equal(t, 5*time.Second, c.Timeout)
}

func TestNewHTTPClient_Socks(t *testing.T) {
	c, err := NewHTTPClient("127.0.0.1:1080", time.Minute)
	require.NoError(t, err)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.DialContext)
	require.Equal(t, time.Minute, c.Timeout)
}
