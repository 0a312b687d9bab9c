package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_TranscribePCM(t *testing.T) {
	var (
		gotPath  string
		gotModel string
		gotLang  string
		gotAudio []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotAudio, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"What is the time"}`)
	}))
	defer srv.Close()

	eng := NewOpenAI("", option.WithBaseURL(srv.URL+"/"), option.WithAPIKey("test"), option.WithMaxRetries(0))

	res, err := eng.TranscribePCM(context.Background(), make([]float32, 1600), Options{Language: "en"})
	require.NoError(t, err)
	require.Equal(t, "What is the time", res.Text)
	require.True(t, strings.HasSuffix(gotPath, "/audio/transcriptions"), gotPath)
	require.Equal(t, "whisper-1", gotModel)
	require.Equal(t, "en", gotLang)
	require.Equal(t, "RIFF", string(gotAudio[:4]))
}

func TestOpenAI_AutoLanguageOmitted(t *testing.T) {
	var gotLang = "unset"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotLang = r.FormValue("language")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"hi"}`)
	}))
	defer srv.Close()

	eng := NewOpenAI("whisper-1", option.WithBaseURL(srv.URL+"/"), option.WithAPIKey("test"), option.WithMaxRetries(0))
	_, err := eng.TranscribePCM(context.Background(), make([]float32, 160), Options{Language: "auto"})
	require.NoError(t, err)
	require.Empty(t, gotLang)
}

func TestOpenAI_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	eng := NewOpenAI("", option.WithBaseURL(srv.URL+"/"), option.WithAPIKey("test"), option.WithMaxRetries(0))
	_, err := eng.TranscribePCM(context.Background(), make([]float32, 160), Options{})
	require.ErrorContains(t, err, "transcribe")
}

func TestOpenAI_EmptyAudio(t *testing.T) {
	eng := NewOpenAI("")
	_, err := eng.TranscribePCM(context.Background(), nil, Options{})
	require.ErrorIs(t, err, ErrNoAudio)
}
