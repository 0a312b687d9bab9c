package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/w/api.php", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "alan turing", q.Get("titles"))
		require.Equal(t, "2", q.Get("exsentences"))
		require.Equal(t, "extracts", q.Get("prop"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Alan Turing","extract":" Alan Turing was a mathematician. He founded computer science. "}]}}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL)
	title, got, err := c.Summarize(context.Background(), "alan turing", 2)
	require.NoError(t, err)
	require.Equal(t, "Alan Turing", title)
	require.Equal(t, "Alan Turing was a mathematician. He founded computer science.", got)
}

func TestSummarize_FallsBackToSearch(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "extracts", q.Get("prop"))
		require.Equal(t, "2", q.Get("exsentences"))

		switch {
		case q.Get("titles") != "":
			queries = append(queries, "titles="+q.Get("titles"))
			_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"The capital of france","missing":true}]}}`))
		case q.Get("generator") == "search":
			queries = append(queries, fmt.Sprintf("search=%s limit=%s", q.Get("gsrsearch"), q.Get("gsrlimit")))
			_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Paris","index":1,"extract":"Paris is the capital of France."}]}}`))
		default:
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL)
	title, got, err := c.Summarize(context.Background(), "the capital of france", 2)
	require.NoError(t, err)
	require.Equal(t, "Paris", title)
	require.Equal(t, "Paris is the capital of France.", got)
	require.Equal(t, []string{"titles=the capital of france", "search=the capital of france limit=1"}, queries)
	require.Equal(t, srv.URL+"/wiki/Paris", c.ArticleURL(title))
}

func TestSummarize_SearchFindsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("generator") == "search" {
			_, _ = w.Write([]byte(`{"batchcomplete":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Qwzx","missing":true}]}}`))
	}))
	defer srv.Close()

	_, _, err := New(srv.Client(), srv.URL).Summarize(context.Background(), "qwzx", 2)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorContains(t, err, `"qwzx"`)
}

func TestSummarize_Missing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Qwzx","missing":true}]}}`))
	}))
	defer srv.Close()

	_, _, err := New(srv.Client(), srv.URL).Summarize(context.Background(), "qwzx", 2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSummarize_EmptyTopic(t *testing.T) {
	_, _, err := New(nil, "").Summarize(context.Background(), "  ", 2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSummarize_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := New(srv.Client(), srv.URL).Summarize(context.Background(), "go", 2)
	require.ErrorContains(t, err, "502")
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestArticleURL(t *testing.T) {
	c := New(nil, "")
	require.Equal(t, "https://en.wikipedia.org/wiki/Alan_Turing", c.ArticleURL("Alan Turing"))
	require.Equal(t, "https://en.wikipedia.org/wiki/Black_holes", c.ArticleURL(" black  holes "))
}
