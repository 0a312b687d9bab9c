package jokes

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	got := parse("# header\n\n  first joke  \nsecond joke\n")
	require.Equal(t, []string{"first joke", "second joke"}, got)
}

func TestNew_EmbeddedCatalogue(t *testing.T) {
	b := New()
	require.Greater(t, b.Len(), 5)

	j := b.Joke()
	require.NotEmpty(t, j)
	require.NotContains(t, j, "#")
}

func TestJoke_Deterministic(t *testing.T) {
	jokes := []string{"a", "b", "c"}
	b1 := newBook(jokes, rand.New(rand.NewPCG(1, 2)))
	b2 := newBook(jokes, rand.New(rand.NewPCG(1, 2)))

	for range 10 {
		j := b1.Joke()
		require.Contains(t, jokes, j)
		require.Equal(t, j, b2.Joke())
	}
}

func TestJoke_Empty(t *testing.T) {
	require.Equal(t, fallback, newBook(nil, rand.New(rand.NewPCG(1, 1))).Joke())
}
