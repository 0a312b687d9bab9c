// Package jokes serves one-liners from an embedded catalogue.
package jokes

import (
	_ "embed"
	"math/rand/v2"
	"strings"
	"sync"
)

//go:embed jokes.txt
var catalogue string

const fallback = "I'm out of jokes for now."

type Book struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	jokes []string
}

// New returns a book over the embedded catalogue.
func New() *Book {
	return newBook(parse(catalogue), rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

func newBook(jokes []string, rnd *rand.Rand) *Book {
	return &Book{rnd: rnd, jokes: jokes}
}

func (b *Book) Len() int {
	return len(b.jokes)
}

func (b *Book) Joke() string {
	if len(b.jokes) == 0 {
		return fallback
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.jokes[b.rnd.IntN(len(b.jokes))]
}

func parse(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
