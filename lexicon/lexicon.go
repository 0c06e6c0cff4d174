package lexicon

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// DefaultWordlistPath is where most systems keep an English wordlist.
const DefaultWordlistPath = "/usr/share/dict/words"

// Lexicon is an in-memory set of known words.
//
// A Lexicon is built once (Load/Add) and read-only afterwards; concurrent
// reads are safe, concurrent mutation is not.
type Lexicon struct {
	words map[string]struct{}
}

// New creates an empty Lexicon.
func New() *Lexicon {
	return &Lexicon{words: make(map[string]struct{})}
}

// Open builds a Lexicon from a newline-delimited wordlist file.
func Open(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l := New()
	if err := l.Load(f); err != nil {
		return nil, err
	}
	return l, nil
}

// Load adds words from a newline-delimited reader.
// Words are lowercased; blank lines and lines starting with '#' are skipped.
func (l *Lexicon) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		l.words[strings.ToLower(word)] = struct{}{}
	}
	return scanner.Err()
}

// Add inserts words into the lexicon.
func (l *Lexicon) Add(words ...string) {
	for _, word := range words {
		l.words[strings.ToLower(word)] = struct{}{}
	}
}

// Contains reports whether the word is known. Lookup is case-insensitive.
func (l *Lexicon) Contains(word string) bool {
	_, ok := l.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of known words.
func (l *Lexicon) Len() int {
	return len(l.words)
}
