package lexicon

import "strings"

// Gate rejects queries containing tokens absent from a Lexicon.
// It has no side effects: the verdict is a pure function of the input text
// and the static dictionary.
type Gate struct {
	lexicon *Lexicon
}

// NewGate creates a Gate over the given lexicon.
func NewGate(lexicon *Lexicon) *Gate {
	return &Gate{lexicon: lexicon}
}

// Accepts reports whether every token of text is a known word.
// Text with no tokens at all is rejected.
func (g *Gate) Accepts(text string) bool {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if !g.known(token) {
			return false
		}
	}
	return true
}

// Unknown returns the tokens of text that are not known words,
// in order of first appearance.
func (g *Gate) Unknown(text string) []string {
	var unknown []string
	seen := make(map[string]bool)
	for _, token := range tokenize(text) {
		if g.known(token) || seen[token] {
			continue
		}
		seen[token] = true
		unknown = append(unknown, token)
	}
	return unknown
}

// known accepts dictionary words and purely numeric tokens.
func (g *Gate) known(token string) bool {
	if isNumeric(token) {
		return true
	}
	return g.lexicon.Contains(token)
}

// tokenize splits text into words, lowercases, and trims surrounding punctuation.
func tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}

	return tokens
}

func isNumeric(token string) bool {
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(token) > 0
}
