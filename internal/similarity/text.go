// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"strings"
	"unicode"

	"github.com/pdiddy/coursematch/pkg/types"
)

// ProgramDocument returns the text indexed for p: lower-cased skill names,
// career-outcome titles, program name and description, joined by spaces.
func ProgramDocument(p types.Program) string {
	parts := make([]string, 0, len(p.Skills)+len(p.Outcomes)+2)
	for _, s := range p.Skills {
		parts = append(parts, strings.ToLower(s.Name))
	}
	for _, o := range p.Outcomes {
		parts = append(parts, strings.ToLower(o.Title))
	}
	parts = append(parts, strings.ToLower(p.Name), strings.ToLower(p.Description))
	return strings.Join(parts, " ")
}

// tokenize splits text into lower-cased word tokens of at least two
// characters. Letters, digits and underscore are word characters.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	n := 0
	flush := func() {
		if n >= 2 {
			tokens = append(tokens, word.String())
		}
		word.Reset()
		n = 0
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			word.WriteRune(r)
			n++
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// analyze tokenizes text, drops stop words, and returns the n-grams of the
// remaining tokens for n in [1, maxN], unigrams first.
func analyze(text string, maxN int) []string {
	raw := tokenize(text)
	tokens := raw[:0]
	for _, t := range raw {
		if !stopWords[t] {
			tokens = append(tokens, t)
		}
	}
	if maxN < 1 {
		maxN = 1
	}
	terms := make([]string, 0, len(tokens)*maxN)
	terms = append(terms, tokens...)
	for n := 2; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
