// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds skills and interests in free text. Matching is
// dictionary and pattern based: catalog skill names plus built-in term
// lists, compared on word boundaries after case folding.
package extract

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/pdiddy/coursematch/pkg/types"
)

const (
	patternConfidence   = 0.7
	maxDictConfidence   = 0.9
	maxInterestSuggests = 5

	// DefaultSuggestLimit applies when Suggest is called with limit <= 0.
	DefaultSuggestLimit = 10
)

// Suggestion kinds accepted by Suggest.
const (
	KindSkills    = "skills"
	KindInterests = "interests"
	KindLocations = "locations"
)

// ErrUnknownKind is returned by Suggest for an unsupported kind.
var ErrUnknownKind = errors.New("unknown suggestion kind")

// Extractor holds the skill dictionary. It is immutable after New and safe
// for concurrent use.
type Extractor struct {
	known []string
}

// New builds an extractor whose dictionary is the built-in common skills
// plus known, typically the catalog's skill names.
func New(known []string) *Extractor {
	seen := make(map[string]bool, len(commonSkills)+len(known))
	dict := make([]string, 0, len(commonSkills)+len(known))
	for _, list := range [][]string{commonSkills, known} {
		for _, k := range list {
			k = normalize(k)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			dict = append(dict, k)
		}
	}
	sort.Strings(dict)
	return &Extractor{known: dict}
}

// Dictionary returns the number of dictionary entries.
func (e *Extractor) Dictionary() int {
	return len(e.known)
}

// Skills returns the skills found in text, sorted by descending confidence
// then name. Dictionary hits score min(0.9, 0.5 + 0.02 per character);
// category pattern hits score 0.7 and replace a dictionary hit for the same
// term. Suggestions come from domain keyword groups found in text or
// hint and exclude terms already extracted.
func (e *Extractor) Skills(text, hint string) types.Extraction {
	norm := normalize(text)
	found := make(map[string]types.ExtractedTerm)

	for _, k := range e.known {
		if containsWord(norm, k) {
			found[k] = types.ExtractedTerm{
				Name:       k,
				Confidence: dictConfidence(k),
				Source:     types.SourceDictionary,
			}
		}
	}
	for _, g := range categoryTerms {
		for _, t := range g.terms {
			if containsWord(norm, t) {
				found[t] = types.ExtractedTerm{
					Name:       t,
					Confidence: patternConfidence,
					Category:   g.category,
					Source:     types.SourcePattern,
				}
			}
		}
	}

	terms := make([]types.ExtractedTerm, 0, len(found))
	for _, t := range found {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Confidence != terms[j].Confidence {
			return terms[i].Confidence > terms[j].Confidence
		}
		return terms[i].Name < terms[j].Name
	})

	scope := norm
	if h := normalize(hint); h != "" {
		scope += " " + h
	}
	return types.Extraction{Terms: terms, Suggestions: suggestions(scope, found)}
}

// Interests runs skill extraction and keeps only interest-like terms, those
// containing a keyword such as design, science or business. At most five
// suggestions are returned.
func (e *Extractor) Interests(text, hint string) types.Extraction {
	skills := e.Skills(text, hint)
	out := types.Extraction{Terms: []types.ExtractedTerm{}, Suggestions: skills.Suggestions}
	for _, t := range skills.Terms {
		if isInterest(t.Name) {
			out.Terms = append(out.Terms, t)
		}
	}
	if len(out.Suggestions) > maxInterestSuggests {
		out.Suggestions = out.Suggestions[:maxInterestSuggests]
	}
	return out
}

// Suggest returns up to limit entries of the kind's vocabulary that contain
// prefix, compared case-insensitively, in vocabulary order.
func Suggest(kind, prefix string, limit int) ([]string, error) {
	var vocab []string
	switch kind {
	case KindSkills:
		vocab = skillSuggestions
	case KindInterests:
		vocab = interestSuggestions
	case KindLocations:
		vocab = locationSuggestions
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(prefix))
	out := []string{}
	for _, v := range vocab {
		if len(out) == limit {
			break
		}
		if strings.Contains(fold.String(v), needle) {
			out = append(out, v)
		}
	}
	return out, nil
}

func suggestions(scope string, found map[string]types.ExtractedTerm) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, g := range contextGroups {
		hit := false
		for _, trig := range g.triggers {
			if containsWord(scope, trig) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, s := range g.suggest {
			if _, ok := found[s]; ok || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func isInterest(term string) bool {
	for _, k := range interestKeywords {
		if strings.Contains(term, k) {
			return true
		}
	}
	return false
}

func dictConfidence(term string) float64 {
	return math.Min(maxDictConfidence, 0.5+0.02*float64(utf8.RuneCountInString(term)))
}

// normalize case-folds s and collapses whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// containsWord reports whether term occurs in text with no letter or digit
// immediately before or after it.
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}
	for off := 0; off < len(text); {
		i := strings.Index(text[off:], term)
		if i < 0 {
			return false
		}
		start := off + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		off = start + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
