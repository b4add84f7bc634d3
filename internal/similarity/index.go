// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity builds a TF-IDF content index over catalog programs and
// scores free-text queries against it by cosine similarity.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDocumentOutOfRange is returned when a document index is not in the index.
var ErrDocumentOutOfRange = errors.New("document index out of range")

// Options controls vocabulary construction.
type Options struct {
	// MaxFeatures caps the vocabulary size (default 1000).
	MaxFeatures int

	// MaxNGram is the longest n-gram indexed (default 2).
	MaxNGram int
}

func (o Options) withDefaults() Options {
	if o.MaxFeatures <= 0 {
		o.MaxFeatures = 1000
	}
	if o.MaxNGram <= 0 {
		o.MaxNGram = 2
	}
	return o
}

// Entry is one non-zero component of a sparse vector.
type Entry struct {
	Term   int
	Weight float64
}

// Vector is a sparse vector sorted by term index.
type Vector []Entry

// Dot returns the inner product of v and u.
func (v Vector) Dot(u Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v) && j < len(u) {
		switch {
		case v[i].Term == u[j].Term:
			sum += v[i].Weight * u[j].Weight
			i++
			j++
		case v[i].Term < u[j].Term:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the L2 norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, e := range v {
		sum += e.Weight * e.Weight
	}
	return math.Sqrt(sum)
}

// Index is an immutable TF-IDF index. It is safe for concurrent reads.
type Index struct {
	opts  Options
	vocab map[string]int
	terms []string
	idf   []float64
	docs  []Vector
}

// Build fits a vocabulary and idf weights over docs and returns the index
// holding one L2-normalized vector per document, in input order. An empty
// docs slice yields an empty index.
func Build(docs []string, opts Options) *Index {
	opts = opts.withDefaults()
	idx := &Index{opts: opts, vocab: map[string]int{}}
	if len(docs) == 0 {
		return idx
	}

	analyzed := make([][]string, len(docs))
	freq := make(map[string]int)
	df := make(map[string]int)
	for i, d := range docs {
		analyzed[i] = analyze(d, opts.MaxNGram)
		seen := make(map[string]bool)
		for _, t := range analyzed[i] {
			freq[t]++
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > opts.MaxFeatures {
		terms = terms[:opts.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idx.terms = terms
	idx.idf = make([]float64, len(terms))
	for i, t := range terms {
		idx.vocab[t] = i
		idx.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	idx.docs = make([]Vector, len(docs))
	for i, a := range analyzed {
		idx.docs[i] = idx.vectorize(a)
	}
	return idx
}

// vectorize weights in-vocabulary terms by raw count times idf and
// normalizes the result to unit length.
func (x *Index) vectorize(terms []string) Vector {
	counts := make(map[int]float64)
	for _, t := range terms {
		if id, ok := x.vocab[t]; ok {
			counts[id]++
		}
	}
	v := make(Vector, 0, len(counts))
	for id, c := range counts {
		v = append(v, Entry{Term: id, Weight: c * x.idf[id]})
	}
	sort.Slice(v, func(i, j int) bool { return v[i].Term < v[j].Term })
	if norm := v.Norm(); norm > 0 {
		for i := range v {
			v[i].Weight /= norm
		}
	}
	return v
}

// Embed returns the normalized vector for text using the fitted vocabulary.
// Terms outside the vocabulary are ignored.
func (x *Index) Embed(text string) Vector {
	if len(x.terms) == 0 {
		return nil
	}
	return x.vectorize(analyze(text, x.opts.MaxNGram))
}

// Similarity returns the cosine similarity in [0,1] between q and document
// doc. An empty query or empty index scores 0.
func (x *Index) Similarity(q Vector, doc int) (float64, error) {
	if doc < 0 || doc >= len(x.docs) {
		if len(x.docs) == 0 && len(q) == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrDocumentOutOfRange, doc, len(x.docs))
	}
	return clamp(q.Dot(x.docs[doc])), nil
}

// DocSimilarity returns the cosine similarity between two indexed
// documents, or 0 if either is out of range.
func (x *Index) DocSimilarity(a, b int) float64 {
	if a < 0 || b < 0 || a >= len(x.docs) || b >= len(x.docs) {
		return 0
	}
	return clamp(x.docs[a].Dot(x.docs[b]))
}

// Len returns the number of indexed documents.
func (x *Index) Len() int { return len(x.docs) }

// VocabularySize returns the number of terms in the vocabulary.
func (x *Index) VocabularySize() int { return len(x.terms) }

// Terms returns the vocabulary in index order (alphabetical).
func (x *Index) Terms() []string {
	out := make([]string, len(x.terms))
	copy(out, x.terms)
	return out
}

func clamp(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
