package relevance

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// Vectorizer is a simple TF-IDF vectorizer. It builds a vocabulary from the
// corpus and computes smoothed IDF values; produced vectors are
// L2-normalized so cosine similarity reduces to a dot product.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// NewVectorizer creates an unprepared TF-IDF vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		vocabulary: make(map[string]int),
	}
}

// Fit builds the vocabulary and IDF values from the provided corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	// Build vocabulary and document frequencies
	df := make(map[string]int)
	for _, text := range corpus {
		tokens := v.tokenize(text)
		seen := make(map[string]struct{})
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	N := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF
		v.idf[i] = math.Log((1+N)/(1+float64(df[term]))) + 1.0
	}
	v.dimension = len(terms)
	v.prepared = true
	return nil
}

// Dimension returns the dimensionality of the produced vectors.
func (v *Vectorizer) Dimension() int { return v.dimension }

// Transform computes the normalized TF-IDF vector for the given text.
// Text made entirely of unknown or stop-word tokens yields the zero vector.
func (v *Vectorizer) Transform(text string) ([]float64, error) {
	if !v.prepared {
		return nil, errors.New("vectorizer not fitted")
	}
	vec := make([]float64, v.dimension)
	tokens := v.tokenize(text)
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := v.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		tfv := float64(count) / float64(total)
		vec[idx] = tfv * v.idf[idx]
	}
	// L2 normalize
	norm := 0.0
	for _, val := range vec {
		norm += val * val
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// tokenize lowercases, splits to word tokens and drops stop words. This
// repeats the stop-word pass done on the user query; the redundancy is
// deliberate and harmless.
func (v *Vectorizer) tokenize(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Cosine returns the cosine similarity of two L2-normalized vectors.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
