package domain

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// ErrNotEnoughDocuments is returned when fitting is attempted on a
// corpus too small to produce a meaningful model.
var ErrNotEnoughDocuments = errors.New("tfidf: need at least two documents to fit")

const (
	// DefaultMaxFeatures caps the vocabulary size of the trained model.
	DefaultMaxFeatures = 5000

	// maxDocFreqRatio drops terms present in almost every document;
	// they carry no discriminating signal.
	maxDocFreqRatio = 0.95
)

// stopWords are the common English words removed before indexing.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "this": true, "to": true, "was": true,
	"were": true, "will": true, "with": true, "you": true, "your": true,
	"not": true, "but": true, "they": true, "their": true, "all": true,
	"can": true, "if": true, "so": true, "we": true, "our": true, "more": true,
}

// Vector is a sparse, L2-normalized TF-IDF document vector.
// Cosine similarity between two Vectors reduces to their dot product.
type Vector map[int]float64

// Cosine returns the cosine similarity of two normalized vectors.
func Cosine(a, b Vector) float64 {
	// Iterate the smaller map.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for i, av := range a {
		if bv, ok := b[i]; ok {
			dot += av * bv
		}
	}
	return dot
}

// TFIDF is a bigram-aware vector-space text model. It is fitted once,
// offline, over the full catalog text and then used to project queries
// into the same space. Retraining is triggered by the catalog refresh,
// never by the request path.
type TFIDF struct {
	maxFeatures int
	vocab       map[string]int
	idf         []float64
}

// NewTFIDF builds an unfitted model with the given vocabulary cap.
func NewTFIDF(maxFeatures int) *TFIDF {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &TFIDF{maxFeatures: maxFeatures}
}

// Fitted reports whether the model has a vocabulary.
func (m *TFIDF) Fitted() bool {
	return len(m.vocab) > 0
}

// Fit learns the vocabulary and inverse document frequencies from the
// corpus and returns the normalized document vectors, one per input
// text, in input order.
func (m *TFIDF) Fit(texts []string) ([]Vector, error) {
	if len(texts) < 2 {
		return nil, ErrNotEnoughDocuments
	}

	docTerms := make([]map[string]int, len(texts))
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)

	for i, text := range texts {
		counts := make(map[string]int)
		for _, term := range Tokenize(text) {
			counts[term]++
			termFreq[term]++
		}
		for term := range counts {
			docFreq[term]++
		}
		docTerms[i] = counts
	}

	// Drop near-ubiquitous terms, then cap the vocabulary by total
	// term frequency across the corpus.
	maxDF := int(maxDocFreqRatio * float64(len(texts)))
	if maxDF < 1 {
		maxDF = 1
	}
	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df <= maxDF {
			kept = append(kept, term)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if termFreq[kept[i]] != termFreq[kept[j]] {
			return termFreq[kept[i]] > termFreq[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if len(kept) > m.maxFeatures {
		kept = kept[:m.maxFeatures]
	}

	m.vocab = make(map[string]int, len(kept))
	m.idf = make([]float64, len(kept))
	n := float64(len(texts))
	for i, term := range kept {
		m.vocab[term] = i
		// Smoothed IDF keeps unseen terms finite.
		m.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	vectors := make([]Vector, len(texts))
	for i, counts := range docTerms {
		vectors[i] = m.vectorize(counts)
	}
	return vectors, nil
}

// Transform projects a text (typically a user query) into the fitted
// vector space. Terms outside the vocabulary are ignored.
func (m *TFIDF) Transform(text string) Vector {
	counts := make(map[string]int)
	for _, term := range Tokenize(text) {
		counts[term]++
	}
	return m.vectorize(counts)
}

func (m *TFIDF) vectorize(counts map[string]int) Vector {
	vec := make(Vector)
	var norm float64
	for term, tf := range counts {
		idx, ok := m.vocab[term]
		if !ok {
			continue
		}
		w := float64(tf) * m.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Tokenize lowercases the text, splits on non-alphanumeric runes,
// removes stop-words and single-character tokens, and appends the
// bigrams of the surviving token stream.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	unigrams := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 || stopWords[tok] {
			continue
		}
		unigrams = append(unigrams, tok)
	}

	terms := make([]string, 0, len(unigrams)*2)
	terms = append(terms, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		terms = append(terms, unigrams[i]+" "+unigrams[i+1])
	}
	return terms
}
