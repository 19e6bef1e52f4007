// Package mlkit contains the small machine learning primitives used by the
// analysis services: TF-IDF vectorization, a linear classifier, LDA topic
// modeling, DBSCAN clustering, feature scaling and PCA projection.
package mlkit

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// TfidfConfig controls vocabulary construction.
type TfidfConfig struct {
	MaxFeatures int     `json:"max_features"` // 0 means unlimited
	MinDF       int     `json:"min_df"`       // minimum document frequency
	MaxDF       float64 `json:"max_df"`       // maximum document frequency ratio
}

// TfidfVectorizer is a whitespace-tokenized unigram TF-IDF vectorizer.
// The fitted state is fully serializable so it can be persisted as an
// artifact and reloaded across processes.
type TfidfVectorizer struct {
	Config     TfidfConfig    `json:"config"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	FittedAt   time.Time      `json:"fitted_at"`
}

// NewTfidfVectorizer creates an unfitted vectorizer.
func NewTfidfVectorizer(cfg TfidfConfig) *TfidfVectorizer {
	if cfg.MaxDF <= 0 || cfg.MaxDF > 1 {
		cfg.MaxDF = 1.0
	}
	if cfg.MinDF < 1 {
		cfg.MinDF = 1
	}
	return &TfidfVectorizer{Config: cfg}
}

// Fitted reports whether the vectorizer carries a usable vocabulary.
func (v *TfidfVectorizer) Fitted() bool {
	return len(v.Vocabulary) > 0 && len(v.IDF) == len(v.Vocabulary)
}

// Fit builds the vocabulary and IDF weights from the corpus. Documents are
// pre-normalized text; tokens are whitespace separated.
func (v *TfidfVectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("tfidf: empty corpus")
	}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range strings.Fields(doc) {
			termFreq[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	n := len(docs)
	maxDF := int(math.Floor(v.Config.MaxDF * float64(n)))
	if v.Config.MaxDF >= 1.0 {
		maxDF = n
	}

	type candidate struct {
		term string
		freq int
	}
	candidates := make([]candidate, 0, len(docFreq))
	for term, df := range docFreq {
		if df < v.Config.MinDF || df > maxDF {
			continue
		}
		candidates = append(candidates, candidate{term: term, freq: termFreq[term]})
	}
	if len(candidates) == 0 {
		return fmt.Errorf("tfidf: no terms survive min_df=%d max_df=%.2f over %d docs", v.Config.MinDF, v.Config.MaxDF, n)
	}

	// Most frequent terms win when the vocabulary is capped; alphabetical
	// order breaks frequency ties so fitting is deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq > candidates[j].freq
		}
		return candidates[i].term < candidates[j].term
	})
	if v.Config.MaxFeatures > 0 && len(candidates) > v.Config.MaxFeatures {
		candidates = candidates[:v.Config.MaxFeatures]
	}

	terms := make([]string, len(candidates))
	for i, c := range candidates {
		terms[i] = c.term
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// Smoothed IDF: ln((1+n)/(1+df)) + 1
		v.IDF[i] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}
	v.FittedAt = time.Now().UTC()

	return nil
}

// Transform maps a document to its L2-normalized TF-IDF vector.
func (v *TfidfVectorizer) Transform(doc string) ([]float64, error) {
	if !v.Fitted() {
		return nil, fmt.Errorf("tfidf: vectorizer not fitted")
	}

	vec := make([]float64, len(v.IDF))
	for _, tok := range strings.Fields(doc) {
		if idx, ok := v.Vocabulary[tok]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		if vec[i] > 0 {
			vec[i] *= v.IDF[i]
			norm += vec[i] * vec[i]
		}
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec, nil
}

// TransformAll vectorizes a corpus into a dense row-per-document matrix.
func (v *TfidfVectorizer) TransformAll(docs []string) ([][]float64, error) {
	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		vec, err := v.Transform(doc)
		if err != nil {
			return nil, err
		}
		rows[i] = vec
	}
	return rows, nil
}

// Terms returns the vocabulary in index order.
func (v *TfidfVectorizer) Terms() []string {
	terms := make([]string, len(v.Vocabulary))
	for term, idx := range v.Vocabulary {
		terms[idx] = term
	}
	return terms
}

// TokenIDs maps a document to vocabulary token IDs, dropping unknown tokens.
func (v *TfidfVectorizer) TokenIDs(doc string) []int {
	ids := make([]int, 0)
	for _, tok := range strings.Fields(doc) {
		if idx, ok := v.Vocabulary[tok]; ok {
			ids = append(ids, idx)
		}
	}
	return ids
}
