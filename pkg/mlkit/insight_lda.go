package mlkit

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// LDAConfig controls topic model fitting.
type LDAConfig struct {
	K          int
	Alpha      float64 // document-topic prior
	Beta       float64 // topic-word prior
	Iterations int
	Seed       int64
}

// DefaultLDAConfig returns the fitting defaults (fixed seed keeps topic
// discovery reproducible across runs).
func DefaultLDAConfig(k int) LDAConfig {
	return LDAConfig{
		K:          k,
		Alpha:      50.0 / float64(k),
		Beta:       0.01,
		Iterations: 20,
		Seed:       42,
	}
}

// LDAModel is a fitted topic model (collapsed Gibbs sampling).
type LDAModel struct {
	K         int
	VocabSize int
	// TopicWord[k][w] = p(word w | topic k)
	TopicWord [][]float64
	// DocTopic[d][k] = p(topic k | doc d)
	DocTopic [][]float64
}

// FitLDA fits a topic model over tokenized documents. Each document is a
// slice of vocabulary token IDs in [0, vocabSize).
func FitLDA(docs [][]int, vocabSize int, cfg LDAConfig) (*LDAModel, error) {
	if cfg.K < 2 {
		return nil, fmt.Errorf("lda: k must be >= 2, got %d", cfg.K)
	}
	if vocabSize < cfg.K {
		return nil, fmt.Errorf("lda: vocabulary of %d smaller than k=%d", vocabSize, cfg.K)
	}
	nonEmpty := 0
	for _, doc := range docs {
		if len(doc) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty < cfg.K {
		return nil, fmt.Errorf("lda: %d non-empty documents for k=%d", nonEmpty, cfg.K)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	k := cfg.K
	docTopicCount := make([][]int, len(docs))
	topicWordCount := make([][]int, k)
	topicTotals := make([]int, k)
	assignments := make([][]int, len(docs))

	for t := 0; t < k; t++ {
		topicWordCount[t] = make([]int, vocabSize)
	}

	// Random initial assignment
	for d, doc := range docs {
		docTopicCount[d] = make([]int, k)
		assignments[d] = make([]int, len(doc))
		for i, w := range doc {
			t := rng.Intn(k)
			assignments[d][i] = t
			docTopicCount[d][t]++
			topicWordCount[t][w]++
			topicTotals[t]++
		}
	}

	probs := make([]float64, k)
	vBeta := float64(vocabSize) * cfg.Beta

	for iter := 0; iter < cfg.Iterations; iter++ {
		for d, doc := range docs {
			for i, w := range doc {
				old := assignments[d][i]
				docTopicCount[d][old]--
				topicWordCount[old][w]--
				topicTotals[old]--

				var sum float64
				for t := 0; t < k; t++ {
					p := (float64(docTopicCount[d][t]) + cfg.Alpha) *
						(float64(topicWordCount[t][w]) + cfg.Beta) /
						(float64(topicTotals[t]) + vBeta)
					probs[t] = p
					sum += p
				}

				u := rng.Float64() * sum
				next := k - 1
				for t := 0; t < k; t++ {
					u -= probs[t]
					if u <= 0 {
						next = t
						break
					}
				}

				assignments[d][i] = next
				docTopicCount[d][next]++
				topicWordCount[next][w]++
				topicTotals[next]++
			}
		}
	}

	model := &LDAModel{
		K:         k,
		VocabSize: vocabSize,
		TopicWord: make([][]float64, k),
		DocTopic:  make([][]float64, len(docs)),
	}
	for t := 0; t < k; t++ {
		model.TopicWord[t] = make([]float64, vocabSize)
		denom := float64(topicTotals[t]) + vBeta
		for w := 0; w < vocabSize; w++ {
			model.TopicWord[t][w] = (float64(topicWordCount[t][w]) + cfg.Beta) / denom
		}
	}
	kAlpha := float64(k) * cfg.Alpha
	for d := range docs {
		model.DocTopic[d] = make([]float64, k)
		denom := float64(len(docs[d])) + kAlpha
		for t := 0; t < k; t++ {
			model.DocTopic[d][t] = (float64(docTopicCount[d][t]) + cfg.Alpha) / denom
		}
	}

	return model, nil
}

// Perplexity scores the fitted model against the corpus; lower is better.
func (m *LDAModel) Perplexity(docs [][]int) float64 {
	var logLik float64
	var tokens int
	for d, doc := range docs {
		for _, w := range doc {
			var p float64
			for t := 0; t < m.K; t++ {
				p += m.DocTopic[d][t] * m.TopicWord[t][w]
			}
			if p > 0 {
				logLik += math.Log(p)
				tokens++
			}
		}
	}
	if tokens == 0 {
		return math.Inf(1)
	}
	return math.Exp(-logLik / float64(tokens))
}

// DominantTopic returns the strongest topic for a document and its strength
// (the normalized topic proportion, always in [0, 1]).
func (m *LDAModel) DominantTopic(doc int) (int, float64) {
	best := 0
	bestP := m.DocTopic[doc][0]
	for t := 1; t < m.K; t++ {
		if m.DocTopic[doc][t] > bestP {
			best = t
			bestP = m.DocTopic[doc][t]
		}
	}
	return best, bestP
}

// TopTerms returns the n highest-probability vocabulary indices for a topic.
func (m *LDAModel) TopTerms(topic, n int) []int {
	idx := make([]int, m.VocabSize)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if m.TopicWord[topic][idx[a]] != m.TopicWord[topic][idx[b]] {
			return m.TopicWord[topic][idx[a]] > m.TopicWord[topic][idx[b]]
		}
		return idx[a] < idx[b]
	})
	if n > len(idx) {
		n = len(idx)
	}
	return idx[:n]
}

// SearchLDA fits candidate models for each k in [minK, maxK] and returns the
// one with the lowest perplexity over the corpus.
func SearchLDA(docs [][]int, vocabSize, minK, maxK int) (*LDAModel, error) {
	if minK < 2 {
		minK = 2
	}
	if maxK < minK {
		maxK = minK
	}

	var best *LDAModel
	bestScore := math.Inf(1)
	var lastErr error

	for k := minK; k <= maxK; k++ {
		model, err := FitLDA(docs, vocabSize, DefaultLDAConfig(k))
		if err != nil {
			lastErr = err
			continue
		}
		if score := model.Perplexity(docs); score < bestScore {
			best = model
			bestScore = score
		}
	}

	if best == nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("lda: no candidate model could be fitted")
	}
	return best, nil
}
