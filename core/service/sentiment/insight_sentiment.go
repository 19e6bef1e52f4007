// Package sentiment classifies reply text as positive, negative or neutral
// and assembles the corpus-level sentiment report.
//
// Two strategies share the engine. The primary path scores a TF-IDF vector
// with a persisted linear classifier; when the classifier artifact is absent
// or scoring fails, the engine degrades to the lexicon scorer for the rest
// of the process lifetime. The vectorizer itself may arrive unfitted, in
// which case it is fitted exactly once on the first corpus it sees and
// persisted for later processes.
package sentiment

import (
	"context"
	"strings"
	"sync"

	"insight_server/core/domain"
	"insight_server/core/port/out"
	"insight_server/core/service/textproc"
	"insight_server/pkg/logger"
	"insight_server/pkg/mlkit"
)

// Model states. The engine moves strictly forward: NotLoaded is only seen
// before LoadArtifacts, and LexiconOnly is terminal.
type modelState int

const (
	stateNotLoaded modelState = iota
	stateLoadedFitted
	stateLoadedUnfitted
	stateLexiconOnly
)

const (
	sourceModel    = "model"
	sourceFallback = "lexicon_fallback"

	wordcloudSize   = 50
	wordcloudMinLen = 3
	topicsPerLabel  = 3
	termsPerTopic   = 10
)

// Labels in report order.
var labels = []string{
	domain.SentimentPositive,
	domain.SentimentNegative,
	domain.SentimentNeutral,
}

// Engine is the sentiment classification engine. Safe for concurrent use:
// the artifacts are read-only after LoadArtifacts except for the one-time
// lazy vectorizer fit, which is serialized by mu.
type Engine struct {
	normalizer *textproc.Normalizer
	artifacts  out.ArtifactStore
	log        *logger.Logger

	mu         sync.Mutex
	state      modelState
	vectorizer *mlkit.TfidfVectorizer
	classifier *mlkit.LinearModel
}

// NewEngine creates a sentiment engine in the NotLoaded state.
func NewEngine(artifacts out.ArtifactStore) *Engine {
	return &Engine{
		normalizer: textproc.ForSentiment(),
		artifacts:  artifacts,
		log:        logger.Default().WithField("engine", "sentiment"),
		state:      stateNotLoaded,
	}
}

// LoadArtifacts loads the persisted classifier and vectorizer. A missing or
// broken classifier is not fatal: the engine degrades to the lexicon scorer
// and logs the degradation. A missing vectorizer arms the lazy fit path.
func (e *Engine) LoadArtifacts(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	classifier, err := e.artifacts.LoadClassifier(ctx)
	if err != nil || classifier == nil {
		if err != nil {
			e.log.WithError(err).Warn("classifier artifact failed to load, using lexicon fallback")
		} else {
			e.log.Warn("classifier artifact not found, using lexicon fallback")
		}
		e.state = stateLexiconOnly
		return
	}
	if err := classifier.Validate(); err != nil {
		e.log.WithError(err).Warn("classifier artifact invalid, using lexicon fallback")
		e.state = stateLexiconOnly
		return
	}
	e.classifier = classifier

	vectorizer, err := e.artifacts.LoadVectorizer(ctx)
	if err != nil {
		e.log.WithError(err).Warn("vectorizer artifact failed to load, will fit on first corpus")
	}
	if vectorizer != nil && vectorizer.Fitted() {
		if len(vectorizer.IDF) != classifier.Dim() {
			e.log.Warn("vectorizer dimension %d does not match classifier %d, using lexicon fallback",
				len(vectorizer.IDF), classifier.Dim())
			e.state = stateLexiconOnly
			return
		}
		e.vectorizer = vectorizer
		e.state = stateLoadedFitted
		e.log.Info("sentiment model loaded (%d features, %d classes)",
			classifier.Dim(), len(classifier.Classes))
		return
	}

	e.vectorizer = mlkit.NewTfidfVectorizer(mlkit.TfidfConfig{MaxFeatures: classifier.Dim(), MinDF: 1})
	e.state = stateLoadedUnfitted
	e.log.Info("classifier loaded, vectorizer unfitted; will fit once on first corpus")
}

// ensureFitted runs the one-time lazy vectorizer fit. Concurrent first
// requests serialize on mu so exactly one caller fits and persists.
func (e *Engine) ensureFitted(ctx context.Context, corpus []string) modelState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateLoadedUnfitted {
		return e.state
	}

	if err := e.vectorizer.Fit(corpus); err != nil {
		e.log.WithError(err).Warn("lazy vectorizer fit failed, using lexicon fallback")
		e.state = stateLexiconOnly
		return e.state
	}
	if len(e.vectorizer.IDF) != e.classifier.Dim() {
		e.log.Warn("fitted vocabulary %d does not match classifier %d, using lexicon fallback",
			len(e.vectorizer.IDF), e.classifier.Dim())
		e.state = stateLexiconOnly
		return e.state
	}

	if err := e.artifacts.SaveVectorizer(ctx, e.vectorizer); err != nil {
		// Persistence is best-effort; the in-memory fit still serves.
		e.log.WithError(err).Warn("failed to persist fitted vectorizer")
	}
	e.state = stateLoadedFitted
	e.log.Info("vectorizer fitted on %d documents", len(corpus))
	return e.state
}

// Normalize exposes the engine's normalizer for callers sharing the corpus.
func (e *Engine) Normalize(raw string) string {
	return e.normalizer.Normalize(raw)
}

// Classify labels one raw text. The model path degrades to the lexicon
// scorer on any scoring failure rather than surfacing an error.
func (e *Engine) Classify(text string) string {
	normalized := e.normalizer.Normalize(text)
	return e.classifyNormalized(normalized)
}

func (e *Engine) classifyNormalized(normalized string) string {
	e.mu.Lock()
	state := e.state
	vectorizer := e.vectorizer
	classifier := e.classifier
	e.mu.Unlock()

	if state == stateLoadedFitted {
		label, err := scoreModel(vectorizer, classifier, normalized)
		if err == nil {
			return label
		}
		e.log.WithError(err).Warn("model scoring failed, falling back to lexicon")
	}
	return ClassifyLexicon(normalized)
}

func scoreModel(v *mlkit.TfidfVectorizer, m *mlkit.LinearModel, normalized string) (string, error) {
	vec, err := v.Transform(normalized)
	if err != nil {
		return "", err
	}
	return m.Predict(vec)
}

// ClassifyLexicon labels normalized text by counting trigger phrases.
// Strictly more positive hits wins positive, strictly more negative wins
// negative, any tie (including zero-zero) is neutral.
func ClassifyLexicon(normalized string) string {
	var pos, neg int
	for _, trigger := range textproc.PositiveTriggers {
		if strings.Contains(normalized, trigger) {
			pos++
		}
	}
	for _, trigger := range textproc.NegativeTriggers {
		if strings.Contains(normalized, trigger) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return domain.SentimentPositive
	case neg > pos:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// AnalyzeCorpus classifies every reply and assembles the sentiment report.
func (e *Engine) AnalyzeCorpus(ctx context.Context, replies []domain.Reply) *domain.SentimentReport {
	report := &domain.SentimentReport{
		Distribution: make(map[string]domain.CategoryStat, len(labels)),
		ByEngagement: make(map[string]int, len(labels)),
		ByRetweet:    make(map[string]int, len(labels)),
		Wordclouds:   make(map[string][]domain.WordCount, len(labels)),
		Topics:       make(map[string][]domain.Topic, len(labels)),
		Metadata:     domain.SentimentMetadata{Source: sourceFallback},
	}
	if len(replies) == 0 {
		for _, label := range labels {
			report.Distribution[label] = domain.CategoryStat{}
		}
		return report
	}

	normalized := make([]string, len(replies))
	for i, reply := range replies {
		normalized[i] = e.normalizer.Normalize(reply.Content)
	}

	state := e.ensureFitted(ctx, normalized)
	if state == stateLoadedFitted {
		report.Metadata.Source = sourceModel
		e.mu.Lock()
		fittedAt := e.vectorizer.FittedAt
		e.mu.Unlock()
		if !fittedAt.IsZero() {
			report.Metadata.VectorizerFittedAt = &fittedAt
		}
	}

	// Engagement includes the size of each reply's thread: every row adds
	// likes + retweets + the number of rows sharing its thread id.
	threadSize := make(map[int64]int)
	for _, reply := range replies {
		if key, ok := domain.ThreadKey(reply.ParentID); ok {
			threadSize[key]++
		}
	}

	perLabel := make(map[string][]string, len(labels))
	counts := make(map[string]int, len(labels))
	for i, reply := range replies {
		label := e.classifyNormalized(normalized[i])
		counts[label]++
		perLabel[label] = append(perLabel[label], normalized[i])

		engagement := reply.Likes + reply.Retweets
		if key, ok := domain.ThreadKey(reply.ParentID); ok {
			engagement += threadSize[key]
		}
		report.ByEngagement[label] += engagement
		report.ByRetweet[label] += reply.Retweets
	}

	report.TotalAnalyzed = len(replies)
	for _, label := range labels {
		report.Distribution[label] = domain.CategoryStat{
			Count:      counts[label],
			Percentage: textproc.Percentage(counts[label], report.TotalAnalyzed),
		}
		wc := textproc.WordFrequency(perLabel[label], wordcloudMinLen, wordcloudSize)
		report.Wordclouds[label] = toWordCounts(wc)
		report.Topics[label] = labelTopics(perLabel[label])
	}

	return report
}

// labelTopics extracts up to 3 representative topics for one label's corpus
// via TF-IDF weighting and LDA decomposition. Small or degenerate corpora
// simply yield no topics.
func labelTopics(docs []string) []domain.Topic {
	if len(docs) < topicsPerLabel {
		return nil
	}

	vectorizer := mlkit.NewTfidfVectorizer(mlkit.TfidfConfig{MaxFeatures: 500, MinDF: 1})
	if err := vectorizer.Fit(docs); err != nil {
		return nil
	}

	tokenized := make([][]int, len(docs))
	for i, doc := range docs {
		tokenized[i] = vectorizer.TokenIDs(doc)
	}

	k := topicsPerLabel
	model, err := mlkit.FitLDA(tokenized, len(vectorizer.IDF), mlkit.DefaultLDAConfig(k))
	if err != nil {
		return nil
	}

	terms := vectorizer.Terms()
	topics := make([]domain.Topic, 0, k)
	for t := 0; t < k; t++ {
		top := model.TopTerms(t, termsPerTopic)
		topicTerms := make([]string, 0, len(top))
		for _, idx := range top {
			topicTerms = append(topicTerms, terms[idx])
		}
		topics = append(topics, domain.Topic{ID: t, Label: "", Terms: topicTerms})
	}
	return topics
}

func toWordCounts(freq []textproc.WordFreq) []domain.WordCount {
	out := make([]domain.WordCount, len(freq))
	for i, wf := range freq {
		out[i] = domain.WordCount{Word: wf.Word, Count: wf.Count}
	}
	return out
}
