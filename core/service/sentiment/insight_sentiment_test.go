package sentiment

import (
	"context"
	"testing"
	"time"

	"insight_server/core/domain"
	"insight_server/pkg/mlkit"
)

// memoryStore is an in-memory artifact store for tests. Nil fields behave
// like missing artifacts.
type memoryStore struct {
	vectorizer *mlkit.TfidfVectorizer
	classifier *mlkit.LinearModel
	saved      int
}

func (m *memoryStore) LoadVectorizer(ctx context.Context) (*mlkit.TfidfVectorizer, error) {
	return m.vectorizer, nil
}

func (m *memoryStore) SaveVectorizer(ctx context.Context, v *mlkit.TfidfVectorizer) error {
	m.vectorizer = v
	m.saved++
	return nil
}

func (m *memoryStore) LoadClassifier(ctx context.Context) (*mlkit.LinearModel, error) {
	return m.classifier, nil
}

func TestClassifyLexicon(t *testing.T) {
	tests := []struct {
		name       string
		normalized string
		want       string
	}{
		{name: "positive trigger", normalized: "pelayanan bagus", want: domain.SentimentPositive},
		{name: "negative trigger", normalized: "sinyal jelek", want: domain.SentimentNegative},
		{name: "no triggers", normalized: "internet hari", want: domain.SentimentNeutral},
		{name: "tie is neutral", normalized: "bagus jelek", want: domain.SentimentNeutral},
		{name: "more positive wins", normalized: "bagus cepat jelek", want: domain.SentimentPositive},
		{name: "more negative wins", normalized: "bagus lambat error", want: domain.SentimentNegative},
		{name: "empty is neutral", normalized: "", want: domain.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLexicon(tt.normalized); got != tt.want {
				t.Errorf("ClassifyLexicon(%q) = %q, want %q", tt.normalized, got, tt.want)
			}
		})
	}
}

func TestClassifyFallsBackWithoutClassifier(t *testing.T) {
	engine := NewEngine(&memoryStore{})
	engine.LoadArtifacts(context.Background())

	if got := engine.Classify("Pelayanan bagus banget! 👍"); got != domain.SentimentPositive {
		t.Errorf("Classify = %q, want positive", got)
	}
	if got := engine.Classify("jaringan jelek parah"); got != domain.SentimentNegative {
		t.Errorf("Classify = %q, want negative", got)
	}
}

func TestClassifyWithLoadedModel(t *testing.T) {
	vectorizer := mlkit.NewTfidfVectorizer(mlkit.TfidfConfig{MinDF: 1})
	if err := vectorizer.Fit([]string{"bagus", "jelek"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	classifier := &mlkit.LinearModel{
		Classes: []string{domain.SentimentPositive, domain.SentimentNegative},
		Weights: [][]float64{{1, 0}, {0, 1}}, // vocabulary is alphabetical: bagus, jelek
		Bias:    []float64{0, 0},
	}

	engine := NewEngine(&memoryStore{vectorizer: vectorizer, classifier: classifier})
	engine.LoadArtifacts(context.Background())

	if got := engine.Classify("bagus"); got != domain.SentimentPositive {
		t.Errorf("Classify(bagus) = %q, want positive", got)
	}
	if got := engine.Classify("jelek"); got != domain.SentimentNegative {
		t.Errorf("Classify(jelek) = %q, want negative", got)
	}
}

func TestLoadArtifactsDimensionMismatchDegrades(t *testing.T) {
	vectorizer := mlkit.NewTfidfVectorizer(mlkit.TfidfConfig{MinDF: 1})
	if err := vectorizer.Fit([]string{"bagus jelek lambat"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	classifier := &mlkit.LinearModel{
		Classes: []string{domain.SentimentPositive, domain.SentimentNegative},
		Weights: [][]float64{{1, 0}, {0, 1}}, // 2 features vs 3-term vocabulary
		Bias:    []float64{0, 0},
	}

	engine := NewEngine(&memoryStore{vectorizer: vectorizer, classifier: classifier})
	engine.LoadArtifacts(context.Background())

	report := engine.AnalyzeCorpus(context.Background(), []domain.Reply{{Content: "bagus"}})
	if report.Metadata.Source != "lexicon_fallback" {
		t.Errorf("Metadata.Source = %q, want lexicon_fallback", report.Metadata.Source)
	}
}

func TestAnalyzeCorpusDistribution(t *testing.T) {
	engine := NewEngine(&memoryStore{})
	engine.LoadArtifacts(context.Background())

	replies := make([]domain.Reply, 0, 10)
	for i := 0; i < 6; i++ {
		replies = append(replies, domain.Reply{Content: "pelayanan bagus", Likes: 2})
	}
	for i := 0; i < 4; i++ {
		replies = append(replies, domain.Reply{Content: "sinyal jelek", Retweets: 1})
	}

	report := engine.AnalyzeCorpus(context.Background(), replies)

	if report.TotalAnalyzed != 10 {
		t.Fatalf("TotalAnalyzed = %d, want 10", report.TotalAnalyzed)
	}
	if report.Metadata.Source != "lexicon_fallback" {
		t.Errorf("Metadata.Source = %q, want lexicon_fallback", report.Metadata.Source)
	}

	pos := report.Distribution[domain.SentimentPositive]
	if pos.Count != 6 || pos.Percentage != 60 {
		t.Errorf("positive = %+v, want count 6 pct 60", pos)
	}
	neg := report.Distribution[domain.SentimentNegative]
	if neg.Count != 4 || neg.Percentage != 40 {
		t.Errorf("negative = %+v, want count 4 pct 40", neg)
	}
	neu := report.Distribution[domain.SentimentNeutral]
	if neu.Count != 0 || neu.Percentage != 0 {
		t.Errorf("neutral = %+v, want zero", neu)
	}

	if report.ByEngagement[domain.SentimentPositive] != 12 {
		t.Errorf("positive engagement = %d, want 12", report.ByEngagement[domain.SentimentPositive])
	}
	if report.ByRetweet[domain.SentimentNegative] != 4 {
		t.Errorf("negative retweets = %d, want 4", report.ByRetweet[domain.SentimentNegative])
	}

	words := report.Wordclouds[domain.SentimentPositive]
	if len(words) == 0 {
		t.Fatal("positive wordcloud is empty")
	}
	if words[0].Word != "pelayanan" || words[0].Count != 6 {
		t.Errorf("top positive word = %+v, want {pelayanan 6}", words[0])
	}
}

func TestAnalyzeCorpusThreadEngagement(t *testing.T) {
	engine := NewEngine(&memoryStore{})
	engine.LoadArtifacts(context.Background())

	// Two replies share thread 99, so each row earns +2 thread engagement.
	replies := []domain.Reply{
		{Content: "pelayanan bagus", ParentID: "99", Likes: 1},
		{Content: "layanan bagus", ParentID: "99", Likes: 1},
	}
	report := engine.AnalyzeCorpus(context.Background(), replies)

	if got := report.ByEngagement[domain.SentimentPositive]; got != 6 {
		t.Errorf("positive engagement = %d, want 6 (likes 2 + thread 4)", got)
	}
}

func TestAnalyzeCorpusEmpty(t *testing.T) {
	engine := NewEngine(&memoryStore{})
	engine.LoadArtifacts(context.Background())

	report := engine.AnalyzeCorpus(context.Background(), nil)
	if report.TotalAnalyzed != 0 {
		t.Errorf("TotalAnalyzed = %d, want 0", report.TotalAnalyzed)
	}
	for _, label := range []string{domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral} {
		if _, ok := report.Distribution[label]; !ok {
			t.Errorf("Distribution missing label %q", label)
		}
	}
}

func TestAnalyzeCorpusModelMetadata(t *testing.T) {
	vectorizer := mlkit.NewTfidfVectorizer(mlkit.TfidfConfig{MinDF: 1})
	if err := vectorizer.Fit([]string{"bagus", "jelek"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	classifier := &mlkit.LinearModel{
		Classes: []string{domain.SentimentPositive, domain.SentimentNegative},
		Weights: [][]float64{{1, 0}, {0, 1}},
		Bias:    []float64{0, 0},
	}

	engine := NewEngine(&memoryStore{vectorizer: vectorizer, classifier: classifier})
	engine.LoadArtifacts(context.Background())

	report := engine.AnalyzeCorpus(context.Background(), []domain.Reply{{Content: "bagus"}})
	if report.Metadata.Source != "model" {
		t.Fatalf("Metadata.Source = %q, want model", report.Metadata.Source)
	}
	if report.Metadata.VectorizerFittedAt == nil {
		t.Fatal("VectorizerFittedAt is nil, want the fit timestamp")
	}
	if report.Metadata.VectorizerFittedAt.After(time.Now().UTC()) {
		t.Error("VectorizerFittedAt is in the future")
	}
}

func TestLazyVectorizerFitPersists(t *testing.T) {
	classifier := &mlkit.LinearModel{
		Classes: []string{domain.SentimentPositive, domain.SentimentNegative},
		Weights: [][]float64{{1, 0}, {0, 1}},
		Bias:    []float64{0, 0},
	}
	store := &memoryStore{classifier: classifier}

	engine := NewEngine(store)
	engine.LoadArtifacts(context.Background())

	// Two distinct terms match the classifier's 2-feature dimension.
	replies := []domain.Reply{
		{Content: "bagus"},
		{Content: "jelek"},
	}
	report := engine.AnalyzeCorpus(context.Background(), replies)

	if report.Metadata.Source != "model" {
		t.Fatalf("Metadata.Source = %q, want model after lazy fit", report.Metadata.Source)
	}
	if store.saved != 1 {
		t.Errorf("vectorizer saved %d times, want 1", store.saved)
	}

	// Second corpus must not refit.
	engine.AnalyzeCorpus(context.Background(), replies)
	if store.saved != 1 {
		t.Errorf("vectorizer saved %d times after second corpus, want 1", store.saved)
	}
}
