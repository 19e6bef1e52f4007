// Package emotion classifies reply text into a fixed emotion set using the
// curated lexicons only; there is no trained model for this engine.
package emotion

import (
	"strings"

	"insight_server/core/domain"
	"insight_server/core/service/textproc"
)

const (
	wordcloudSize   = 50
	wordcloudMinLen = 2
)

// Engine is the lexicon-only emotion classifier. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	normalizer *textproc.Normalizer
}

// NewEngine creates the emotion engine.
func NewEngine() *Engine {
	return &Engine{normalizer: textproc.ForEmotion()}
}

// Classify labels one raw text. Scoring walks domain.EmotionOrder and keeps
// the first category reaching the maximum, so score ties resolve to the
// earliest category in the canonical list. All-zero scores are neutral.
func (e *Engine) Classify(text string) string {
	return classifyNormalized(e.normalizer.Normalize(text))
}

func classifyNormalized(normalized string) string {
	if normalized == "" {
		return domain.EmotionNeutral
	}

	// Space padding turns substring checks at the ends into exact
	// space-delimited matches.
	padded := " " + normalized + " "

	best := domain.EmotionNeutral
	bestScore := 0
	for _, category := range domain.EmotionOrder {
		score := 0
		for _, phrase := range textproc.EmotionLexicons[category] {
			if strings.Contains(padded, " "+phrase+" ") {
				score += 2
			} else if strings.Contains(padded, phrase) {
				score++
			}
		}
		// Strictly greater keeps earlier categories on ties.
		if score > bestScore {
			best = category
			bestScore = score
		}
	}
	return best
}

// AnalyzeCorpus classifies every reply and assembles the emotion report.
func (e *Engine) AnalyzeCorpus(replies []domain.Reply) *domain.EmotionReport {
	categories := append([]string{}, domain.EmotionOrder...)
	categories = append(categories, domain.EmotionNeutral)

	report := &domain.EmotionReport{
		Distribution: make(map[string]domain.CategoryStat, len(categories)),
		ByEngagement: make(map[string]int, len(categories)),
		Wordclouds:   make(map[string][]domain.WordCount, len(categories)),
	}
	if len(replies) == 0 {
		for _, category := range categories {
			report.Distribution[category] = domain.CategoryStat{}
		}
		return report
	}

	threadSize := make(map[int64]int)
	for _, reply := range replies {
		if key, ok := domain.ThreadKey(reply.ParentID); ok {
			threadSize[key]++
		}
	}

	perCategory := make(map[string][]string, len(categories))
	counts := make(map[string]int, len(categories))
	for _, reply := range replies {
		normalized := e.normalizer.Normalize(reply.Content)
		category := classifyNormalized(normalized)
		counts[category]++
		perCategory[category] = append(perCategory[category], normalized)

		engagement := reply.Likes + reply.Retweets
		if key, ok := domain.ThreadKey(reply.ParentID); ok {
			engagement += threadSize[key]
		}
		report.ByEngagement[category] += engagement
	}

	report.TotalAnalyzed = len(replies)
	for _, category := range categories {
		report.Distribution[category] = domain.CategoryStat{
			Count:      counts[category],
			Percentage: textproc.Percentage(counts[category], report.TotalAnalyzed),
		}
		wc := textproc.WordFrequency(perCategory[category], wordcloudMinLen, wordcloudSize)
		words := make([]domain.WordCount, len(wc))
		for i, wf := range wc {
			words[i] = domain.WordCount{Word: wf.Word, Count: wf.Count}
		}
		report.Wordclouds[category] = words
	}

	return report
}
