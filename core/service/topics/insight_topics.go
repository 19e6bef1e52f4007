// Package topics discovers content topics over post captions with TF-IDF
// weighting and LDA decomposition, and aggregates engagement per topic.
package topics

import (
	"context"
	"fmt"
	"sort"

	"insight_server/core/domain"
	"insight_server/core/port/out"
	"insight_server/core/service/textproc"
	"insight_server/pkg/apperr"
	"insight_server/pkg/logger"
	"insight_server/pkg/mlkit"
)

const (
	termsPerTopic    = 10
	topPostsPerTopic = 10
)

// Config controls vocabulary construction and the k search range.
type Config struct {
	MinK      int
	MaxK      int
	VocabSize int
}

// DefaultConfig returns the fitting defaults.
func DefaultConfig() Config {
	return Config{MinK: 3, MaxK: 10, VocabSize: 1000}
}

// Engine is the topic modeling engine. The optional labeler replaces the
// default "Topic N" labels; its failures always degrade to the defaults.
type Engine struct {
	cfg        Config
	normalizer *textproc.Normalizer
	labeler    out.TopicLabeler
	log        *logger.Logger
}

// NewEngine creates a topic engine. labeler may be nil.
func NewEngine(cfg Config, labeler out.TopicLabeler) *Engine {
	if cfg.MinK < 2 {
		cfg.MinK = 2
	}
	if cfg.MaxK < cfg.MinK {
		cfg.MaxK = cfg.MinK
	}
	if cfg.VocabSize <= 0 {
		cfg.VocabSize = 1000
	}
	return &Engine{
		cfg:        cfg,
		normalizer: textproc.ForSentiment(),
		labeler:    labeler,
		log:        logger.Default().WithField("engine", "topics"),
	}
}

// Fit runs topic discovery over post captions. k <= 0 triggers the
// exhaustive fit-and-score search over [MinK, MaxK]; callers needing low
// latency must pass an explicit k.
func (e *Engine) Fit(ctx context.Context, posts []domain.Post, replies []domain.Reply, k int) (*domain.TopicReport, error) {
	if len(posts) < e.cfg.MinK {
		return nil, apperr.InsufficientData("topic modeling",
			fmt.Sprintf("need at least %d posts, got %d", e.cfg.MinK, len(posts)))
	}

	docs := make([]string, len(posts))
	for i, post := range posts {
		docs[i] = e.normalizer.Normalize(post.Content)
	}

	vectorizer := mlkit.NewTfidfVectorizer(mlkit.TfidfConfig{
		MaxFeatures: e.cfg.VocabSize,
		MinDF:       2,
		MaxDF:       0.8,
	})
	if err := vectorizer.Fit(docs); err != nil {
		// Tiny corpora rarely survive min_df 2; retry without it before
		// giving up.
		vectorizer = mlkit.NewTfidfVectorizer(mlkit.TfidfConfig{MaxFeatures: e.cfg.VocabSize, MinDF: 1})
		if err := vectorizer.Fit(docs); err != nil {
			return nil, apperr.InsufficientData("topic modeling", "no terms survive vocabulary construction")
		}
	}

	tokenized := make([][]int, len(docs))
	for i, doc := range docs {
		tokenized[i] = vectorizer.TokenIDs(doc)
	}

	var model *mlkit.LDAModel
	var err error
	if k > 0 {
		model, err = mlkit.FitLDA(tokenized, len(vectorizer.IDF), mlkit.DefaultLDAConfig(k))
	} else {
		model, err = mlkit.SearchLDA(tokenized, len(vectorizer.IDF), e.cfg.MinK, e.cfg.MaxK)
	}
	if err != nil {
		return nil, apperr.ComputationFailure("lda fit", err)
	}

	report := &domain.TopicReport{K: model.K}
	report.Topics = e.buildTopics(ctx, model, vectorizer.Terms())
	report.Assignments = make([]domain.TopicAssignment, len(posts))
	for i := range posts {
		topic, strength := model.DominantTopic(i)
		report.Assignments[i] = domain.TopicAssignment{
			PostID:   posts[i].ID,
			TopicID:  topic,
			Strength: strength,
		}
	}

	matched := matchedReplyCounts(posts, replies)
	report.Engagement = aggregateEngagement(posts, report.Assignments, report.Topics, matched)
	report.TopPosts = topPosts(posts, report.Assignments, matched)

	return report, nil
}

// buildTopics assembles topics with their top terms and labels. Labeler
// failures fall back to the deterministic "Topic N" defaults.
func (e *Engine) buildTopics(ctx context.Context, model *mlkit.LDAModel, terms []string) []domain.Topic {
	topics := make([]domain.Topic, model.K)
	for t := 0; t < model.K; t++ {
		top := model.TopTerms(t, termsPerTopic)
		topicTerms := make([]string, len(top))
		for i, idx := range top {
			topicTerms[i] = terms[idx]
		}
		topics[t] = domain.Topic{
			ID:    t,
			Label: fmt.Sprintf("Topic %d", t+1),
			Terms: topicTerms,
		}
	}

	if e.labeler != nil {
		labels, err := e.labeler.LabelTopics(ctx, topics)
		if err != nil {
			e.log.WithError(err).Warn("topic labeler failed, keeping default labels")
		} else if len(labels) == len(topics) {
			for i, label := range labels {
				if label != "" {
					topics[i].Label = label
				}
			}
		}
	}
	return topics
}

// matchedReplyCounts counts replies per post by numeric thread key.
// Non-numeric identifiers on either side contribute zero.
func matchedReplyCounts(posts []domain.Post, replies []domain.Reply) map[string]int {
	replyByThread := make(map[int64]int)
	for _, reply := range replies {
		if key, ok := domain.ThreadKey(reply.ParentID); ok {
			replyByThread[key]++
		}
	}

	counts := make(map[string]int, len(posts))
	for _, post := range posts {
		if key, ok := domain.ThreadKey(post.ID); ok {
			counts[post.ID] = replyByThread[key]
		}
	}
	return counts
}

func aggregateEngagement(posts []domain.Post, assignments []domain.TopicAssignment, topics []domain.Topic, matched map[string]int) []domain.TopicEngagement {
	agg := make([]domain.TopicEngagement, len(topics))
	for t := range topics {
		agg[t] = domain.TopicEngagement{TopicID: t, TopicLabel: topics[t].Label}
	}

	for i, post := range posts {
		t := assignments[i].TopicID
		agg[t].TotalLikes += post.Likes
		agg[t].TotalRetweets += post.Retweets
		agg[t].TotalReplies += matched[post.ID]
		agg[t].TweetCount++
	}
	for t := range agg {
		agg[t].TotalEngagement = agg[t].TotalLikes + agg[t].TotalRetweets + agg[t].TotalReplies
	}

	sort.SliceStable(agg, func(i, j int) bool {
		return agg[i].TotalEngagement > agg[j].TotalEngagement
	})
	return agg
}

func topPosts(posts []domain.Post, assignments []domain.TopicAssignment, matched map[string]int) map[int][]domain.TopicPost {
	byTopic := make(map[int][]domain.TopicPost)
	for i, post := range posts {
		t := assignments[i].TopicID
		byTopic[t] = append(byTopic[t], domain.TopicPost{
			PostID:     post.ID,
			Content:    post.Content,
			Strength:   assignments[i].Strength,
			Likes:      post.Likes,
			Retweets:   post.Retweets,
			ReplyCount: matched[post.ID],
		})
	}

	for t := range byTopic {
		ranked := byTopic[t]
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Strength > ranked[j].Strength
		})
		if len(ranked) > topPostsPerTopic {
			ranked = ranked[:topPostsPerTopic]
		}
		byTopic[t] = ranked
	}
	return byTopic
}
