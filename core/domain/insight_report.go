package domain

import "time"

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Emotion labels. EmotionOrder is the tie-break order for the lexicon scorer.
const (
	EmotionJoy      = "joy"
	EmotionAnger    = "anger"
	EmotionSadness  = "sadness"
	EmotionFear     = "fear"
	EmotionSurprise = "surprise"
	EmotionDisgust  = "disgust"
	EmotionNeutral  = "neutral"
)

// EmotionOrder fixes the evaluation order; earlier emotions win score ties.
var EmotionOrder = []string{
	EmotionJoy,
	EmotionAnger,
	EmotionSadness,
	EmotionFear,
	EmotionSurprise,
	EmotionDisgust,
}

// CategoryStat is a labeled count with its share of the corpus.
type CategoryStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// WordCount is a wordcloud entry.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SentimentMetadata records which scoring path produced a report.
type SentimentMetadata struct {
	Source             string     `json:"source"` // "model" or "lexicon_fallback"
	VectorizerFittedAt *time.Time `json:"vectorizer_fitted_at,omitempty"`
}

// SentimentReport is the full sentiment analysis output. Wordclouds and
// Topics are keyed by sentiment label.
type SentimentReport struct {
	Distribution  map[string]CategoryStat `json:"sentiment_distribution"`
	ByEngagement  map[string]int          `json:"sentiment_by_engagement"`
	ByRetweet     map[string]int          `json:"sentiment_by_retweet"`
	Wordclouds    map[string][]WordCount  `json:"wordcloud_data"`
	Topics        map[string][]Topic      `json:"topics"`
	TotalAnalyzed int                     `json:"total_analyzed"`
	Metadata      SentimentMetadata       `json:"metadata"`
}

// EmotionReport is the full emotion analysis output.
type EmotionReport struct {
	Distribution  map[string]CategoryStat `json:"emotion_distribution"`
	ByEngagement  map[string]int          `json:"emotion_by_engagement"`
	Wordclouds    map[string][]WordCount  `json:"emotion_wordclouds"`
	TotalAnalyzed int                     `json:"total_analyzed"`
}

// Topic is one discovered topic with its top terms.
type Topic struct {
	ID    int      `json:"topic_id"`
	Label string   `json:"topic_label"`
	Terms []string `json:"terms"`
}

// TopicAssignment maps a post to its dominant topic.
type TopicAssignment struct {
	PostID   string  `json:"post_id"`
	TopicID  int     `json:"topic_id"`
	Strength float64 `json:"topic_strength"`
}

// TopicEngagement aggregates engagement per topic.
type TopicEngagement struct {
	TopicID         int    `json:"topic_id"`
	TopicLabel      string `json:"topic_label"`
	TotalLikes      int    `json:"total_likes"`
	TotalReplies    int    `json:"total_replies"`
	TotalRetweets   int    `json:"total_retweets"`
	TotalEngagement int    `json:"total_engagement"`
	TweetCount      int    `json:"tweet_count"`
}

// TopicPost is a ranked post within a topic. ReplyCount is the number of
// matched rows in the reply corpus, not the post record's cached count.
type TopicPost struct {
	PostID     string  `json:"post_id"`
	Content    string  `json:"content"`
	Strength   float64 `json:"topic_strength"`
	Likes      int     `json:"likes"`
	Retweets   int     `json:"retweets"`
	ReplyCount int     `json:"reply_count"`
}

// TopicReport is the full topic model output.
type TopicReport struct {
	K           int                 `json:"k"`
	Topics      []Topic             `json:"topics"`
	Assignments []TopicAssignment   `json:"assignments"`
	Engagement  []TopicEngagement   `json:"topic_engagement"`
	TopPosts    map[int][]TopicPost `json:"top_posts"`
}

// PeakRange is a contiguous peak activity window found by clustering.
type PeakRange struct {
	ClusterID   int     `json:"cluster_id"`
	StartHour   int     `json:"start_hour"`
	EndHour     int     `json:"end_hour"`
	Range       string  `json:"range"`
	AvgActivity float64 `json:"avg_activity"`
}

// ScatterPoint is a PCA-projected hour for the activity scatter plot.
type ScatterPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Hour      int     `json:"hour"`
	Count     int     `json:"count"`
	Cluster   int     `json:"cluster"` // -1 means outlier
	IsOutlier bool    `json:"is_outlier"`
}

// ActivityReport is the peak activity clustering output.
type ActivityReport struct {
	PeakRanges         []PeakRange    `json:"peak_ranges"`
	Scatter            []ScatterPoint `json:"scatter"`
	ExplainedVariance  []float64      `json:"explained_variance"`
	TotalHoursAnalyzed int            `json:"total_hours_analyzed"`
	UniqueHours        int            `json:"unique_hours"`
	NumClusters        int            `json:"num_clusters"`
	NumOutliers        int            `json:"num_outliers"`
}

// BasicStats is the descriptive statistics summary.
type BasicStats struct {
	TotalPosts      int        `json:"total_posts"`
	TotalLikes      int        `json:"total_likes"`
	TotalRetweets   int        `json:"total_retweets"`
	TotalReplies    int        `json:"total_replies"`
	TotalEngagement int        `json:"total_engagement"`
	AvgLikes        float64    `json:"avg_likes"`
	AvgRetweets     float64    `json:"avg_retweets"`
	AvgReplies      float64    `json:"avg_replies"`
	AvgEngagement   float64    `json:"avg_engagement"`
	PostingDays     int        `json:"posting_days"`
	FirstPostAt     *time.Time `json:"first_post_at,omitempty"`
	LastPostAt      *time.Time `json:"last_post_at,omitempty"`
}

// MetricDelta compares the latest post against the mean of all prior posts.
type MetricDelta struct {
	Latest    float64 `json:"latest"`
	PriorMean float64 `json:"prior_mean"`
	DeltaPct  float64 `json:"delta_pct"`
}

// StatsWithDelta augments BasicStats with last-post deltas.
type StatsWithDelta struct {
	BasicStats BasicStats  `json:"basic_stats"`
	Likes      MetricDelta `json:"likes"`
	Retweets   MetricDelta `json:"retweets"`
	Engagement MetricDelta `json:"engagement"`
}

// DayEngagement aggregates engagement for one day of week.
type DayEngagement struct {
	Day             string `json:"day"`
	Posts           int    `json:"posts"`
	Likes           int    `json:"likes"`
	Retweets        int    `json:"retweets"`
	TotalEngagement int    `json:"total_engagement"`
}

// TypeEngagement aggregates engagement per post type.
type TypeEngagement struct {
	Type            string  `json:"type"`
	Posts           int     `json:"posts"`
	Likes           int     `json:"likes"`
	Retweets        int     `json:"retweets"`
	TotalEngagement int     `json:"total_engagement"`
	AvgEngagement   float64 `json:"avg_engagement"`
}

// HashtagCount is a ranked hashtag.
type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// PostDetail is a single post with its conversation context.
type PostDetail struct {
	Post           Post        `json:"post"`
	Hashtags       []string    `json:"hashtags"`
	Replies        []Reply     `json:"replies"`
	ReplyWordcloud []WordCount `json:"reply_wordcloud"`
}

// Overview is the combined analytics payload.
type Overview struct {
	BasicStats       StatsWithDelta   `json:"statistics"`
	Sentiment        *SentimentReport `json:"sentiment,omitempty"`
	Emotion          *EmotionReport   `json:"emotion,omitempty"`
	Activity         *ActivityReport  `json:"peak_activity,omitempty"`
	Hashtags         []HashtagCount   `json:"top_hashtags"`
	EngagementByDay  []DayEngagement  `json:"engagement_by_day"`
	EngagementByType []TypeEngagement `json:"engagement_by_type"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
