// Package domain contains the core entities of the analytics pipeline.
package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostType values observed in exported data.
const (
	PostTypeTweet   = "Tweet"
	PostTypeReply   = "Reply"
	PostTypeRetweet = "Retweet"
	PostTypeQuote   = "Quote"
)

// Dataset is a named collection of posts and replies under analysis.
type Dataset struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Active     bool      `json:"active" db:"active"`
	PostCount  int       `json:"post_count" db:"post_count"`
	ReplyCount int       `json:"reply_count" db:"reply_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Post is a single social media post.
type Post struct {
	ID        string    `json:"id" db:"id"`
	DatasetID uuid.UUID `json:"dataset_id" db:"dataset_id"`
	Author    string    `json:"author" db:"author"`
	Content   string    `json:"content" db:"content"`
	PostType  string    `json:"post_type" db:"post_type"`
	Permalink string    `json:"permalink" db:"permalink"`
	Likes     int       `json:"likes" db:"likes"`
	Retweets  int       `json:"retweets" db:"retweets"`
	// Replies is the cached count from the post record. It can diverge from
	// the number of matched rows in the reply corpus; both are reported as-is.
	Replies   int       `json:"replies" db:"replies"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Reply is a response to a post, matched by the parent post ID in its permalink.
type Reply struct {
	ID        string    `json:"id" db:"id"`
	DatasetID uuid.UUID `json:"dataset_id" db:"dataset_id"`
	ParentID  string    `json:"parent_id" db:"parent_id"`
	Author    string    `json:"author" db:"author"`
	Content   string    `json:"content" db:"content"`
	Permalink string    `json:"permalink" db:"permalink"`
	Likes     int       `json:"likes" db:"likes"`
	Retweets  int       `json:"retweets" db:"retweets"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Engagement returns likes + retweets + matched reply count.
func (p *Post) Engagement(replyCount int) int {
	return p.Likes + p.Retweets + replyCount
}

// Hashtags extracts #tags from the raw content, lowercased, order preserved.
func (p *Post) Hashtags() []string {
	matches := hashtagPattern.FindAllString(p.Content, -1)
	tags := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, m := range matches {
		tag := strings.ToLower(m)
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

var (
	hashtagPattern  = regexp.MustCompile(`#\w+`)
	statusIDPattern = regexp.MustCompile(`/status/(\d+)`)
)

// Twitter export timestamp, e.g. "Sat Nov 15 23:59:58 +0000 2025".
const twitterTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// ParseTwitterTime parses the classic Twitter export timestamp.
func ParseTwitterTime(s string) (time.Time, error) {
	return time.Parse(twitterTimeLayout, strings.TrimSpace(s))
}

// ParsePostTime accepts the Twitter export format, RFC 3339, and the
// plain "2006-01-02 15:04:05" form used by older exports.
func ParsePostTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(twitterTimeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// ExtractPermalinkID resolves the post ID a permalink points at. The
// /status/<id> segment wins; otherwise the trailing path segment is used.
func ExtractPermalinkID(permalink string) string {
	if m := statusIDPattern.FindStringSubmatch(permalink); m != nil {
		return m[1]
	}
	trimmed := strings.TrimRight(strings.TrimSpace(permalink), "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// ThreadKey coerces an identifier to its numeric thread key. Post-reply
// linkage is by numeric equality; non-numeric identifiers never match and
// contribute zero, they are not an error.
func ThreadKey(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CoerceCount converts loosely typed numeric fields (string or float
// in exports) to an int, silently treating garbage as zero.
func CoerceCount(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}
