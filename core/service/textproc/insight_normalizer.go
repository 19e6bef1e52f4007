// Package textproc implements the shared text normalization pipeline and the
// lexicon tables used by the sentiment and emotion engines.
package textproc

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	camelBoundary  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	emojiPattern   = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{27B0}\x{1F900}-\x{1F9FF}\x{2B00}-\x{2BFF}\x{FE0F}]`)
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Options configures a Normalizer per engine. Engines share the pipeline
// shape but differ in emoji maps, stopword filtering and token length.
type Options struct {
	EmojiMap    map[string]string
	Stopwords   map[string]struct{}
	MinTokenLen int // tokens shorter than this are dropped; 0 disables
}

// Normalizer applies the fixed normalization pipeline. It is a total
// function over strings: any input, including empty, yields a string.
type Normalizer struct {
	opts Options
}

// NewNormalizer builds a normalizer with the given per-engine options.
func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// ForSentiment returns the normalizer used by the sentiment engine and the
// topic model: sentiment emoji map, stopword and profanity filtering, and a
// 3-character token minimum.
func ForSentiment() *Normalizer {
	return NewNormalizer(Options{
		EmojiMap:    SentimentEmojiMap,
		Stopwords:   Stopwords,
		MinTokenLen: 3,
	})
}

// ForEmotion returns the emotion engine normalizer. Stopwords are kept so
// short lexicon phrases keep matching; only the token length filter applies.
func ForEmotion() *Normalizer {
	return NewNormalizer(Options{
		EmojiMap:    EmotionEmojiMap,
		MinTokenLen: 3,
	})
}

// Normalize runs the pipeline in its fixed order. Step order matters: the
// hashtag camel-case split must run before lowercasing, and the repeat
// collapse before the non-word sweep.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	text := raw

	// 1. Known emoji become space-padded keywords
	for emoji, keyword := range n.opts.EmojiMap {
		if strings.Contains(text, emoji) {
			text = strings.ReplaceAll(text, emoji, " "+keyword+" ")
		}
	}

	// 2. URLs and mentions
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")

	// 3. Hashtags split at camel-case boundaries, lowercased in place
	text = hashtagPattern.ReplaceAllStringFunc(text, func(m string) string {
		tag := strings.TrimPrefix(m, "#")
		return strings.ToLower(camelBoundary.ReplaceAllString(tag, "$1 $2"))
	})

	// 4. Unmapped emoji ranges
	text = emojiPattern.ReplaceAllString(text, " ")

	// 5. Lowercase
	text = strings.ToLower(text)

	// 6. Anti-shouting: runs of 4+ identical runes collapse to 2
	text = collapseRepeats(text)

	// 7. Remaining symbols become spaces
	text = nonWordPattern.ReplaceAllString(text, " ")

	// 8. Whitespace collapse
	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))

	// 9. Stopword and length filtering
	if n.opts.Stopwords == nil && n.opts.MinTokenLen == 0 {
		return text
	}
	tokens := strings.Fields(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if n.opts.MinTokenLen > 0 && len(tok) < n.opts.MinTokenLen {
			continue
		}
		if n.opts.Stopwords != nil {
			if _, drop := n.opts.Stopwords[tok]; drop {
				continue
			}
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// collapseRepeats reduces runs of 4 or more identical runes to 2.
func collapseRepeats(s string) string {
	runes := []rune(s)
	if len(runes) < 4 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	runStart := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && runes[i] == runes[runStart] {
			continue
		}
		runLen := i - runStart
		if runLen >= 4 {
			runLen = 2
		}
		for j := 0; j < runLen; j++ {
			b.WriteRune(runes[runStart])
		}
		runStart = i
	}
	return b.String()
}

// WordFrequency counts whitespace tokens longer than minLen across already
// normalized texts and returns the top n by count. Ties keep first-seen
// order for stable wordclouds.
func WordFrequency(texts []string, minLen, n int) []WordFreq {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, text := range texts {
		for _, tok := range strings.Fields(text) {
			if len(tok) <= minLen {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	ranked := make([]WordFreq, 0, len(order))
	for _, word := range order {
		ranked = append(ranked, WordFreq{Word: word, Count: counts[word]})
	}
	// Stable: equal counts keep first-seen order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// WordFreq is a ranked token.
type WordFreq struct {
	Word  string
	Count int
}

// Percentage returns count/total as a percentage rounded to 2 decimals.
// A zero total yields 0 rather than NaN.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*10000) / 100
}
