// Package openai labels discovered topics with an LLM. Calls go through a
// circuit breaker so a flaky upstream degrades to the default labels fast.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"insight_server/core/domain"
	"insight_server/core/port/out"
	"insight_server/pkg/logger"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	systemPrompt = "You label topics discovered by a topic model over social media posts. " +
		"Given the top terms per topic, answer with a JSON array of short labels " +
		"(2-4 words each), one per topic, in order. Answer with the JSON array only."
)

// Config holds the labeler configuration.
type Config struct {
	APIKey string
	Model  string
}

// TopicLabeler implements out.TopicLabeler on the OpenAI chat API.
type TopicLabeler struct {
	client *openai.Client
	model  string
	cb     *gobreaker.CircuitBreaker
	log    *logger.Logger
}

var _ out.TopicLabeler = (*TopicLabeler)(nil)

// NewTopicLabeler creates the labeler with its circuit breaker.
func NewTopicLabeler(cfg Config) *TopicLabeler {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	log := logger.Default().WithField("adapter", "openai")
	cbSettings := gobreaker.Settings{
		Name:        "openai-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithField("from", from.String()).
				WithField("to", to.String()).
				Warn("circuit breaker state changed")
		},
	}

	return &TopicLabeler{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
		cb:     gobreaker.NewCircuitBreaker(cbSettings),
		log:    log,
	}
}

// LabelTopics produces one human label per topic. Any failure is returned
// to the caller, which keeps the deterministic default labels.
func (l *TopicLabeler) LabelTopics(ctx context.Context, topics []domain.Topic) ([]string, error) {
	if len(topics) == 0 {
		return nil, nil
	}

	var prompt strings.Builder
	for i, topic := range topics {
		fmt.Fprintf(&prompt, "Topic %d terms: %s\n", i+1, strings.Join(topic.Terms, ", "))
	}

	result, err := l.cb.Execute(func() (any, error) {
		resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: l.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
			},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return nil, fmt.Errorf("label topics: %w", err)
	}

	labels, err := parseLabels(result.(string), len(topics))
	if err != nil {
		return nil, fmt.Errorf("label topics: %w", err)
	}
	return labels, nil
}

// parseLabels extracts the JSON array from the completion, tolerating
// fenced code blocks around it.
func parseLabels(content string, want int) ([]string, error) {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "["); start >= 0 {
		if end := strings.LastIndex(content, "]"); end > start {
			content = content[start : end+1]
		}
	}

	var labels []string
	if err := json.Unmarshal([]byte(content), &labels); err != nil {
		return nil, fmt.Errorf("parse completion: %w", err)
	}
	if len(labels) != want {
		return nil, fmt.Errorf("got %d labels for %d topics", len(labels), want)
	}
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}
	return labels, nil
}
