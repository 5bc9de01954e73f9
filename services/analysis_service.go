package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// SwipeSample is one (card, decision) pair fed into the preference analysis.
type SwipeSample struct {
	Name        string
	Tag         string
	Description string
	Direction   string // like, nope
}

const analysisSystemPrompt = "You are a fashion style analyst. You distill a " +
	"shopper's taste into a short, friendly description with style tags, based " +
	"on the products they liked and passed on."

// AnalysisService calls the external text-generation service (Groq's
// OpenAI-compatible API) to turn recent swipes into a preference description.
// The response is opaque free text; tags come back either as inline #tags or
// as a trailing comma-separated line — ExtractPreferenceTags handles both.
type AnalysisService struct {
	Client      *openai.Client
	Logger      *zap.Logger
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewAnalysisClient builds an OpenAI client pointed at a Groq-compatible base URL.
func NewAnalysisClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// BuildAnalysisPrompt renders the liked/passed sections the model sees.
func BuildAnalysisPrompt(samples []SwipeSample) string {
	var liked, noped []SwipeSample
	for _, sample := range samples {
		if sample.Direction == "like" {
			liked = append(liked, sample)
		} else {
			noped = append(noped, sample)
		}
	}

	var b strings.Builder
	b.WriteString("Here are fashion products a shopper recently judged.\n\nLiked products:\n")
	writeSamples(&b, liked)
	b.WriteString("\nPassed products:\n")
	writeSamples(&b, noped)
	b.WriteString(`
Based on this, describe the shopper's fashion taste:
- Extract the traits the liked products share (e.g. minimal, casual, practical, feminine, trendy).
- Use the passed products only to infer styles to avoid; do not describe dislikes in the answer.
- Address the shopper warmly as "you".
- Finish with a single line of 3-5 style tags, comma separated, each prefixed with #.
- Output only the description paragraph and the final tag line, nothing else.`)
	return b.String()
}

func writeSamples(b *strings.Builder, samples []SwipeSample) {
	if len(samples) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for i, sample := range samples {
		fmt.Fprintf(b, "%d. name: %s", i+1, sample.Name)
		if sample.Description != "" {
			fmt.Fprintf(b, ", description: %s", sample.Description)
		}
		if sample.Tag != "" {
			fmt.Fprintf(b, ", tags: %s", sample.Tag)
		}
		b.WriteString("\n")
	}
}

// AnalyzeSwipes runs one chat completion over the samples and returns the raw
// preference text. The call carries its own timeout; it is the only step in
// the system with materially unbounded latency.
func (s *AnalysisService) AnalyzeSwipes(ctx context.Context, samples []SwipeSample) (string, error) {
	if s.Client == nil {
		return "", errors.New("analysis client not configured")
	}
	if len(samples) == 0 {
		return "", errors.New("no swipe data provided")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildAnalysisPrompt(samples)},
		},
		Temperature: float32(s.Temperature),
		MaxTokens:   s.MaxTokens,
	})
	if err != nil {
		s.Logger.Error("❌ Preference analysis call failed", zap.Error(err))
		return "", fmt.Errorf("preference analysis failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no preference text returned")
	}
	preference := strings.TrimSpace(resp.Choices[0].Message.Content)
	if preference == "" {
		return "", errors.New("no preference text returned")
	}

	s.Logger.Info("✅ Preference analysis complete", zap.Int("chars", len(preference)))
	return preference, nil
}
