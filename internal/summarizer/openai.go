package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/iceymoss/sentinelpost/internal/core"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMSummarizer produces abstractive summaries through an OpenAI-compatible
// chat endpoint (OpenAI, DeepSeek, local vLLM, ...).
type LLMSummarizer struct {
	apiKey     string
	baseURL    string
	model      string
	candidates int
}

var _ core.Summarizer = (*LLMSummarizer)(nil)

func NewLLMSummarizer(apiKey, baseURL, model string, candidates int) *LLMSummarizer {
	if candidates <= 0 {
		candidates = 1
	}
	return &LLMSummarizer{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		candidates: candidates,
	}
}

const summarizePrompt = `Summarize the following news text in 2-3 plain sentences. Keep concrete facts (names, numbers, places). No preamble, no markdown, respond with the summary only.

Text:
%s`

// Summarize returns candidate summaries for the text. The model is asked
// for n completions; every non-empty choice becomes one candidate.
func (s *LLMSummarizer) Summarize(ctx context.Context, text string) ([]string, error) {
	// Truncate oversized inputs, the leading content carries the story
	if len(text) > 20000 {
		text = text[:20000] + "..."
	}

	llm, err := openai.New(
		openai.WithToken(s.apiKey),
		openai.WithBaseURL(s.baseURL),
		openai.WithModel(s.model),
	)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(summarizePrompt, text)

	resp, err := llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithTemperature(0.3),
		llms.WithCandidateCount(s.candidates),
	)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	candidates := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		content := strings.TrimSpace(choice.Content)
		if content != "" {
			candidates = append(candidates, content)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("summarizer returned no candidates")
	}
	return candidates, nil
}
