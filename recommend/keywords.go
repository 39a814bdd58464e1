package recommend

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const maxKeywords = 5

// KeywordExtractor derives short search keywords from note texts.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, noteTexts []string) ([]string, error)
}

// ThemeExtractor asks a chat model for the dominant career themes in the
// user's notes. The model sees the note text itself; embedding floats carry
// no meaning to a language model and are never put in a prompt.
type ThemeExtractor struct {
	llm    *openai.Client
	model  string
	prompt string
}

func NewThemeExtractor(llm *openai.Client, model, prompt string) *ThemeExtractor {
	return &ThemeExtractor{
		llm:    llm,
		model:  model,
		prompt: prompt,
	}
}

func (t *ThemeExtractor) ExtractKeywords(ctx context.Context, noteTexts []string) ([]string, error) {
	resp, err := t.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: t.prompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: strings.Join(noteTexts, "\n\n"),
			},
		},
		Temperature: 0.2,
		MaxTokens:   100,
	})
	if err != nil {
		return nil, fmt.Errorf("err derive themes: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("err derive themes: empty completion")
	}

	var keywords []string
	for _, part := range strings.Split(resp.Choices[0].Message.Content, ",") {
		kw := strings.TrimSpace(part)
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
		if len(keywords) == maxKeywords {
			break
		}
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("err derive themes: no keywords in completion")
	}
	return keywords, nil
}
