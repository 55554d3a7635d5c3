// Package summarizer delegates keyword extraction and answer generation
// to an OpenAI-compatible chat-completions API.
package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

const keywordPrompt = `המשתמש שאל שאלה:
"%s"

המטרה שלך היא לזהות את מילות המפתח המרכזיות בשאלה.

החזר רק מערך JSON של מחרוזות בעברית.
לדוגמה: ["ביבי", "שריפה", "2025-05-02"]

!אל תוסיף הסבר, כותרת או טקסט נוסף – רק את המערך בפורמט הזה.

תוצאה:
`

const summaryPrompt = `הודעות הטלגרם הבאות התקבלו ממקורות חדשותיים שונים:

%s

בהתבסס על ההודעות האלו, ענה בצורה מקיפה ומעמיקה על השאלה:
"%s"

המענה צריך לכלול:
- מידע עדכני ורלוונטי
- הסברים ופרשנויות לפי הצורך
- תובנות על ההשלכות האפשריות
- שימוש בתבליטים (•) במידה ויש מספר נקודות

כתוב בעברית צחה, בגובה העיניים, אך בצורה רצינית וברורה.
השתדל להפוך את המידע לעניין לקורא, לא רק רשימת כותרות.
`

// Config holds OpenAI client configuration. BaseURL overrides the default
// endpoint for OpenAI-compatible servers.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type OpenAI struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger.With("component", "summarizer"),
	}
}

// ExtractKeywords maps a free-text question to the salient terms used for
// substring retrieval. A question the model finds no keywords in yields an
// empty slice, not an error.
func (o *OpenAI) ExtractKeywords(ctx context.Context, question string) ([]string, error) {
	content, err := o.complete(ctx, fmt.Sprintf(keywordPrompt, question))
	if err != nil {
		return nil, fmt.Errorf("extract keywords: %w", err)
	}

	keywords := parseKeywords(content)

	o.logger.Debug("extracted keywords", "count", len(keywords))
	return keywords, nil
}

// Summarize answers the question from the given messages.
func (o *OpenAI) Summarize(ctx context.Context, question string, msgs []domain.Message) (string, error) {
	var sb strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&sb, "[%s] %s\n", m.Date, m.Text)
	}

	answer, err := o.complete(ctx, fmt.Sprintf(summaryPrompt, sb.String(), question))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return answer, nil
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseKeywords extracts a string list from the model output. The prompt
// asks for a JSON array, but models occasionally wrap it in prose or fall
// back to single-quoted Python-style lists, so parsing is lenient. Output
// that yields no usable terms produces an empty slice.
func parseKeywords(raw string) []string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	list := raw[start : end+1]

	var keywords []string
	if err := json.Unmarshal([]byte(list), &keywords); err != nil {
		// Python-style list: split the bracket contents manually.
		for _, part := range strings.Split(list[1:len(list)-1], ",") {
			part = strings.Trim(strings.TrimSpace(part), `'"`)
			if part != "" {
				keywords = append(keywords, part)
			}
		}
		return keywords
	}

	filtered := keywords[:0]
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			filtered = append(filtered, k)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}
