package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

const (
	searchLimit = 20
	probeLimit  = 1000
)

// AskService answers ad-hoc questions: keywords are extracted from the
// question, matching messages retrieved, and the result summarized.
type AskService struct {
	messages   MessageStore
	summarizer Summarizer
	keywords   *KeywordCache
	logger     *slog.Logger
}

func NewAskService(messages MessageStore, summarizer Summarizer, keywords *KeywordCache, logger *slog.Logger) *AskService {
	return &AskService{
		messages:   messages,
		summarizer: summarizer,
		keywords:   keywords,
		logger:     logger.With("component", "ask"),
	}
}

// AskResult is the outcome of answering one question. Found is false when
// no usable keywords were extracted or no stored message matched; Answer
// is set only when Found is true.
type AskResult struct {
	Answer   string
	Keywords []string
	Found    bool
}

func (a *AskService) Ask(ctx context.Context, userID int64, question string) (*AskResult, error) {
	keywords, err := a.summarizer.ExtractKeywords(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("extract keywords: %w", err)
	}

	a.logger.Info("extracted keywords", "user_id", userID, "keywords", keywords)

	// Without keywords the search pattern would degenerate to matching
	// every stored message; report "no results" instead.
	if len(keywords) == 0 {
		return &AskResult{Found: false}, nil
	}

	a.keywords.Put(userID, keywords)

	msgs, err := a.messages.SearchByKeywords(ctx, keywords, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}

	if len(msgs) == 0 {
		return &AskResult{Keywords: keywords, Found: false}, nil
	}

	answer, err := a.summarizer.Summarize(ctx, question, msgs)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	return &AskResult{Answer: answer, Keywords: keywords, Found: true}, nil
}

// LastKeywords returns the most recent keyword set extracted for the user.
func (a *AskService) LastKeywords(userID int64) ([]string, bool) {
	return a.keywords.Get(userID)
}

// ProbeResult describes what a keyword set currently matches in the store.
type ProbeResult struct {
	Count  int
	Latest *domain.Message
}

// Probe reports how many stored messages a keyword set matches and the
// newest match, for the diagnostics command.
func (a *AskService) Probe(ctx context.Context, keywords []string) (*ProbeResult, error) {
	matches, err := a.messages.SearchByKeywords(ctx, keywords, probeLimit)
	if err != nil {
		return nil, fmt.Errorf("probe keywords: %w", err)
	}

	result := &ProbeResult{Count: len(matches)}
	if len(matches) > 0 {
		result.Latest = &matches[0]
	}
	return result, nil
}
