// Package gateway fetches channel history from an MTProto bridge exposing
// channel posts as JSON over HTTP.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

// Config holds gateway client configuration.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	MaxAttempts      int
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	ProgressInterval int
}

// Source implements service.Source against the history gateway.
type Source struct {
	httpClient       *http.Client
	baseURL          string
	maxAttempts      int
	initialBackoff   time.Duration
	maxBackoff       time.Duration
	progressInterval int
	logger           *slog.Logger
}

// New creates a new gateway source.
func New(cfg Config, logger *slog.Logger) *Source {
	progressInterval := cfg.ProgressInterval
	if progressInterval <= 0 {
		progressInterval = 500
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:          cfg.BaseURL,
		maxAttempts:      cfg.MaxAttempts,
		initialBackoff:   cfg.InitialBackoff,
		maxBackoff:       cfg.MaxBackoff,
		progressInterval: progressInterval,
		logger:           logger.With("source", "gateway"),
	}
}

// FetchMessages fetches up to limit messages for channel with ids strictly
// greater than minID, in the order the gateway returns them. Messages
// without text content are dropped. The progress callback, when non-nil,
// fires at a fixed consulted-message interval.
func (s *Source) FetchMessages(ctx context.Context, channel string, minID int64, limit int, progress domain.ProgressFunc) ([]domain.Message, error) {
	reqURL := fmt.Sprintf("%s/messages?channel=%s&min_id=%d&limit=%d",
		s.baseURL, url.QueryEscape(channel), minID, limit)

	resp, err := s.fetch(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", channel, err)
	}

	s.logger.Debug("fetched channel history",
		"channel", channel,
		"min_id", minID,
		"messages", len(resp.Messages),
		"has_more", resp.HasMore,
	)

	return s.transform(channel, resp.Messages, progress), nil
}

func (s *Source) fetch(ctx context.Context, url string) (*apiResponse, error) {
	var resp *apiResponse
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err = s.doRequest(ctx, url)
		if err == nil {
			return resp, nil
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, url string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "InstaBriefBot/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func (s *Source) transform(channel string, raw []apiMessage, progress domain.ProgressFunc) []domain.Message {
	msgs := make([]domain.Message, 0, len(raw))

	for i, m := range raw {
		consulted := i + 1
		if progress != nil && consulted%s.progressInterval == 0 {
			progress(channel, consulted)
		}

		if m.Text == "" {
			continue
		}

		msgs = append(msgs, domain.Message{
			MessageID: m.ID,
			Channel:   channel,
			Date:      m.Date,
			Text:      m.Text,
		})
	}

	return msgs
}
