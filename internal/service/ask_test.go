package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
	"github.com/shalom2552/InstaBriefBot/internal/service/mocks"
)

type AskServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	messages   *mocks.MockMessageStore
	summarizer *mocks.MockSummarizer

	service *AskService
}

func (s *AskServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.messages = mocks.NewMockMessageStore(s.ctrl)
	s.summarizer = mocks.NewMockSummarizer(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.service = NewAskService(s.messages, s.summarizer, NewKeywordCache(64), logger)
}

func (s *AskServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AskServiceTestSuite))
}

func (s *AskServiceTestSuite) TestAsk_Answers() {
	ctx := context.Background()
	question := "מה קרה היום?"
	keywords := []string{"חדשות", "היום"}
	matches := []domain.Message{
		{Date: "2024-01-02", Text: "חדשות של היום"},
	}

	s.summarizer.EXPECT().ExtractKeywords(ctx, question).Return(keywords, nil)
	s.messages.EXPECT().SearchByKeywords(ctx, keywords, searchLimit).Return(matches, nil)
	s.summarizer.EXPECT().Summarize(ctx, question, matches).Return("הסיכום", nil)

	result, err := s.service.Ask(ctx, 42, question)

	s.NoError(err)
	s.True(result.Found)
	s.Equal("הסיכום", result.Answer)
	s.Equal(keywords, result.Keywords)

	// The extracted set is retained for /debug.
	got, ok := s.service.LastKeywords(42)
	s.True(ok)
	s.Equal(keywords, got)
}

func (s *AskServiceTestSuite) TestAsk_NoKeywordsShortCircuits() {
	ctx := context.Background()

	// No search, no summarize: an empty extraction must not degenerate
	// into a match-everything pattern.
	s.summarizer.EXPECT().ExtractKeywords(ctx, "???").Return(nil, nil)

	result, err := s.service.Ask(ctx, 42, "???")

	s.NoError(err)
	s.False(result.Found)
	s.Empty(result.Keywords)

	_, ok := s.service.LastKeywords(42)
	s.False(ok)
}

func (s *AskServiceTestSuite) TestAsk_NoMatches() {
	ctx := context.Background()
	keywords := []string{"נושא נדיר"}

	s.summarizer.EXPECT().ExtractKeywords(ctx, "שאלה").Return(keywords, nil)
	s.messages.EXPECT().SearchByKeywords(ctx, keywords, searchLimit).Return(nil, nil)

	result, err := s.service.Ask(ctx, 42, "שאלה")

	s.NoError(err)
	s.False(result.Found)
	s.Equal(keywords, result.Keywords)
}

func (s *AskServiceTestSuite) TestAsk_ExtractionError() {
	ctx := context.Background()

	s.summarizer.EXPECT().ExtractKeywords(ctx, "שאלה").Return(nil, errors.New("api error"))

	_, err := s.service.Ask(ctx, 42, "שאלה")

	s.Error(err)
	s.Contains(err.Error(), "extract keywords")
}

func (s *AskServiceTestSuite) TestProbe() {
	ctx := context.Background()
	keywords := []string{"א", "ב"}
	matches := []domain.Message{
		{Date: "2024-01-03", Text: "הכי חדש"},
		{Date: "2024-01-01", Text: "ישן"},
	}

	s.messages.EXPECT().SearchByKeywords(ctx, keywords, probeLimit).Return(matches, nil)

	result, err := s.service.Probe(ctx, keywords)

	s.NoError(err)
	s.Equal(2, result.Count)
	s.Require().NotNil(result.Latest)
	s.Equal("הכי חדש", result.Latest.Text)
}

func (s *AskServiceTestSuite) TestProbe_NoMatches() {
	ctx := context.Background()

	s.messages.EXPECT().SearchByKeywords(ctx, []string{"כלום"}, probeLimit).Return(nil, nil)

	result, err := s.service.Probe(ctx, []string{"כלום"})

	s.NoError(err)
	s.Equal(0, result.Count)
	s.Nil(result.Latest)
}
