package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	nlquerymock "github.com/riskibarqy/football-stats/internal/mocks/domain/nlquery"
	"github.com/stretchr/testify/mock"
)

func TestQuerySynthesizer_ReturnsCompletionVerbatim(t *testing.T) {
	t.Parallel()

	model := nlquerymock.NewLanguageModel(t)
	raw := "\nSELECT * FROM players WHERE age < 21\n"
	model.On("Generate", mock.Anything, synthesisTurns("young players")).Return(raw, nil).Once()

	stmt, err := NewQuerySynthesizer(model, time.Second).Synthesize(context.Background(), "young players", nlquery.DefaultSchema().Describe())
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if stmt.String() != raw {
		t.Fatalf("expected completion to be returned untouched, got %q", stmt)
	}
}

func TestQuerySynthesizer_ModelErrorIsSynthesisFailure(t *testing.T) {
	t.Parallel()

	model := nlquerymock.NewLanguageModel(t)
	cause := errors.New("permission denied on resource project")
	model.On("Generate", mock.Anything, mock.Anything).Return("", cause).Once()

	_, err := NewQuerySynthesizer(model, 0).Synthesize(context.Background(), "q", "schema")
	if !errors.Is(err, nlquery.ErrSynthesisFailure) || !errors.Is(err, cause) {
		t.Fatalf("expected synthesis failure wrapping cause, got %v", err)
	}
}

func TestResultFormatter_ModelErrorIsFormattingFailure(t *testing.T) {
	t.Parallel()

	model := nlquerymock.NewLanguageModel(t)
	model.On("Generate", mock.Anything, formattingTurns(func(human string) bool { return human == "[]" })).Return("", errors.New("unavailable")).Once()

	_, err := NewResultFormatter(model, time.Second).Format(context.Background(), nlquery.RowSet{})
	if !errors.Is(err, nlquery.ErrFormattingFailure) {
		t.Fatalf("expected formatting failure, got %v", err)
	}
}
