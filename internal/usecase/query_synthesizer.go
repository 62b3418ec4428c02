package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"go.opentelemetry.io/otel/attribute"
)

// QuerySynthesizer turns a question into SQL text with one model call.
type QuerySynthesizer struct {
	model   nlquery.LanguageModel
	timeout time.Duration
}

func NewQuerySynthesizer(model nlquery.LanguageModel, timeout time.Duration) *QuerySynthesizer {
	return &QuerySynthesizer{model: model, timeout: timeout}
}

// Synthesize sends the schema description as the system turn and the
// question as the human turn. The completion is returned untouched.
func (s *QuerySynthesizer) Synthesize(ctx context.Context, question, schemaDescription string) (stmt nlquery.SQLStatement, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuerySynthesizer.Synthesize",
		attribute.Int("nlquery.question_length", len(question)),
	)
	defer func() { finishSpan(span, err) }()

	ctx, cancel := withOptionalTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.model.Generate(ctx, []nlquery.Message{
		nlquery.SystemMessage(schemaDescription),
		nlquery.HumanMessage(question),
	})
	if err != nil {
		return "", nlquery.NewFailure(nlquery.StageSynthesis, fmt.Errorf("generate sql: %w", err))
	}

	return nlquery.SQLStatement(text), nil
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
