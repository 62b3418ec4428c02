package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"go.opentelemetry.io/otel/attribute"
)

const formatterSystemPrompt = "Convert list as JSON format."

// ResultFormatter renders a row set through a second model call. The output
// is best-effort JSON and is not validated here.
type ResultFormatter struct {
	model   nlquery.LanguageModel
	timeout time.Duration
}

func NewResultFormatter(model nlquery.LanguageModel, timeout time.Duration) *ResultFormatter {
	return &ResultFormatter{model: model, timeout: timeout}
}

func (f *ResultFormatter) Format(ctx context.Context, rows nlquery.RowSet) (text string, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultFormatter.Format",
		attribute.Int("nlquery.row_count", rows.Len()),
	)
	defer func() { finishSpan(span, err) }()

	ctx, cancel := withOptionalTimeout(ctx, f.timeout)
	defer cancel()

	text, err = f.model.Generate(ctx, []nlquery.Message{
		nlquery.SystemMessage(formatterSystemPrompt),
		nlquery.HumanMessage(rows.String()),
	})
	if err != nil {
		return "", nlquery.NewFailure(nlquery.StageFormatting, fmt.Errorf("format rows: %w", err))
	}

	return text, nil
}
