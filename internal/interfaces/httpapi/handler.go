package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

// QuestionAnswerer runs the natural-language question pipeline.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string) (usecase.Answer, error)
	AnswerBatch(ctx context.Context, questions []string) ([]usecase.BatchAnswer, error)
}

// PlayerCatalog serves direct player reads and writes.
type PlayerCatalog interface {
	ListPlayers(ctx context.Context, limit int) ([]player.Player, error)
	GetProfile(ctx context.Context, playerID int64) (player.Profile, error)
	GetAdditionalInfo(ctx context.Context, playerID int64) (player.AdditionalInfo, error)
	AddPlayerWithInfo(ctx context.Context, p player.Player, info *player.AdditionalInfo) (int64, error)
}

type Handler struct {
	questions QuestionAnswerer
	players   PlayerCatalog
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(questions QuestionAnswerer, players PlayerCatalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		questions: questions,
		players:   players,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
