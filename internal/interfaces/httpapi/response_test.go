package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{
			name:       "synthesis failure",
			err:        nlquery.NewFailure(nlquery.StageSynthesis, errors.New("model error")),
			wantStatus: http.StatusBadGateway,
			wantReason: "synthesisFailure",
		},
		{
			name:       "execution failure",
			err:        fmt.Errorf("answer: %w", nlquery.NewFailure(nlquery.StageExecution, errors.New(`column "salary" does not exist`))),
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: "executionFailure",
		},
		{
			name:       "formatting failure",
			err:        nlquery.NewFailure(nlquery.StageFormatting, errors.New("timeout")),
			wantStatus: http.StatusBadGateway,
			wantReason: "formattingFailure",
		},
		{
			name:       "open circuit inside synthesis",
			err:        nlquery.NewFailure(nlquery.StageSynthesis, fmt.Errorf("%w: language model is temporarily unavailable", usecase.ErrDependencyUnavailable)),
			wantStatus: http.StatusServiceUnavailable,
			wantReason: "dependencyUnavailable",
		},
		{
			name:       "partial write",
			err:        &usecase.PartialWriteError{PlayerID: 11, Err: errors.New("insert failed")},
			wantStatus: http.StatusInternalServerError,
			wantReason: "partialWrite",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: player 9", usecase.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantReason: "notFound",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantReason: "internalError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Reason != tt.wantReason {
				t.Fatalf("mapError() = %+v, want status=%d reason=%s", got, tt.wantStatus, tt.wantReason)
			}
		})
	}
}
