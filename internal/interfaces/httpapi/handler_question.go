package httpapi

import "net/http"

const invocationIDHeader = "X-Invocation-ID"

func (h *Handler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AskQuestion")
	defer span.End()

	var req askQuestionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	answer, err := h.questions.Answer(ctx, req.Question)
	span.SetAttributes(answerAttributes(answer)...)
	if answer.InvocationID != "" {
		w.Header().Set(invocationIDHeader, answer.InvocationID)
	}
	if err != nil {
		recordSpanError(span, err)
		h.logger.WarnContext(ctx, "answer question failed",
			"invocation_id", answer.InvocationID,
			"failed_stage", answer.FailedStage,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, answerToDTO(answer))
}

// AskQuestionBatch always answers 200 once the batch itself is accepted;
// per-question failures are reported inline.
func (h *Handler) AskQuestionBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AskQuestionBatch")
	defer span.End()

	var req askQuestionBatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.questions.AnswerBatch(ctx, req.Questions)
	if err != nil {
		recordSpanError(span, err)
		h.logger.WarnContext(ctx, "answer question batch failed", "size", len(req.Questions), "error", err)
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(batchAttributes(results)...)

	items := make([]batchAnswerDTO, 0, len(results))
	for _, item := range results {
		items = append(items, batchAnswerToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
