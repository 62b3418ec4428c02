package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/football-stats/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	players, err := h.players.ListPlayers(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID, err := playerIDFromPath(r)
	if err != nil {
		recordSpanError(span, err)
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(playerAttributes(playerID)...)

	profile, err := h.players.GetProfile(ctx, playerID)
	if err != nil {
		recordSpanError(span, err)
		if !errors.Is(err, usecase.ErrNotFound) {
			h.logger.WarnContext(ctx, "get player profile failed", "player_id", playerID, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile))
}

// GetPlayerInfo returns only the club, contract and valuation record.
func (h *Handler) GetPlayerInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerInfo")
	defer span.End()

	playerID, err := playerIDFromPath(r)
	if err != nil {
		recordSpanError(span, err)
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(playerAttributes(playerID)...)

	info, err := h.players.GetAdditionalInfo(ctx, playerID)
	if err != nil {
		recordSpanError(span, err)
		if !errors.Is(err, usecase.ErrNotFound) {
			h.logger.WarnContext(ctx, "get player additional info failed", "player_id", playerID, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, additionalInfoToDTO(info))
}

func playerIDFromPath(r *http.Request) (int64, error) {
	playerID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("playerID")), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: player id must be an integer", usecase.ErrInvalidInput)
	}
	return playerID, nil
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	var req createPlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	p, info, err := req.toDomain()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID, err := h.players.AddPlayerWithInfo(ctx, p, info)
	if playerID > 0 {
		span.SetAttributes(playerAttributes(playerID)...)
	}
	if err != nil {
		recordSpanError(span, err)
		h.logger.ErrorContext(ctx, "create player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, createPlayerResponse{PlayerID: playerID})
}
