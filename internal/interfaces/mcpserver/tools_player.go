package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

func (s *Server) registerPlayerTools() {
	s.mcp.AddTool(mcp.NewTool("list_players",
		mcp.WithDescription("List stored players ordered by id"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of players (default 5, max 100)")),
	), s.handleListPlayers)

	s.mcp.AddTool(mcp.NewTool("get_player",
		mcp.WithDescription("Get one player with its additional info, if any"),
		mcp.WithNumber("playerId", mcp.Description("Player id"), mcp.Required()),
	), s.handleGetPlayer)

	s.mcp.AddTool(mcp.NewTool("get_player_info",
		mcp.WithDescription("Get a player's birthplace, club, contract dates and market value"),
		mcp.WithNumber("playerId", mcp.Description("Player id"), mcp.Required()),
	), s.handleGetPlayerInfo)
}

type playerInfoResult struct {
	PlayerID       int64                 `json:"player_id"`
	Name           string                `json:"name"`
	AdditionalInfo player.AdditionalInfo `json:"additional_info"`
}

func (s *Server) handleListPlayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	players, err := s.players.ListPlayers(ctx, req.GetInt("limit", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(players)
}

func (s *Server) handleGetPlayer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playerID := int64(req.GetInt("playerId", 0))
	if playerID <= 0 {
		return mcp.NewToolResultError("playerId must be a positive integer"), nil
	}

	profile, err := s.players.GetProfile(ctx, playerID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("player %d not found", playerID)), nil
		}
		return errorResult(err), nil
	}
	return jsonResult(profile)
}

// handleGetPlayerInfo tells an unknown player apart from a known player that
// has no additional info recorded.
func (s *Server) handleGetPlayerInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playerID := int64(req.GetInt("playerId", 0))
	if playerID <= 0 {
		return mcp.NewToolResultError("playerId must be a positive integer"), nil
	}

	p, err := s.players.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("player %d not found", playerID)), nil
		}
		return errorResult(err), nil
	}

	info, err := s.players.GetAdditionalInfo(ctx, playerID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("player %d has no additional info", playerID)), nil
		}
		return errorResult(err), nil
	}

	return jsonResult(playerInfoResult{PlayerID: p.ID, Name: p.FullName(), AdditionalInfo: info})
}
