package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

const (
	DefaultPlayerListLimit = 5
	MaxPlayerListLimit     = 100
)

type PlayerService struct {
	playerRepo player.Repository
	logger     *logging.Logger
}

func NewPlayerService(playerRepo player.Repository, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerService{
		playerRepo: playerRepo,
		logger:     logger,
	}
}

func (s *PlayerService) ListPlayers(ctx context.Context, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	if limit <= 0 {
		limit = DefaultPlayerListLimit
	}
	if limit > MaxPlayerListLimit {
		return nil, fmt.Errorf("%w: limit must be <= %d", ErrInvalidInput, MaxPlayerListLimit)
	}

	players, err := s.playerRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return players, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	if playerID <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	return item, nil
}

func (s *PlayerService) GetAdditionalInfo(ctx context.Context, playerID int64) (player.AdditionalInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetAdditionalInfo")
	defer span.End()

	if playerID <= 0 {
		return player.AdditionalInfo{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	info, exists, err := s.playerRepo.GetAdditionalInfo(ctx, playerID)
	if err != nil {
		return player.AdditionalInfo{}, fmt.Errorf("get player additional info: %w", err)
	}
	if !exists {
		return player.AdditionalInfo{}, fmt.Errorf("%w: additional info for player=%d", ErrNotFound, playerID)
	}

	return info, nil
}

// GetProfile returns the player with its additional info when present.
func (s *PlayerService) GetProfile(ctx context.Context, playerID int64) (player.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetProfile")
	defer span.End()

	if playerID <= 0 {
		return player.Profile{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	profile, exists, err := s.playerRepo.GetProfile(ctx, playerID)
	if err != nil {
		return player.Profile{}, fmt.Errorf("get player profile: %w", err)
	}
	if !exists {
		return player.Profile{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	return profile, nil
}

// AddPlayerWithInfo stores the player and then its additional info, each in
// its own transaction. The two writes are not atomic: when the second one
// fails the player row stays and a *PartialWriteError names it.
func (s *PlayerService) AddPlayerWithInfo(ctx context.Context, p player.Player, info *player.AdditionalInfo) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.AddPlayerWithInfo")
	defer span.End()

	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if info != nil {
		if err := info.ValidateFields(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	playerID, err := s.playerRepo.Create(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("create player: %w", err)
	}
	if info == nil {
		return playerID, nil
	}

	stored := *info
	stored.PlayerID = playerID
	if err := s.playerRepo.CreateAdditionalInfo(ctx, stored); err != nil {
		s.logger.WarnContext(ctx, "player stored without additional info",
			"player_id", playerID,
			"error", err,
		)
		return playerID, &PartialWriteError{PlayerID: playerID, Err: err}
	}

	return playerID, nil
}
