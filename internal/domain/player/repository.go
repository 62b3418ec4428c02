package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, p Player) (int64, error)
	CreateAdditionalInfo(ctx context.Context, info AdditionalInfo) error
	GetByID(ctx context.Context, playerID int64) (Player, bool, error)
	GetAdditionalInfo(ctx context.Context, playerID int64) (AdditionalInfo, bool, error)
	GetProfile(ctx context.Context, playerID int64) (Profile, bool, error)
	List(ctx context.Context, limit int) ([]Player, error)
}
