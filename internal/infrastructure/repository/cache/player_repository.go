package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/football-stats/internal/domain/player"
	basecache "github.com/riskibarqy/football-stats/internal/platform/cache"
)

// PlayerRepository is a read-through cache in front of player.Repository.
// Point reads are cached; lists always go to the store.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (int64, error) {
	id, err := r.next.Create(ctx, p)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctx, id)
	return id, nil
}

func (r *PlayerRepository) CreateAdditionalInfo(ctx context.Context, info player.AdditionalInfo) error {
	err := r.next.CreateAdditionalInfo(ctx, info)
	// A failed insert may still have raced a concurrent writer, drop the keys either way.
	r.invalidate(ctx, info.PlayerID)
	return err
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, playerKey(playerID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetAdditionalInfo(ctx context.Context, playerID int64) (player.AdditionalInfo, bool, error) {
	return r.next.GetAdditionalInfo(ctx, playerID)
}

func (r *PlayerRepository) GetProfile(ctx context.Context, playerID int64) (player.Profile, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, profileKey(playerID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetProfile(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedProfile{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Profile{}, false, err
	}

	cached, _ := v.(cachedProfile)
	return cloneProfile(cached.value), cached.exists, nil
}

func (r *PlayerRepository) List(ctx context.Context, limit int) ([]player.Player, error) {
	return r.next.List(ctx, limit)
}

func (r *PlayerRepository) invalidate(ctx context.Context, playerID int64) {
	r.cache.Delete(ctx, playerKey(playerID), profileKey(playerID))
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

type cachedProfile struct {
	value  player.Profile
	exists bool
}

func cloneProfile(p player.Profile) player.Profile {
	if p.AdditionalInfo != nil {
		info := *p.AdditionalInfo
		p.AdditionalInfo = &info
	}
	return p
}

func playerKey(playerID int64) string {
	return "player:id:" + strconv.FormatInt(playerID, 10)
}

func profileKey(playerID int64) string {
	return "player:profile:" + strconv.FormatInt(playerID, 10)
}
