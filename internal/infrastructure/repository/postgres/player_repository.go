package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	qb "github.com/riskibarqy/football-stats/internal/platform/querybuilder"
)

const (
	playersTable        = "players"
	playersAddInfoTable = "players_add_info"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"player_id",
	"first_name",
	"last_name",
	"age",
	"nationality",
	"position",
	"height",
	"weight",
	"overall_rating",
	"potential_rating",
	"pace",
	"shooting",
	"passing",
	"dribbling",
	"defending",
	"physical",
	"created_at",
}

var additionalInfoSelectColumns = []string{
	"player_id",
	"birthplace",
	"current_club",
	"club_join_date",
	"contract_end_date",
	"market_value",
	"created_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create inserts the player in its own transaction and returns the generated id.
func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (int64, error) {
	query, args, err := qb.InsertModel(playersTable, playerModelFromDomain(p), "player_id")
	if err != nil {
		return 0, fmt.Errorf("build insert player query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx insert player: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var id int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert player: %w", describeStoreError(err))
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert player tx: %w", err)
	}

	return id, nil
}

// CreateAdditionalInfo inserts the info row in its own transaction.
func (r *PlayerRepository) CreateAdditionalInfo(ctx context.Context, info player.AdditionalInfo) error {
	query, args, err := qb.InsertModel(playersAddInfoTable, additionalInfoModelFromDomain(info))
	if err != nil {
		return fmt.Errorf("build insert player additional info query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx insert player additional info: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player additional info: %w", describeStoreError(err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert player additional info tx: %w", err)
	}

	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetAdditionalInfo(ctx context.Context, playerID int64) (player.AdditionalInfo, bool, error) {
	query, args, err := qb.Select(additionalInfoSelectColumns...).From(playersAddInfoTable).
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return player.AdditionalInfo{}, false, fmt.Errorf("build select player additional info query: %w", err)
	}

	var row additionalInfoTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.AdditionalInfo{}, false, nil
		}
		return player.AdditionalInfo{}, false, fmt.Errorf("select player additional info: %w", err)
	}

	return row.toDomain(), true, nil
}

// GetProfile reads the player LEFT JOIN its additional info.
func (r *PlayerRepository) GetProfile(ctx context.Context, playerID int64) (player.Profile, bool, error) {
	columns := make([]string, 0, len(playerSelectColumns)+len(additionalInfoSelectColumns))
	for _, col := range playerSelectColumns {
		columns = append(columns, "p."+col)
	}
	for _, col := range additionalInfoSelectColumns {
		columns = append(columns, "pai."+col+" AS info_"+col)
	}

	query, args, err := qb.Select(columns...).From(playersTable+" p").
		LeftJoin(playersAddInfoTable+" pai", "p.player_id = pai.player_id").
		Where(qb.Eq("p.player_id", playerID)).
		ToSQL()
	if err != nil {
		return player.Profile{}, false, fmt.Errorf("build select player profile query: %w", err)
	}

	var row profileRowModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Profile{}, false, nil
		}
		return player.Profile{}, false, fmt.Errorf("select player profile: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) List(ctx context.Context, limit int) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		OrderBy("player_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
