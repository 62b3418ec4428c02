package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

var createdAt = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

func samplePlayer() player.Player {
	return player.Player{
		FirstName:       "Bukayo",
		LastName:        "Saka",
		Age:             23,
		Nationality:     "England",
		Position:        "Forward",
		Height:          1.78,
		Weight:          72,
		OverallRating:   87,
		PotentialRating: 91,
		Pace:            85,
		Shooting:        80,
		Passing:         83,
		Dribbling:       87,
		Defending:       62,
		Physical:        70,
	}
}

func playerRow(id int64) []driver.Value {
	return []driver.Value{id, "Bukayo", "Saka", int64(23), "England", "Forward", 1.78, 72.0, int64(87), int64(91), int64(85), int64(80), int64(83), int64(87), int64(62), int64(70), createdAt}
}

func anyArgs(n int) []driver.Value {
	out := make([]driver.Value, n)
	for i := range out {
		out[i] = sqlmock.AnyArg()
	}
	return out
}

func TestPlayerRepository_Create(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPlayerRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`^INSERT INTO players \(first_name, last_name, .*, created_at\) VALUES \(\$1, .*\$16\) RETURNING player_id$`).
		WithArgs(anyArgs(16)...).
		WillReturnRows(sqlmock.NewRows([]string{"player_id"}).AddRow(int64(11)))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), samplePlayer())
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if id != 11 {
		t.Fatalf("unexpected id: %d", id)
	}
	assertSQLMock(t, mock)
}

func TestPlayerRepository_CreateAdditionalInfo_RollsBackOnFailure(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPlayerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`^INSERT INTO players_add_info \(player_id, birthplace, current_club, club_join_date, contract_end_date, market_value, created_at\)`).
		WithArgs(anyArgs(7)...).
		WillReturnError(&pq.Error{Code: "23503", Message: `insert or update on table "players_add_info" violates foreign key constraint`})
	mock.ExpectRollback()

	err := repo.CreateAdditionalInfo(context.Background(), player.AdditionalInfo{PlayerID: 999, CurrentClub: "Arsenal"})
	if err == nil {
		t.Fatalf("expected insert error")
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23503" {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
	assertSQLMock(t, mock)
}

// The two inserts are separate transactions: when the second fails the
// first stays committed, leaving one player row and no additional info row.
func TestPlayerRepository_TwoPhaseWriteLeavesPlayerWithoutInfo(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPlayerRepository(db)
	service := usecase.NewPlayerService(repo, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`^INSERT INTO players `).
		WithArgs(anyArgs(16)...).
		WillReturnRows(sqlmock.NewRows([]string{"player_id"}).AddRow(int64(11)))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`^INSERT INTO players_add_info `).
		WithArgs(anyArgs(7)...).
		WillReturnError(&pq.Error{Code: "23514", Message: `new row for relation "players_add_info" violates check constraint`})
	mock.ExpectRollback()

	id, err := service.AddPlayerWithInfo(context.Background(), samplePlayer(), &player.AdditionalInfo{CurrentClub: "Arsenal", MarketValue: 1})
	if !errors.Is(err, usecase.ErrPartialWrite) {
		t.Fatalf("expected partial write, got %v", err)
	}
	if id != 11 {
		t.Fatalf("expected committed player id 11, got %d", id)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM players WHERE player_id = $1")).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(playerSelectColumns).AddRow(playerRow(11)...))
	mock.ExpectQuery(regexp.QuoteMeta("FROM players_add_info WHERE player_id = $1")).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(additionalInfoSelectColumns))

	stored, exists, err := repo.GetByID(context.Background(), 11)
	if err != nil || !exists || stored.ID != 11 {
		t.Fatalf("expected player 11 to persist, got exists=%v err=%v", exists, err)
	}
	_, exists, err = repo.GetAdditionalInfo(context.Background(), 11)
	if err != nil {
		t.Fatalf("get additional info: %v", err)
	}
	if exists {
		t.Fatalf("expected no additional info row for player 11")
	}
	assertSQLMock(t, mock)
}

func TestPlayerRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPlayerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT player_id, first_name")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(playerSelectColumns))

	_, exists, err := repo.GetByID(context.Background(), 404)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if exists {
		t.Fatalf("expected missing player")
	}
	assertSQLMock(t, mock)
}

func profileColumns() []string {
	out := append([]string(nil), playerSelectColumns...)
	for _, col := range additionalInfoSelectColumns {
		out = append(out, "info_"+col)
	}
	return out
}

func TestPlayerRepository_GetProfile(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPlayerRepository(db)

	joinedAt := time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM players p LEFT JOIN players_add_info pai ON p.player_id = pai.player_id WHERE p.player_id = $1")

	withInfo := append(playerRow(7), int64(7), "London", "Arsenal", joinedAt, nil, 120000000.0, createdAt)
	mock.ExpectQuery(query).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(profileColumns()).AddRow(withInfo...))

	profile, exists, err := repo.GetProfile(context.Background(), 7)
	if err != nil || !exists {
		t.Fatalf("get profile: exists=%v err=%v", exists, err)
	}
	if profile.AdditionalInfo == nil || profile.AdditionalInfo.CurrentClub != "Arsenal" {
		t.Fatalf("expected additional info, got %+v", profile.AdditionalInfo)
	}
	if profile.AdditionalInfo.ClubJoinDate == nil || !profile.AdditionalInfo.ClubJoinDate.Equal(joinedAt) {
		t.Fatalf("unexpected club join date: %v", profile.AdditionalInfo.ClubJoinDate)
	}
	if profile.AdditionalInfo.ContractEndDate != nil {
		t.Fatalf("expected nil contract end date")
	}

	withoutInfo := append(playerRow(8), nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(query).WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(profileColumns()).AddRow(withoutInfo...))

	profile, exists, err = repo.GetProfile(context.Background(), 8)
	if err != nil || !exists {
		t.Fatalf("get profile: exists=%v err=%v", exists, err)
	}
	if profile.AdditionalInfo != nil {
		t.Fatalf("expected no additional info, got %+v", profile.AdditionalInfo)
	}
	if profile.Player.FullName() != "Bukayo Saka" {
		t.Fatalf("unexpected player: %+v", profile.Player)
	}
	assertSQLMock(t, mock)
}

func TestPlayerRepository_List(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPlayerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM players ORDER BY player_id LIMIT $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(playerSelectColumns).AddRow(playerRow(1)...).AddRow(playerRow(2)...))

	players, err := repo.List(context.Background(), 5)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 || players[1].ID != 2 {
		t.Fatalf("unexpected players: %+v", players)
	}
	assertSQLMock(t, mock)
}
