package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("player_id", "first_name").
		From("players").
		Where(Eq("position", "Forward")).
		OrderBy("player_id").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT player_id, first_name FROM players WHERE position = $1 ORDER BY player_id LIMIT $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Forward" || args[1] != 5 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_LeftJoin(t *testing.T) {
	query, args, err := Select("p.player_id", "pai.current_club").
		From("players p").
		LeftJoin("players_add_info pai", "p.player_id = pai.player_id").
		Where(Eq("p.player_id", int64(9)), Expr("p.age >= ?", 18)).
		ToSQL()
	if err != nil {
		t.Fatalf("build join query: %v", err)
	}

	wantQuery := "SELECT p.player_id, pai.current_club FROM players p LEFT JOIN players_add_info pai ON p.player_id = pai.player_id WHERE p.player_id = $1 AND p.age >= $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(9) || args[1] != 18 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("a").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
	if _, _, err := Select("a").From("t").Join("", "x = y").ToSQL(); err == nil {
		t.Fatalf("expected error for empty join table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("first_name", "last_name").
		Values("Bukayo", "Saka").
		Returning("player_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (first_name, last_name) VALUES ($1, $2) RETURNING player_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Bukayo" || args[1] != "Saka" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertInto("players").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for value count mismatch")
	}
}

func TestInsertModel_SkipsReadonlyColumns(t *testing.T) {
	type row struct {
		ID        int64     `db:"player_id,readonly"`
		Name      string    `db:"first_name"`
		Ignored   string    `db:"-"`
		CreatedAt time.Time `db:"created_at"`
		internal  string
	}

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := InsertModel("players", row{ID: 4, Name: "Declan", CreatedAt: now, internal: "x"}, "player_id")
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}

	wantQuery := "INSERT INTO players (first_name, created_at) VALUES ($1, $2) RETURNING player_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Declan" || args[1] != now {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModel("players", (*row)(nil)); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
