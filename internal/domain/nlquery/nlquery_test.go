package nlquery

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
)

func TestDescribe_IsStableAndNamesEveryColumn(t *testing.T) {
	schema := DefaultSchema()

	first := schema.Describe()
	second := DefaultSchema().Describe()
	if first != second {
		t.Fatalf("expected identical descriptions across calls")
	}

	for _, c := range schema.Columns() {
		needle := fmt.Sprintf("%s: (table name: %s)", c.Name, c.Table)
		if !strings.Contains(first, needle) {
			t.Fatalf("description missing %q", needle)
		}
	}
	if !strings.Contains(first, "using player_id") {
		t.Fatalf("description must name the join key")
	}
	if !strings.Contains(first, "just type SQL query as plain text") {
		t.Fatalf("description must ask for plain SQL output")
	}
}

func TestDescribe_WithAppendsWithoutMutating(t *testing.T) {
	base := DefaultSchema()
	extended := base.With(Column{Table: TablePlayers, Name: "preferred_foot", Description: "Left or right."})

	if len(extended.Columns()) != len(base.Columns())+1 {
		t.Fatalf("expected one extra column, got %d vs %d", len(extended.Columns()), len(base.Columns()))
	}
	if strings.Contains(base.Describe(), "preferred_foot") {
		t.Fatalf("base descriptor must not change")
	}
	if !strings.Contains(extended.Describe(), "preferred_foot") {
		t.Fatalf("extended descriptor must describe the new column")
	}
	if got := extended.Tables(); len(got) != 2 || got[0] != TablePlayers || got[1] != TablePlayersAddInfo {
		t.Fatalf("unexpected tables order: %v", got)
	}
}

func TestRowSet_String(t *testing.T) {
	rows := RowSet{
		Columns: []string{"first_name", "age", "player_id", "player_id"},
		Rows: [][]any{
			{"Erling", int64(24), int64(9), int64(9)},
			{[]byte("Kylian"), nil, int64(7), nil},
		},
	}

	got := rows.String()
	want := `[{"first_name":"Erling","age":24,"player_id":9,"player_id_2":9},{"first_name":"Kylian","age":null,"player_id":7,"player_id_2":null}]`
	if got != want {
		t.Fatalf("unexpected rendering:\n got: %s\nwant: %s", got, want)
	}

	if empty := (RowSet{Columns: []string{"a"}}).String(); empty != "[]" {
		t.Fatalf("expected empty array, got %s", empty)
	}
}

func TestRowSet_StringRendersTimes(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := RowSet{Columns: []string{"created_at"}, Rows: [][]any{{ts}}}
	if got := rows.String(); got != `[{"created_at":"2024-01-02T03:04:05Z"}]` {
		t.Fatalf("unexpected rendering: %s", got)
	}
}

func TestRowSet_Truncate(t *testing.T) {
	rows := RowSet{Columns: []string{"id"}, Rows: [][]any{{1}, {2}, {3}}}

	out, truncated := rows.Truncate(2)
	if !truncated || out.Len() != 2 {
		t.Fatalf("expected 2 rows truncated, got len=%d truncated=%v", out.Len(), truncated)
	}

	out, truncated = rows.Truncate(0)
	if truncated || out.Len() != 3 {
		t.Fatalf("expected no limit for n=0")
	}

	out, truncated = rows.Truncate(10)
	if truncated || out.Len() != 3 {
		t.Fatalf("expected untouched rows under the limit")
	}
}

func TestFailure_StageSelection(t *testing.T) {
	cause := errors.New("relation \"player\" does not exist")
	failure := NewFailure(StageExecution, cause)

	wrapped := fmt.Errorf("answer question: %w", failure)
	if !errors.Is(wrapped, ErrExecutionFailure) {
		t.Fatalf("expected execution failure to be selected")
	}
	if errors.Is(wrapped, ErrSynthesisFailure) || errors.Is(wrapped, ErrFormattingFailure) {
		t.Fatalf("expected only the execution stage to match")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected underlying cause to stay reachable")
	}
	if !crerr.Is(wrapped, ErrExecutionFailure) {
		t.Fatalf("expected stage mark to survive for crerr.Is")
	}
	if !strings.Contains(wrapped.Error(), "does not exist") {
		t.Fatalf("expected underlying message in error text: %s", wrapped.Error())
	}

	stage, ok := StageOf(wrapped)
	if !ok || stage != StageExecution {
		t.Fatalf("unexpected stage: %q ok=%v", stage, ok)
	}
	if _, ok := StageOf(cause); ok {
		t.Fatalf("plain errors carry no stage")
	}
}

func TestState_Transitions(t *testing.T) {
	path := []State{StateIdle, StateSynthesizing, StateExecuting, StateFormatting, StateDone}
	for i := 0; i < len(path)-1; i++ {
		if !path[i].CanTransition(path[i+1]) {
			t.Fatalf("expected %s -> %s to be legal", path[i], path[i+1])
		}
	}
	if StateIdle.CanTransition(StateExecuting) {
		t.Fatalf("stages cannot be skipped")
	}
	if !StateExecuting.CanTransition(StateFailed) {
		t.Fatalf("failure must be reachable from executing")
	}
	if StateDone.CanTransition(StateFailed) || StateFailed.CanTransition(StateIdle) {
		t.Fatalf("terminal states have no exits")
	}
}
