package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/sourcegraph/conc/panics"
)

// ExecutionGateway runs model-authored SQL as free text on a session's
// connection. The text is prepared before it runs, so postgres parses it as
// exactly one statement and a trailing COMMIT cannot end the enclosing
// transaction. That transaction is always rolled back.
type ExecutionGateway struct {
	timeout  time.Duration
	readOnly bool
}

type ExecutionGatewayOption func(*ExecutionGateway)

// WithReadOnlyTransactions asks postgres to reject writes outright.
func WithReadOnlyTransactions(readOnly bool) ExecutionGatewayOption {
	return func(g *ExecutionGateway) {
		g.readOnly = readOnly
	}
}

func NewExecutionGateway(timeout time.Duration, opts ...ExecutionGatewayOption) *ExecutionGateway {
	g := &ExecutionGateway{timeout: timeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *ExecutionGateway) Execute(ctx context.Context, stmt nlquery.SQLStatement, session nlquery.Session) (rows nlquery.RowSet, err error) {
	s, ok := session.(*connSession)
	if !ok || s == nil {
		return nlquery.RowSet{}, nlquery.NewFailure(nlquery.StageExecution, fmt.Errorf("unsupported session type %T", session))
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var catcher panics.Catcher
	catcher.Try(func() {
		var conn *sqlx.Conn
		if conn, err = s.connection(ctx); err != nil {
			return
		}
		rows, err = g.run(ctx, conn, stmt)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return nlquery.RowSet{}, nlquery.NewFailure(nlquery.StageExecution, fmt.Errorf("execute statement: %w", recovered.AsError()))
	}
	if err != nil {
		return nlquery.RowSet{}, nlquery.NewFailure(nlquery.StageExecution, err)
	}

	return rows, nil
}

func (g *ExecutionGateway) run(ctx context.Context, conn *sqlx.Conn, stmt nlquery.SQLStatement) (nlquery.RowSet, error) {
	tx, err := conn.BeginTxx(ctx, &sql.TxOptions{ReadOnly: g.readOnly})
	if err != nil {
		return nlquery.RowSet{}, fmt.Errorf("begin tx execute statement: %w", describeStoreError(err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Extended protocol: a multi-statement text fails at parse time.
	prepared, err := tx.PreparexContext(ctx, string(stmt))
	if err != nil {
		return nlquery.RowSet{}, fmt.Errorf("prepare statement: %w", describeStoreError(err))
	}
	defer prepared.Close()

	result, err := prepared.QueryxContext(ctx)
	if err != nil {
		return nlquery.RowSet{}, fmt.Errorf("execute statement: %w", describeStoreError(err))
	}
	defer result.Close()

	columns, err := result.Columns()
	if err != nil {
		return nlquery.RowSet{}, fmt.Errorf("read result columns: %w", describeStoreError(err))
	}

	out := nlquery.RowSet{Columns: columns, Rows: make([][]any, 0)}
	for result.Next() {
		values, err := result.SliceScan()
		if err != nil {
			return nlquery.RowSet{}, fmt.Errorf("scan result row: %w", describeStoreError(err))
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, values)
	}
	if err := result.Err(); err != nil {
		return nlquery.RowSet{}, fmt.Errorf("iterate result rows: %w", describeStoreError(err))
	}

	return out, nil
}
