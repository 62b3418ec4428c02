package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
)

// connSession pins one pooled connection for the lifetime of an invocation.
// The connection is checked out on first use, so an invocation that never
// reaches the store never holds one.
type connSession struct {
	id string
	db *sqlx.DB

	mu     sync.Mutex
	conn   *sqlx.Conn
	closed bool
}

func (s *connSession) ID() string {
	return s.id
}

func (s *connSession) connection(ctx context.Context) (*sqlx.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("session %s is closed", s.id)
	}
	if s.conn == nil {
		conn, err := s.db.Connx(ctx)
		if err != nil {
			return nil, fmt.Errorf("checkout connection: %w", describeStoreError(err))
		}
		s.conn = conn
	}
	return s.conn, nil
}

// release marks the session closed and hands back its connection, if one was
// ever checked out.
func (s *connSession) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.conn == nil {
		s.closed = true
		return nil
	}
	s.closed = true
	err := s.conn.Close()
	s.conn = nil
	return err
}

// SessionManager hands out a dedicated connection per invocation from the
// process-wide pool.
type SessionManager struct {
	db *sqlx.DB
}

func NewSessionManager(db *sqlx.DB) *SessionManager {
	return &SessionManager{db: db}
}

// Open allocates a session without touching the pool.
func (m *SessionManager) Open(ctx context.Context) (nlquery.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &connSession{id: uuid.NewString(), db: m.db}, nil
}

// Close returns the connection to the pool. Closing twice is a no-op.
func (m *SessionManager) Close(session nlquery.Session) error {
	s, ok := session.(*connSession)
	if !ok || s == nil {
		return fmt.Errorf("close session: unsupported session type %T", session)
	}
	if err := s.release(); err != nil {
		return fmt.Errorf("release connection: %w", err)
	}
	return nil
}
