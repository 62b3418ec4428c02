package nlquery

import "context"

// Session is a bounded unit of interaction with the relational store. It is
// owned by exactly one invocation and never shared.
type Session interface {
	ID() string
}

// SessionManager issues and releases sessions. Close must be safe to call
// more than once for the same session.
type SessionManager interface {
	Open(ctx context.Context) (Session, error)
	Close(session Session) error
}

// Gateway runs a statement inside a session and materializes every row.
// It never commits.
type Gateway interface {
	Execute(ctx context.Context, stmt SQLStatement, session Session) (RowSet, error)
}
