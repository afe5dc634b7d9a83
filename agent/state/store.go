package state

import (
	"context"
	"errors"
)

var (
	ErrStateNotFound   = errors.New("session state not found")
	ErrNilSessionState = errors.New("session state is nil")
	ErrInvalidSession  = errors.New("session id is empty")
	// ErrBackend wraps transport and protocol failures of a remote session store.
	ErrBackend = errors.New("session backend failure")
)

// Store persists SessionState between conversation turns.
type Store interface {
	Load(ctx context.Context, sessionID string) (*SessionState, error)
	Save(ctx context.Context, st *SessionState) error
	Delete(ctx context.Context, sessionID string) error
}
