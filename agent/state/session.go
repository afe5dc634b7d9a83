package state

import (
	"errors"
	"time"
)

// SessionState is what the router remembers about one conversation between turns.
// CustomerID 0 means no customer has been identified yet.
type SessionState struct {
	SessionID  string    `json:"session_id"`
	CustomerID int       `json:"customer_id,omitempty"`
	Version    int       `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var ErrInvalidCustomerID = errors.New("customer id must be >= 0")

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Version:   1,
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// CustomerIDOr returns the remembered customer id, or def when none is known.
func (s SessionState) CustomerIDOr(def int) int {
	if s.CustomerID > 0 {
		return s.CustomerID
	}
	return def
}

func (s *SessionState) Remember(customerID int, now time.Time) {
	if customerID <= 0 {
		return
	}
	s.CustomerID = customerID
	s.Touch(now)
}

func (s *SessionState) Validate() error {
	if s == nil {
		return ErrNilSessionState
	}
	if s.SessionID == "" {
		return ErrInvalidSession
	}
	if s.CustomerID < 0 {
		return ErrInvalidCustomerID
	}
	return nil
}
