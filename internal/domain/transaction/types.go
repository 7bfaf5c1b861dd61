package transaction

import (
	"errors"
	"strings"
)

var ErrInvalidStatus = errors.New("invalid transaction status")

type Status string

const (
	StatusReserved         Status = "reserved"
	StatusPurchased        Status = "purchased"
	StatusCancelledByUser  Status = "cancelled_by_user"
	StatusCancelledByOwner Status = "cancelled_by_owner"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusPurchased, StatusCancelledByUser, StatusCancelledByOwner:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted. RESERVED is
// the only non-terminal state.
func (s Status) IsTerminal() bool {
	return s.IsValid() && s != StatusReserved
}

// ParseStatus normalizes case but rejects anything outside the closed set.
// This guards against corrupt or out-of-band writes to the persistence store.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
