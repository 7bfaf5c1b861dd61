package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStateTransition = errors.New("transaction is in a terminal state")
	ErrInsufficientQuantity   = errors.New("insufficient quantity available")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrActorRequired          = errors.New("transaction requires a user or guest session")
	ErrMissingID              = errors.New("transaction id is required")
	ErrMissingItemID          = errors.New("transaction item id is required")
)

// ItemSpec is a capacity snapshot of the owning item at creation time. The
// aggregate boundary keeps the item itself out of this package.
type ItemSpec struct {
	ID        uuid.UUID
	Unlimited bool
	Available int
}

// Actor identifies who holds the claim: a registered user or a guest
// session. Exactly one of the two is set on the persisted row.
type Actor struct {
	ID    string
	Guest bool
}

// Transaction represents one user's claim (reservation or purchase) on an
// item and owns its status transitions.
type Transaction struct {
	id             uuid.UUID
	itemID         uuid.UUID
	userID         *string
	guestSessionID *string
	status         Status
	quantity       int
	createdAt      time.Time
	updatedAt      time.Time
}

type Props struct {
	ID             uuid.UUID
	ItemID         uuid.UUID
	UserID         *string
	GuestSessionID *string
	Status         Status
	Quantity       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTransaction creates a RESERVED claim against the item's capacity
// snapshot. The capacity check is skipped for unlimited items.
func NewTransaction(item ItemSpec, actor Actor, quantity int, now time.Time) (*Transaction, error) {
	if item.ID == uuid.Nil {
		return nil, ErrMissingItemID
	}
	if actor.ID == "" {
		return nil, ErrActorRequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !item.Unlimited && quantity > item.Available {
		return nil, ErrInsufficientQuantity
	}

	t := &Transaction{
		id:        uuid.New(),
		itemID:    item.ID,
		status:    StatusReserved,
		quantity:  quantity,
		createdAt: now,
		updatedAt: now,
	}
	id := actor.ID
	if actor.Guest {
		t.guestSessionID = &id
	} else {
		t.userID = &id
	}
	return t, nil
}

// Reconstitute rebuilds a transaction from persisted fields, validating the
// status against the closed set.
func Reconstitute(p Props) (*Transaction, error) {
	if p.ID == uuid.Nil {
		return nil, ErrMissingID
	}
	if p.ItemID == uuid.Nil {
		return nil, ErrMissingItemID
	}
	status, err := ParseStatus(p.Status.String())
	if err != nil {
		return nil, err
	}
	if p.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if p.UserID == nil && p.GuestSessionID == nil {
		return nil, ErrActorRequired
	}
	return &Transaction{
		id:             p.ID,
		itemID:         p.ItemID,
		userID:         p.UserID,
		guestSessionID: p.GuestSessionID,
		status:         status,
		quantity:       p.Quantity,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (t *Transaction) Props() Props {
	return Props{
		ID:             t.id,
		ItemID:         t.itemID,
		UserID:         t.userID,
		GuestSessionID: t.guestSessionID,
		Status:         t.status,
		Quantity:       t.quantity,
		CreatedAt:      t.createdAt,
		UpdatedAt:      t.updatedAt,
	}
}

func (t *Transaction) ID() uuid.UUID           { return t.id }
func (t *Transaction) ItemID() uuid.UUID       { return t.itemID }
func (t *Transaction) UserID() *string         { return t.userID }
func (t *Transaction) GuestSessionID() *string { return t.guestSessionID }
func (t *Transaction) Status() Status          { return t.status }
func (t *Transaction) Quantity() int           { return t.quantity }
func (t *Transaction) CreatedAt() time.Time    { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time    { return t.updatedAt }

// ActorID returns the claim holder's id regardless of whether it is a
// registered user or a guest session.
func (t *Transaction) ActorID() string {
	if t.userID != nil {
		return *t.userID
	}
	if t.guestSessionID != nil {
		return *t.guestSessionID
	}
	return ""
}

func (t *Transaction) IsHeldBy(actorID string) bool {
	return actorID != "" && t.ActorID() == actorID
}

// MarkPurchased transitions RESERVED -> PURCHASED (visitor confirms).
func (t *Transaction) MarkPurchased(now time.Time) error {
	return t.transition(StatusPurchased, now)
}

// CancelByUser transitions RESERVED -> CANCELLED_BY_USER (visitor releases).
func (t *Transaction) CancelByUser(now time.Time) error {
	return t.transition(StatusCancelledByUser, now)
}

// CancelByOwner transitions RESERVED -> CANCELLED_BY_OWNER (owner-initiated
// cancel, e.g. on item deletion).
func (t *Transaction) CancelByOwner(now time.Time) error {
	return t.transition(StatusCancelledByOwner, now)
}

func (t *Transaction) transition(to Status, now time.Time) error {
	if t.status != StatusReserved {
		return ErrInvalidStateTransition
	}
	t.status = to
	t.updatedAt = now
	return nil
}
