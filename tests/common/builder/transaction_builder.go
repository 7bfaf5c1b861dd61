//go:build unit || e2e

package builder

import (
	"time"

	domtransaction "wishlink/internal/domain/transaction"
	"wishlink/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type TransactionBuilder struct {
	ID             uuid.UUID
	ItemID         uuid.UUID
	UserID         *string
	GuestSessionID *string
	Status         string
	Quantity       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewTransactionBuilder(itemID uuid.UUID) *TransactionBuilder {
	now := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	userID := "user-" + uuid.NewString()
	return &TransactionBuilder{
		ID:        uuid.New(),
		ItemID:    itemID,
		UserID:    &userID,
		Status:    "reserved",
		Quantity:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *TransactionBuilder) With(mutate func(*TransactionBuilder)) *TransactionBuilder {
	mutate(b)
	return b
}

func (b *TransactionBuilder) AsGuest(sessionID string) *TransactionBuilder {
	b.UserID = nil
	b.GuestSessionID = &sessionID
	return b
}

func (b *TransactionBuilder) BuildDomain() (*domtransaction.Transaction, error) {
	return domtransaction.Reconstitute(domtransaction.Props{
		ID:             b.ID,
		ItemID:         b.ItemID,
		UserID:         b.UserID,
		GuestSessionID: b.GuestSessionID,
		Status:         domtransaction.Status(b.Status),
		Quantity:       b.Quantity,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	})
}

func (b *TransactionBuilder) BuildRow() converter.TransactionRow {
	return converter.TransactionRow{
		ID:             b.ID.String(),
		ItemID:         b.ItemID.String(),
		UserID:         b.UserID,
		GuestSessionID: b.GuestSessionID,
		Status:         b.Status,
		Quantity:       b.Quantity,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
