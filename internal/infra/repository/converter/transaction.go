package converter

import (
	"time"

	"wishlink/internal/domain/transaction"
	"wishlink/internal/pkg/errs"

	"github.com/google/uuid"
)

type TransactionRow struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"itemId"`
	UserID         *string   `json:"userId,omitempty"`
	GuestSessionID *string   `json:"guestSessionId,omitempty"`
	Status         string    `json:"status"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func TransactionToRow(t *transaction.Transaction) TransactionRow {
	p := t.Props()
	return TransactionRow{
		ID:             p.ID.String(),
		ItemID:         p.ItemID.String(),
		UserID:         p.UserID,
		GuestSessionID: p.GuestSessionID,
		Status:         p.Status.String(),
		Quantity:       p.Quantity,
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
}

func TransactionToDomain(row TransactionRow) (*transaction.Transaction, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errs.Wrap(err, "malformed transaction row id")
	}
	itemID, err := uuid.Parse(row.ItemID)
	if err != nil {
		return nil, errs.Wrap(err, "malformed transaction row item id")
	}
	return transaction.Reconstitute(transaction.Props{
		ID:             id,
		ItemID:         itemID,
		UserID:         row.UserID,
		GuestSessionID: row.GuestSessionID,
		Status:         transaction.Status(row.Status),
		Quantity:       row.Quantity,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	})
}
