package response

import (
	"time"

	"wishlink/internal/domain/transaction"
	"wishlink/internal/usecase/queries"

	"github.com/google/uuid"
)

type TransactionResponse struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"itemId"`
	Status    string    `json:"status"`
	Quantity  int       `json:"quantity"`
	IsGuest   bool      `json:"isGuest"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromTransaction(t *transaction.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID(),
		ItemID:    t.ItemID(),
		Status:    t.Status().String(),
		Quantity:  t.Quantity(),
		IsGuest:   t.GuestSessionID() != nil,
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}

func FromTransactionView(view *queries.TransactionView) *TransactionResponse {
	return &TransactionResponse{
		ID:        view.ID,
		ItemID:    view.ItemID,
		Status:    view.Status,
		Quantity:  view.Quantity,
		IsGuest:   view.IsGuest,
		CreatedAt: view.CreatedAt,
		UpdatedAt: view.UpdatedAt,
	}
}
