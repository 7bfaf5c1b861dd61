package request

import (
	"github.com/google/uuid"
)

type ClaimItemRequest struct {
	WishlistID uuid.UUID `json:"wishlistId" binding:"required"`
	ItemID     uuid.UUID `json:"itemId" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required"`
	Purchase   bool      `json:"purchase"`
}
