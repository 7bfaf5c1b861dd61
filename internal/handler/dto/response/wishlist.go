package response

import (
	"time"

	"wishlink/internal/domain/wishlist"
	"wishlink/internal/usecase/queries"

	"github.com/google/uuid"
)

type WishlistItemResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	Priority          int       `json:"priority"`
	Price             *float64  `json:"price,omitempty"`
	Currency          *string   `json:"currency,omitempty"`
	URL               *string   `json:"url,omitempty"`
	ImageURL          *string   `json:"imageUrl,omitempty"`
	IsUnlimited       bool      `json:"isUnlimited"`
	TotalQuantity     int       `json:"totalQuantity"`
	ReservedQuantity  int       `json:"reservedQuantity"`
	PurchasedQuantity int       `json:"purchasedQuantity"`
	Available         int       `json:"available"`
	IsCompleted       bool      `json:"isCompleted"`
	IsFullyReserved   bool      `json:"isFullyReserved"`
}

type WishlistResponse struct {
	ID            uuid.UUID              `json:"id"`
	OwnerID       string                 `json:"ownerId"`
	Title         string                 `json:"title"`
	Description   *string                `json:"description,omitempty"`
	Visibility    string                 `json:"visibility"`
	Participation string                 `json:"participation"`
	IsOwner       bool                   `json:"isOwner"`
	Items         []WishlistItemResponse `json:"items"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

type WishlistSummaryResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	Visibility    string    `json:"visibility"`
	Participation string    `json:"participation"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func FromWishlistView(view *queries.WishlistView) *WishlistResponse {
	items := make([]WishlistItemResponse, len(view.Items))
	for i, item := range view.Items {
		items[i] = WishlistItemResponse{
			ID:                item.ID,
			Name:              item.Name,
			Description:       item.Description,
			Priority:          item.Priority,
			Price:             item.Price,
			Currency:          item.Currency,
			URL:               item.URL,
			ImageURL:          item.ImageURL,
			IsUnlimited:       item.IsUnlimited,
			TotalQuantity:     item.TotalQuantity,
			ReservedQuantity:  item.ReservedQuantity,
			PurchasedQuantity: item.PurchasedQuantity,
			Available:         item.Available,
			IsCompleted:       item.IsCompleted,
			IsFullyReserved:   item.IsFullyReserved,
		}
	}
	return &WishlistResponse{
		ID:            view.ID,
		OwnerID:       view.OwnerID,
		Title:         view.Title,
		Description:   view.Description,
		Visibility:    view.Visibility,
		Participation: view.Participation,
		IsOwner:       view.IsOwner,
		Items:         items,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
	}
}

// FromWishlist renders a command result without a second repository read.
func FromWishlist(w *wishlist.Wishlist) *WishlistResponse {
	domainItems := w.Items()
	items := make([]WishlistItemResponse, len(domainItems))
	for i, item := range domainItems {
		items[i] = WishlistItemResponse{
			ID:                item.ID(),
			Name:              item.Name(),
			Description:       item.Description(),
			Priority:          item.Priority().Int(),
			Price:             item.Price(),
			Currency:          item.Currency(),
			URL:               item.URL(),
			ImageURL:          item.ImageURL(),
			IsUnlimited:       item.IsUnlimited(),
			TotalQuantity:     item.TotalQuantity(),
			ReservedQuantity:  item.ReservedQuantity(),
			PurchasedQuantity: item.PurchasedQuantity(),
			Available:         item.Available(),
			IsCompleted:       item.IsCompleted(),
			IsFullyReserved:   item.IsFullyReserved(),
		}
	}
	return &WishlistResponse{
		ID:            w.ID(),
		OwnerID:       w.OwnerID(),
		Title:         w.Title(),
		Description:   w.Description(),
		Visibility:    w.Visibility().String(),
		Participation: w.Participation().String(),
		IsOwner:       true,
		Items:         items,
		CreatedAt:     w.CreatedAt(),
		UpdatedAt:     w.UpdatedAt(),
	}
}

func FromWishlistSummary(s *queries.WishlistSummary) *WishlistSummaryResponse {
	return &WishlistSummaryResponse{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		Visibility:    s.Visibility,
		Participation: s.Participation,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
