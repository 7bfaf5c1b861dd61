// Package converter maps provider rows to domain aggregates and back.
// Provider nulls become Go nils; enum fields are coerced through the
// domain's closed-set parsers so legacy or hand-edited rows load with
// documented fallbacks instead of failing.
package converter

import (
	"time"

	"wishlink/internal/domain/wishlist"
	"wishlink/internal/pkg/errs"

	"github.com/google/uuid"
)

type WishlistRow struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	Visibility    string    `json:"visibility"`
	Participation string    `json:"participation"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ItemRow struct {
	ID            string   `json:"id"`
	WishlistID    string   `json:"wishlistId"`
	Name          string   `json:"name"`
	Description   *string  `json:"description,omitempty"`
	Priority      int      `json:"priority"`
	Price         *float64 `json:"price,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	URL           *string  `json:"url,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
	IsUnlimited   bool     `json:"isUnlimited"`
	TotalQuantity int      `json:"totalQuantity"`
}

func WishlistToRow(w *wishlist.Wishlist) WishlistRow {
	return WishlistRow{
		ID:            w.ID().String(),
		OwnerID:       w.OwnerID(),
		Title:         w.Title(),
		Description:   w.Description(),
		Visibility:    w.Visibility().String(),
		Participation: w.Participation().String(),
		CreatedAt:     w.CreatedAt().UTC(),
		UpdatedAt:     w.UpdatedAt().UTC(),
	}
}

func WishlistToDomain(row WishlistRow, items []*wishlist.Item) (*wishlist.Wishlist, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errs.Wrap(err, "malformed wishlist row id")
	}
	return wishlist.Reconstitute(wishlist.Props{
		ID:            id,
		OwnerID:       row.OwnerID,
		Title:         row.Title,
		Description:   row.Description,
		Visibility:    wishlist.ParseVisibility(row.Visibility),
		Participation: wishlist.ParseParticipation(row.Participation),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, items)
}

func ItemToRow(it *wishlist.Item) ItemRow {
	p := it.Props()
	return ItemRow{
		ID:            p.ID.String(),
		WishlistID:    p.WishlistID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Priority:      p.Priority.Int(),
		Price:         p.Price,
		Currency:      p.Currency,
		URL:           p.URL,
		ImageURL:      p.ImageURL,
		IsUnlimited:   p.Unlimited,
		TotalQuantity: p.TotalQuantity,
	}
}

// ItemToDomain rebuilds an item from its row plus claim counters aggregated
// from the item's transactions (item rows store only the ceiling).
func ItemToDomain(row ItemRow, reserved, purchased int) (*wishlist.Item, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errs.Wrap(err, "malformed item row id")
	}
	wishlistID, err := uuid.Parse(row.WishlistID)
	if err != nil {
		return nil, errs.Wrap(err, "malformed item row wishlist id")
	}
	return wishlist.ReconstituteItem(wishlist.ItemProps{
		ID:                id,
		WishlistID:        wishlistID,
		Name:              row.Name,
		Description:       row.Description,
		Priority:          wishlist.ParsePriority(row.Priority),
		Price:             row.Price,
		Currency:          row.Currency,
		URL:               row.URL,
		ImageURL:          row.ImageURL,
		Unlimited:         row.IsUnlimited,
		TotalQuantity:     row.TotalQuantity,
		ReservedQuantity:  reserved,
		PurchasedQuantity: purchased,
	})
}
