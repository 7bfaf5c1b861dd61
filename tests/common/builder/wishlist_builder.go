//go:build unit || e2e

package builder

import (
	"time"

	domwishlist "wishlink/internal/domain/wishlist"
	reqdto "wishlink/internal/handler/dto/request"
	"wishlink/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type WishlistBuilder struct {
	ID            uuid.UUID
	OwnerID       string
	Title         string
	Description   *string
	Visibility    string
	Participation string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewWishlistBuilder() *WishlistBuilder {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &WishlistBuilder{
		ID:            uuid.New(),
		OwnerID:       "user-" + uuid.NewString(),
		Title:         "Birthday Wishlist",
		Description:   nil,
		Visibility:    "link",
		Participation: "anyone",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (b *WishlistBuilder) With(mutate func(*WishlistBuilder)) *WishlistBuilder {
	mutate(b)
	return b
}

func (b *WishlistBuilder) BuildDomain(items ...*domwishlist.Item) (*domwishlist.Wishlist, error) {
	return domwishlist.Reconstitute(domwishlist.Props{
		ID:            b.ID,
		OwnerID:       b.OwnerID,
		Title:         b.Title,
		Description:   b.Description,
		Visibility:    domwishlist.ParseVisibility(b.Visibility),
		Participation: domwishlist.ParseParticipation(b.Participation),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}, items)
}

func (b *WishlistBuilder) BuildRow() converter.WishlistRow {
	return converter.WishlistRow{
		ID:            b.ID.String(),
		OwnerID:       b.OwnerID,
		Title:         b.Title,
		Description:   b.Description,
		Visibility:    b.Visibility,
		Participation: b.Participation,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type ItemBuilder struct {
	ID            uuid.UUID
	WishlistID    uuid.UUID
	Name          string
	Description   *string
	Priority      int
	Price         *float64
	Currency      *string
	URL           *string
	ImageURL      *string
	IsUnlimited   bool
	TotalQuantity int
	Reserved      int
	Purchased     int
}

func NewItemBuilder(wishlistID uuid.UUID) *ItemBuilder {
	return &ItemBuilder{
		ID:            uuid.New(),
		WishlistID:    wishlistID,
		Name:          "Coffee Grinder",
		Priority:      int(domwishlist.PriorityMedium),
		TotalQuantity: 3,
	}
}

func (b *ItemBuilder) With(mutate func(*ItemBuilder)) *ItemBuilder {
	mutate(b)
	return b
}

func (b *ItemBuilder) BuildDomain() (*domwishlist.Item, error) {
	return domwishlist.ReconstituteItem(b.buildProps())
}

func (b *ItemBuilder) BuildProps() domwishlist.ItemProps {
	return b.buildProps()
}

func (b *ItemBuilder) BuildRow() converter.ItemRow {
	return converter.ItemRow{
		ID:            b.ID.String(),
		WishlistID:    b.WishlistID.String(),
		Name:          b.Name,
		Description:   b.Description,
		Priority:      b.Priority,
		Price:         b.Price,
		Currency:      b.Currency,
		URL:           b.URL,
		ImageURL:      b.ImageURL,
		IsUnlimited:   b.IsUnlimited,
		TotalQuantity: b.TotalQuantity,
	}
}

func (b *ItemBuilder) BuildRequestDTO() reqdto.WishlistItemRequest {
	id := b.ID
	return reqdto.WishlistItemRequest{
		ID:            &id,
		Name:          b.Name,
		Description:   b.Description,
		Priority:      b.Priority,
		Price:         b.Price,
		Currency:      b.Currency,
		URL:           b.URL,
		ImageURL:      b.ImageURL,
		IsUnlimited:   b.IsUnlimited,
		TotalQuantity: b.TotalQuantity,
	}
}

func (b *ItemBuilder) buildProps() domwishlist.ItemProps {
	return domwishlist.ItemProps{
		ID:                b.ID,
		WishlistID:        b.WishlistID,
		Name:              b.Name,
		Description:       b.Description,
		Priority:          domwishlist.ParsePriority(b.Priority),
		Price:             b.Price,
		Currency:          b.Currency,
		URL:               b.URL,
		ImageURL:          b.ImageURL,
		Unlimited:         b.IsUnlimited,
		TotalQuantity:     b.TotalQuantity,
		ReservedQuantity:  b.Reserved,
		PurchasedQuantity: b.Purchased,
	}
}
