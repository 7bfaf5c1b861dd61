package wishlist

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrItemNameRequired     = errors.New("item name is required")
	ErrNegativeQuantity     = errors.New("total quantity cannot be negative")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInsufficientQuantity = errors.New("insufficient quantity available")
	ErrMissingID            = errors.New("item id is required")
	ErrMissingWishlistID    = errors.New("item wishlist id is required")
)

// Item tracks reservation/purchase quantities against a total. The claimed
// counters are derived from the item's transactions at load time and are
// mutated only by applying a transaction state change, never directly.
type Item struct {
	id                uuid.UUID
	wishlistID        uuid.UUID
	name              string
	description       *string
	priority          Priority
	price             *float64
	currency          *string
	url               *string
	imageURL          *string
	unlimited         bool
	totalQuantity     int
	reservedQuantity  int
	purchasedQuantity int
}

// ItemProps is the plain snapshot used for construction and persistence
// mapping.
type ItemProps struct {
	ID                uuid.UUID
	WishlistID        uuid.UUID
	Name              string
	Description       *string
	Priority          Priority
	Price             *float64
	Currency          *string
	URL               *string
	ImageURL          *string
	Unlimited         bool
	TotalQuantity     int
	ReservedQuantity  int
	PurchasedQuantity int
}

func NewItem(wishlistID uuid.UUID, p ItemProps) (*Item, error) {
	if wishlistID == uuid.Nil {
		return nil, ErrMissingWishlistID
	}
	p.ID = uuid.New()
	p.WishlistID = wishlistID
	p.ReservedQuantity = 0
	p.PurchasedQuantity = 0
	if !p.Priority.IsValid() {
		p.Priority = PriorityMedium
	}
	return ReconstituteItem(p)
}

// ReconstituteItem rebuilds an item from persisted fields. Structural checks
// only; business invariants already enforced at creation are not re-checked.
func ReconstituteItem(p ItemProps) (*Item, error) {
	if p.ID == uuid.Nil {
		return nil, ErrMissingID
	}
	if p.WishlistID == uuid.Nil {
		return nil, ErrMissingWishlistID
	}
	if p.Name == "" {
		return nil, ErrItemNameRequired
	}
	if p.TotalQuantity < 0 {
		return nil, ErrNegativeQuantity
	}
	return &Item{
		id:                p.ID,
		wishlistID:        p.WishlistID,
		name:              p.Name,
		description:       p.Description,
		priority:          ParsePriority(p.Priority.Int()),
		price:             p.Price,
		currency:          p.Currency,
		url:               p.URL,
		imageURL:          p.ImageURL,
		unlimited:         p.Unlimited,
		totalQuantity:     p.TotalQuantity,
		reservedQuantity:  p.ReservedQuantity,
		purchasedQuantity: p.PurchasedQuantity,
	}, nil
}

// Props produces a plain snapshot for persistence mapping. Pure.
func (i *Item) Props() ItemProps {
	return ItemProps{
		ID:                i.id,
		WishlistID:        i.wishlistID,
		Name:              i.name,
		Description:       i.description,
		Priority:          i.priority,
		Price:             i.price,
		Currency:          i.currency,
		URL:               i.url,
		ImageURL:          i.imageURL,
		Unlimited:         i.unlimited,
		TotalQuantity:     i.totalQuantity,
		ReservedQuantity:  i.reservedQuantity,
		PurchasedQuantity: i.purchasedQuantity,
	}
}

func (i *Item) ID() uuid.UUID          { return i.id }
func (i *Item) WishlistID() uuid.UUID  { return i.wishlistID }
func (i *Item) Name() string           { return i.name }
func (i *Item) Description() *string   { return i.description }
func (i *Item) Priority() Priority     { return i.priority }
func (i *Item) Price() *float64        { return i.price }
func (i *Item) Currency() *string      { return i.currency }
func (i *Item) URL() *string           { return i.url }
func (i *Item) ImageURL() *string      { return i.imageURL }
func (i *Item) IsUnlimited() bool      { return i.unlimited }
func (i *Item) TotalQuantity() int     { return i.totalQuantity }
func (i *Item) ReservedQuantity() int  { return i.reservedQuantity }
func (i *Item) PurchasedQuantity() int { return i.purchasedQuantity }

// Available returns the remaining claimable quantity. Meaningless for
// unlimited items; callers must check IsUnlimited first.
func (i *Item) Available() int {
	n := i.totalQuantity - i.reservedQuantity - i.purchasedQuantity
	if n < 0 {
		return 0
	}
	return n
}

// IsCompleted reports whether the item is fully purchased. Always false for
// unlimited items regardless of counters.
func (i *Item) IsCompleted() bool {
	return !i.unlimited && i.purchasedQuantity >= i.totalQuantity
}

// IsFullyReserved reports whether every remaining unit is claimed but not
// yet purchased out. Always false for unlimited items.
func (i *Item) IsFullyReserved() bool {
	if i.unlimited || i.IsCompleted() {
		return false
	}
	return i.reservedQuantity+i.purchasedQuantity >= i.totalQuantity
}

// Reserve applies a RESERVED transaction's quantity to the item.
func (i *Item) Reserve(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if !i.unlimited && i.reservedQuantity+i.purchasedQuantity+qty > i.totalQuantity {
		return ErrInsufficientQuantity
	}
	i.reservedQuantity += qty
	return nil
}

// ConfirmPurchase moves a previously reserved quantity into the purchased
// counter, applying a RESERVED -> PURCHASED transition.
func (i *Item) ConfirmPurchase(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	i.reservedQuantity -= qty
	if i.reservedQuantity < 0 {
		i.reservedQuantity = 0
	}
	i.purchasedQuantity += qty
	return nil
}

// ReleaseReservation gives back a reserved quantity, applying a
// RESERVED -> CANCELLED transition.
func (i *Item) ReleaseReservation(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	i.reservedQuantity -= qty
	if i.reservedQuantity < 0 {
		i.reservedQuantity = 0
	}
	return nil
}

// Update replaces the owner-editable fields, keeping identity and claim
// counters intact.
func (i *Item) Update(p ItemProps) error {
	if p.Name == "" {
		return ErrItemNameRequired
	}
	if p.TotalQuantity < 0 {
		return ErrNegativeQuantity
	}
	i.name = p.Name
	i.description = p.Description
	i.priority = ParsePriority(p.Priority.Int())
	i.price = p.Price
	i.currency = p.Currency
	i.url = p.URL
	i.imageURL = p.ImageURL
	i.unlimited = p.Unlimited
	i.totalQuantity = p.TotalQuantity
	return nil
}
