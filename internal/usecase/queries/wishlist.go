package queries

import (
	"context"
	"time"

	"wishlink/internal/domain/transaction"
	"wishlink/internal/domain/wishlist"
	"wishlink/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrWishlistNotFound = errs.New("wishlist not found")
	ErrItemNotFound     = errs.New("item not found")
	ErrForbidden        = errs.New("only the owner may view this")
)

type WishlistReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*wishlist.Wishlist, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*wishlist.Wishlist, error)
}

type TransactionReadStore interface {
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*transaction.Transaction, error)
}

type ItemView struct {
	ID                uuid.UUID
	Name              string
	Description       *string
	Priority          int
	Price             *float64
	Currency          *string
	URL               *string
	ImageURL          *string
	IsUnlimited       bool
	TotalQuantity     int
	ReservedQuantity  int
	PurchasedQuantity int
	Available         int
	IsCompleted       bool
	IsFullyReserved   bool
}

type WishlistView struct {
	ID            uuid.UUID
	OwnerID       string
	Title         string
	Description   *string
	Visibility    string
	Participation string
	IsOwner       bool
	Items         []ItemView
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type WishlistSummary struct {
	ID            uuid.UUID
	Title         string
	Description   *string
	Visibility    string
	Participation string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransactionView is the owner's view of a claim. The holder's identity is
// reduced to a guest flag: transactions carry user-identity data with
// stricter access rules than the wishlist itself.
type TransactionView struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	Status    string
	Quantity  int
	IsGuest   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WishlistQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, viewerID string) (*WishlistView, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*WishlistSummary, error)
	ItemTransactions(ctx context.Context, wishlistID, itemID uuid.UUID, viewerID string) ([]*TransactionView, error)
}

type wishlistQueriesImpl struct {
	wishlists    WishlistReadStore
	transactions TransactionReadStore
}

func NewWishlistQueries(wishlists WishlistReadStore, transactions TransactionReadStore) WishlistQueries {
	return &wishlistQueriesImpl{
		wishlists:    wishlists,
		transactions: transactions,
	}
}

// GetByID returns the wishlist with per-item claim state. Private lists are
// reported as not found to anyone but their owner.
func (q *wishlistQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, viewerID string) (*WishlistView, error) {
	w, err := q.wishlists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWishlistNotFound
	}
	isOwner := w.IsOwnedBy(viewerID)
	if w.Visibility() == wishlist.VisibilityPrivate && !isOwner {
		return nil, ErrWishlistNotFound
	}

	items := w.Items()
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = itemView(item)
	}

	return &WishlistView{
		ID:            w.ID(),
		OwnerID:       w.OwnerID(),
		Title:         w.Title(),
		Description:   w.Description(),
		Visibility:    w.Visibility().String(),
		Participation: w.Participation().String(),
		IsOwner:       isOwner,
		Items:         views,
		CreatedAt:     w.CreatedAt(),
		UpdatedAt:     w.UpdatedAt(),
	}, nil
}

func (q *wishlistQueriesImpl) ListByOwner(ctx context.Context, ownerID string) ([]*WishlistSummary, error) {
	lists, err := q.wishlists.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*WishlistSummary, len(lists))
	for i, w := range lists {
		out[i] = &WishlistSummary{
			ID:            w.ID(),
			Title:         w.Title(),
			Description:   w.Description(),
			Visibility:    w.Visibility().String(),
			Participation: w.Participation().String(),
			CreatedAt:     w.CreatedAt(),
			UpdatedAt:     w.UpdatedAt(),
		}
	}
	return out, nil
}

func (q *wishlistQueriesImpl) ItemTransactions(ctx context.Context, wishlistID, itemID uuid.UUID, viewerID string) ([]*TransactionView, error) {
	w, err := q.wishlists.FindByID(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWishlistNotFound
	}
	if !w.IsOwnedBy(viewerID) {
		return nil, ErrForbidden
	}
	if _, ok := w.ItemByID(itemID); !ok {
		return nil, ErrItemNotFound
	}

	txs, err := q.transactions.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]*TransactionView, len(txs))
	for i, t := range txs {
		out[i] = &TransactionView{
			ID:        t.ID(),
			ItemID:    t.ItemID(),
			Status:    t.Status().String(),
			Quantity:  t.Quantity(),
			IsGuest:   t.GuestSessionID() != nil,
			CreatedAt: t.CreatedAt(),
			UpdatedAt: t.UpdatedAt(),
		}
	}
	return out, nil
}

func itemView(item *wishlist.Item) ItemView {
	return ItemView{
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
