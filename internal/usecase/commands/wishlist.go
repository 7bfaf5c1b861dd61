package commands

import (
	"context"
	"log/slog"

	"wishlink/internal/domain/wishlist"
	"wishlink/internal/pkg/clock"
	"wishlink/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrWishlistNotFound = errs.New("wishlist not found")
	ErrItemNotFound     = errs.New("item not found")
	ErrNotOwner         = errs.New("wishlist is owned by another user")
	ErrDomainValidation = errs.New("domain validation error")
)

type WishlistRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*wishlist.Wishlist, error)
	Save(ctx context.Context, w *wishlist.Wishlist) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReservationCanceller is the owner-cancel side of the transaction
// repository. The returned count is a lower bound under partial failure.
type ReservationCanceller interface {
	CancelByItemID(ctx context.Context, itemID uuid.UUID) (int, error)
}

type ItemParams struct {
	ID            *uuid.UUID
	Name          string
	Description   *string
	Priority      int
	Price         *float64
	Currency      *string
	URL           *string
	ImageURL      *string
	IsUnlimited   bool
	TotalQuantity int
}

type CreateWishlistParams struct {
	Title         string
	Description   *string
	Visibility    string
	Participation string
	Items         []ItemParams
}

// UpdateWishlistParams carries the desired end state; items absent from the
// list are removed from the wishlist.
type UpdateWishlistParams struct {
	Title         string
	Description   *string
	Visibility    string
	Participation string
	Items         []ItemParams
}

type WishlistCommands interface {
	Create(ctx context.Context, ownerID string, p CreateWishlistParams) (*wishlist.Wishlist, error)
	Update(ctx context.Context, id uuid.UUID, ownerID string, p UpdateWishlistParams) (*wishlist.Wishlist, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}

type wishlistCommandsImpl struct {
	wishlists WishlistRepository
	cancels   ReservationCanceller
	clock     clock.Clock
	logger    *slog.Logger
}

func NewWishlistCommands(
	wishlists WishlistRepository,
	cancels ReservationCanceller,
	clock clock.Clock,
	logger *slog.Logger,
) WishlistCommands {
	return &wishlistCommandsImpl{
		wishlists: wishlists,
		cancels:   cancels,
		clock:     clock,
		logger:    logger,
	}
}

func (u *wishlistCommandsImpl) Create(ctx context.Context, ownerID string, p CreateWishlistParams) (*wishlist.Wishlist, error) {
	now := u.clock.Now()
	w, err := wishlist.NewWishlist(
		ownerID,
		p.Title,
		p.Description,
		wishlist.ParseVisibility(p.Visibility),
		wishlist.ParseParticipation(p.Participation),
		now,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	for _, ip := range p.Items {
		if _, err := w.AddItem(itemProps(ip), now); err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}
	}

	if err := u.wishlists.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Update applies owner edits and reconciles reservations: removed items and
// edited items have their outstanding RESERVED transactions owner-cancelled
// so visitors no longer see a stale claim.
func (u *wishlistCommandsImpl) Update(ctx context.Context, id uuid.UUID, ownerID string, p UpdateWishlistParams) (*wishlist.Wishlist, error) {
	w, err := u.loadOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	now := u.clock.Now()

	if err := w.Rename(p.Title, now); err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	w.SetDescription(p.Description, now)
	w.SetVisibility(wishlist.ParseVisibility(p.Visibility), now)
	w.SetParticipation(wishlist.ParseParticipation(p.Participation), now)

	var cancelItemIDs []uuid.UUID

	desired := make(map[uuid.UUID]struct{})
	for _, ip := range p.Items {
		if ip.ID == nil {
			added, err := w.AddItem(itemProps(ip), now)
			if err != nil {
				return nil, errs.Mark(err, ErrDomainValidation)
			}
			desired[added.ID()] = struct{}{}
			continue
		}
		desired[*ip.ID] = struct{}{}
		item, ok := w.ItemByID(*ip.ID)
		if !ok {
			return nil, ErrItemNotFound
		}
		if itemEdited(item, ip) {
			cancelItemIDs = append(cancelItemIDs, item.ID())
		}
		if _, err := w.UpdateItem(*ip.ID, itemProps(ip), now); err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}
	}

	for _, item := range w.Items() {
		if _, keep := desired[item.ID()]; keep {
			continue
		}
		removed, err := w.RemoveItem(item.ID(), now)
		if err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}
		cancelItemIDs = append(cancelItemIDs, removed.ID())
	}

	for _, itemID := range cancelItemIDs {
		count, err := u.cancels.CancelByItemID(ctx, itemID)
		if err != nil {
			// Best-effort contract: some reservations may remain RESERVED.
			u.logger.Warn("owner-cancel incomplete",
				"item_id", itemID.String(), "cancelled", count, "error", err.Error())
			return nil, err
		}
		if count > 0 {
			u.logger.Info("owner-cancelled reservations",
				"item_id", itemID.String(), "cancelled", count)
		}
	}

	if err := u.wishlists.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes the wishlist, cascading to items and transactions.
// Outstanding reservations are owner-cancelled first so a partial cascade
// failure never strands visitors on a RESERVED claim for a gone wishlist.
// Deleting an absent wishlist succeeds.
func (u *wishlistCommandsImpl) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	w, err := u.wishlists.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return nil
	}
	if !w.IsOwnedBy(ownerID) {
		return ErrNotOwner
	}

	for _, item := range w.Items() {
		count, err := u.cancels.CancelByItemID(ctx, item.ID())
		if err != nil {
			u.logger.Warn("owner-cancel incomplete",
				"item_id", item.ID().String(), "cancelled", count, "error", err.Error())
			return err
		}
	}

	return u.wishlists.Delete(ctx, id)
}

func (u *wishlistCommandsImpl) loadOwned(ctx context.Context, id uuid.UUID, ownerID string) (*wishlist.Wishlist, error) {
	w, err := u.wishlists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWishlistNotFound
	}
	if !w.IsOwnedBy(ownerID) {
		return nil, ErrNotOwner
	}
	return w, nil
}

// itemEdited reports whether the params change any persisted item field.
// Owner edits force-cancel outstanding reservations; an unchanged item
// submitted back in the desired set must not.
func itemEdited(item *wishlist.Item, p ItemParams) bool {
	cur := item.Props()
	return cur.Name != p.Name ||
		!equalPtr(cur.Description, p.Description) ||
		cur.Priority != wishlist.ParsePriority(p.Priority) ||
		!equalPtr(cur.Price, p.Price) ||
		!equalPtr(cur.Currency, p.Currency) ||
		!equalPtr(cur.URL, p.URL) ||
		!equalPtr(cur.ImageURL, p.ImageURL) ||
		cur.Unlimited != p.IsUnlimited ||
		cur.TotalQuantity != p.TotalQuantity
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func itemProps(p ItemParams) wishlist.ItemProps {
	props := wishlist.ItemProps{
		Name:          p.Name,
		Description:   p.Description,
		Priority:      wishlist.ParsePriority(p.Priority),
		Price:         p.Price,
		Currency:      p.Currency,
		URL:           p.URL,
		ImageURL:      p.ImageURL,
		Unlimited:     p.IsUnlimited,
		TotalQuantity: p.TotalQuantity,
	}
	if p.ID != nil {
		props.ID = *p.ID
	}
	return props
}
