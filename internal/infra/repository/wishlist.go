package repository

import (
	"context"

	"wishlink/internal/domain/transaction"
	"wishlink/internal/domain/wishlist"
	"wishlink/internal/infra"
	"wishlink/internal/infra/repository/converter"
	"wishlink/internal/infra/rowstore"

	"github.com/google/uuid"
)

const (
	// Item upserts during a save are retried on any error: 3 attempts
	// total, no backoff. Deliberately flat — see the interface contract.
	itemSaveAttempts = 3

	listPageSize = 100
)

type WishlistRepository struct {
	store *rowstore.Client
}

func NewWishlistRepository(store *rowstore.Client) *WishlistRepository {
	return &WishlistRepository{store: store}
}

// FindByID loads the root row, its item rows, and each item's claim
// counters aggregated from transactions. Returns (nil, nil) when the
// provider reports the root absent.
func (r *WishlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*wishlist.Wishlist, error) {
	var root converter.WishlistRow
	if err := r.store.Get(ctx, rowstore.CollectionWishlists, id.String(), &root); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}

	itemRows, err := r.listItemRows(ctx, root.ID)
	if err != nil {
		return nil, err
	}

	items := make([]*wishlist.Item, 0, len(itemRows))
	for _, row := range itemRows {
		reserved, purchased, err := r.claimCounters(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		item, err := converter.ItemToDomain(row, reserved, purchased)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return converter.WishlistToDomain(root, items)
}

// FindByOwner returns the owner's wishlist roots without their item
// collections; callers needing items load the aggregate by id.
func (r *WishlistRepository) FindByOwner(ctx context.Context, ownerID string) ([]*wishlist.Wishlist, error) {
	var all []converter.WishlistRow
	for offset := 0; ; {
		var page []converter.WishlistRow
		err := r.store.List(ctx, rowstore.CollectionWishlists, rowstore.Query{
			Filters: map[string]string{"ownerId": ownerID},
			OrderBy: "createdAt",
			Limit:   listPageSize,
			Offset:  offset,
		}, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			break
		}
		offset += len(page)
	}

	out := make([]*wishlist.Wishlist, 0, len(all))
	for _, row := range all {
		w, err := converter.WishlistToDomain(row, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// Save upserts the aggregate's item rows, deletes orphaned item rows, then
// upserts the root. Item synchronization strictly happens-before the root
// upsert so orphaned or updated items never reference a root that claims a
// different version of state.
func (r *WishlistRepository) Save(ctx context.Context, w *wishlist.Wishlist) error {
	existing, err := r.listItemRows(ctx, w.ID().String())
	if err != nil {
		return err
	}

	current := make(map[string]struct{})
	for _, item := range w.Items() {
		row := converter.ItemToRow(item)
		current[row.ID] = struct{}{}
		if err := r.upsertItemWithRetry(ctx, row); err != nil {
			return err
		}
	}

	for _, row := range existing {
		if _, keep := current[row.ID]; keep {
			continue
		}
		if err := r.store.Delete(ctx, rowstore.CollectionItems, row.ID); err != nil {
			// Row already gone matches intent: idempotent delete.
			if infra.IsKind(err, infra.KindNotFound) {
				continue
			}
			return err
		}
	}

	root := converter.WishlistToRow(w)
	return r.store.Upsert(ctx, rowstore.CollectionWishlists, root.ID, root)
}

// Delete cascades to the wishlist's transactions and items before removing
// the root. Idempotent: an absent row anywhere is success.
func (r *WishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	itemRows, err := r.listItemRows(ctx, id.String())
	if err != nil {
		return err
	}

	for _, itemRow := range itemRows {
		txRows, err := r.listTransactionRows(ctx, itemRow.ID)
		if err != nil {
			return err
		}
		for _, txRow := range txRows {
			if err := r.store.Delete(ctx, rowstore.CollectionTransactions, txRow.ID); err != nil && !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
		}
		if err := r.store.Delete(ctx, rowstore.CollectionItems, itemRow.ID); err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
	}

	if err := r.store.Delete(ctx, rowstore.CollectionWishlists, id.String()); err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return err
	}
	return nil
}

func (r *WishlistRepository) upsertItemWithRetry(ctx context.Context, row converter.ItemRow) error {
	var err error
	for attempt := 0; attempt < itemSaveAttempts; attempt++ {
		if err = r.store.Upsert(ctx, rowstore.CollectionItems, row.ID, row); err == nil {
			return nil
		}
	}
	return err
}

func (r *WishlistRepository) listItemRows(ctx context.Context, wishlistID string) ([]converter.ItemRow, error) {
	var all []converter.ItemRow
	for offset := 0; ; {
		var page []converter.ItemRow
		err := r.store.List(ctx, rowstore.CollectionItems, rowstore.Query{
			Filters: map[string]string{"wishlistId": wishlistID},
			Limit:   listPageSize,
			Offset:  offset,
		}, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
		offset += len(page)
	}
}

func (r *WishlistRepository) listTransactionRows(ctx context.Context, itemID string) ([]converter.TransactionRow, error) {
	var all []converter.TransactionRow
	for offset := 0; ; {
		var page []converter.TransactionRow
		err := r.store.List(ctx, rowstore.CollectionTransactions, rowstore.Query{
			Filters: map[string]string{"itemId": itemID},
			Limit:   listPageSize,
			Offset:  offset,
		}, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
		offset += len(page)
	}
}

// claimCounters derives an item's reserved/purchased quantities from its
// transaction rows; item rows persist only the ceiling.
func (r *WishlistRepository) claimCounters(ctx context.Context, itemID string) (reserved, purchased int, err error) {
	rows, err := r.listTransactionRows(ctx, itemID)
	if err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		switch transaction.Status(row.Status) {
		case transaction.StatusReserved:
			reserved += row.Quantity
		case transaction.StatusPurchased:
			purchased += row.Quantity
		}
	}
	return reserved, purchased, nil
}
