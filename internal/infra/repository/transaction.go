package repository

import (
	"context"
	"sync/atomic"
	"time"

	"wishlink/internal/domain/transaction"
	"wishlink/internal/infra"
	"wishlink/internal/infra/repository/converter"
	"wishlink/internal/infra/rowstore"
	"wishlink/internal/pkg/clock"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// cancelPageSize bounds each RESERVED page during a bulk cancel.
const cancelPageSize = 100

type TransactionRepository struct {
	store *rowstore.Client
	clock clock.Clock
}

func NewTransactionRepository(store *rowstore.Client, clock clock.Clock) *TransactionRepository {
	return &TransactionRepository{
		store: store,
		clock: clock,
	}
}

func (r *TransactionRepository) Save(ctx context.Context, t *transaction.Transaction) error {
	row := converter.TransactionToRow(t)
	if err := r.store.Upsert(ctx, rowstore.CollectionTransactions, row.ID, row); err != nil {
		return err
	}
	return nil
}

// FindByID returns (nil, nil) when the provider reports the row absent.
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var row converter.TransactionRow
	if err := r.store.Get(ctx, rowstore.CollectionTransactions, id.String(), &row); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return converter.TransactionToDomain(row)
}

func (r *TransactionRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*transaction.Transaction, error) {
	rows, err := r.listAll(ctx, map[string]string{"itemId": itemID.String()})
	if err != nil {
		return nil, err
	}
	out := make([]*transaction.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := converter.TransactionToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

type statusPatch struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CancelByItemID moves every outstanding RESERVED transaction for the item
// to CANCELLED_BY_OWNER and returns how many rows it cancelled.
//
// Best-effort, not atomic: the provider has no multi-row transaction or
// conditional bulk update. Pages of up to cancelPageSize RESERVED rows are
// fetched sequentially; each page's updates run in parallel; the loop ends
// when a page comes back short. A failure mid-run leaves later rows
// RESERVED, and a reservation created while the loop runs may or may not be
// caught by a later page — callers must treat the returned count as a lower
// bound on affected rows.
func (r *TransactionRepository) CancelByItemID(ctx context.Context, itemID uuid.UUID) (int, error) {
	patch := statusPatch{
		Status:    transaction.StatusCancelledByOwner.String(),
		UpdatedAt: r.clock.Now().UTC(),
	}
	filters := map[string]string{
		"itemId": itemID.String(),
		"status": transaction.StatusReserved.String(),
	}

	var cancelled atomic.Int64
	for {
		// Updated rows drop out of the RESERVED filter, so every fetch
		// starts at offset 0. Pages stay strictly sequential: the provider
		// is eventually consistent and a just-updated row must not reappear
		// in the next page query.
		var page []converter.TransactionRow
		err := r.store.List(ctx, rowstore.CollectionTransactions, rowstore.Query{
			Filters: filters,
			Limit:   cancelPageSize,
		}, &page)
		if err != nil {
			return int(cancelled.Load()), err
		}
		if len(page) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, row := range page {
			row := row
			g.Go(func() error {
				if err := r.store.Update(gctx, rowstore.CollectionTransactions, row.ID, patch); err != nil {
					return err
				}
				cancelled.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(cancelled.Load()), err
		}

		if len(page) < cancelPageSize {
			break
		}
	}
	return int(cancelled.Load()), nil
}

func (r *TransactionRepository) listAll(ctx context.Context, filters map[string]string) ([]converter.TransactionRow, error) {
	var all []converter.TransactionRow
	for offset := 0; ; {
		var page []converter.TransactionRow
		err := r.store.List(ctx, rowstore.CollectionTransactions, rowstore.Query{
			Filters: filters,
			Limit:   cancelPageSize,
			Offset:  offset,
		}, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < cancelPageSize {
			return all, nil
		}
		offset += len(page)
	}
}
