//go:build unit

package repository_test

import (
	"context"
	"net/http"
	"testing"

	"wishlink/internal/infra/repository"
	"wishlink/internal/infra/rowstore"
	"wishlink/internal/pkg/config"
	"wishlink/tests/common/builder"
	"wishlink/tests/common/providertest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wlCollection   = "test_wishlists"
	itemCollection = "test_wishlist_items"
)

func newWishlistRepo(t *testing.T) (*repository.WishlistRepository, *providertest.Server) {
	t.Helper()
	srv := providertest.New(t)
	cfg := config.NewTestConfig()
	cfg.Provider.BaseURL = srv.URL()
	return repository.NewWishlistRepository(rowstore.New(cfg.Provider)), srv
}

func seedAggregate(t *testing.T, srv *providertest.Server) (*builder.WishlistBuilder, *builder.ItemBuilder) {
	t.Helper()
	wb := builder.NewWishlistBuilder()
	srv.Seed(t, wlCollection, wb.ID.String(), wb.BuildRow())
	ib := builder.NewItemBuilder(wb.ID)
	srv.Seed(t, itemCollection, ib.ID.String(), ib.BuildRow())
	return wb, ib
}

func TestWishlistRepository_FindByID(t *testing.T) {
	t.Run("derives claim counters from transactions", func(t *testing.T) {
		repo, srv := newWishlistRepo(t)
		wb, ib := seedAggregate(t, srv)

		reserved := builder.NewTransactionBuilder(ib.ID).
			With(func(b *builder.TransactionBuilder) { b.Quantity = 2 })
		srv.Seed(t, txCollection, reserved.ID.String(), reserved.BuildRow())
		purchased := builder.NewTransactionBuilder(ib.ID).
			With(func(b *builder.TransactionBuilder) {
				b.Status = "purchased"
				b.Quantity = 1
			})
		srv.Seed(t, txCollection, purchased.ID.String(), purchased.BuildRow())
		cancelled := builder.NewTransactionBuilder(ib.ID).
			With(func(b *builder.TransactionBuilder) {
				b.Status = "cancelled_by_user"
				b.Quantity = 5
			})
		srv.Seed(t, txCollection, cancelled.ID.String(), cancelled.BuildRow())

		w, err := repo.FindByID(context.Background(), wb.ID)
		require.NoError(t, err)
		require.NotNil(t, w)

		item, ok := w.ItemByID(ib.ID)
		require.True(t, ok)
		assert.Equal(t, 2, item.ReservedQuantity())
		assert.Equal(t, 1, item.PurchasedQuantity())
		assert.Equal(t, 0, item.Available())
	})

	t.Run("absent root returns nil without error", func(t *testing.T) {
		repo, _ := newWishlistRepo(t)

		w, err := repo.FindByID(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Nil(t, w)
	})
}

func TestWishlistRepository_FindByOwner(t *testing.T) {
	repo, srv := newWishlistRepo(t)
	owner := "owner-" + uuid.NewString()

	for i := 0; i < 2; i++ {
		wb := builder.NewWishlistBuilder().
			With(func(b *builder.WishlistBuilder) { b.OwnerID = owner })
		srv.Seed(t, wlCollection, wb.ID.String(), wb.BuildRow())
	}
	other := builder.NewWishlistBuilder()
	srv.Seed(t, wlCollection, other.ID.String(), other.BuildRow())

	lists, err := repo.FindByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	for _, w := range lists {
		assert.Equal(t, owner, w.OwnerID())
		assert.Empty(t, w.Items())
	}
}

func TestWishlistRepository_Save(t *testing.T) {
	t.Run("writes item rows then the root", func(t *testing.T) {
		repo, srv := newWishlistRepo(t)

		wb := builder.NewWishlistBuilder()
		item, err := builder.NewItemBuilder(wb.ID).BuildDomain()
		require.NoError(t, err)
		w, err := wb.BuildDomain(item)
		require.NoError(t, err)

		require.NoError(t, repo.Save(context.Background(), w))

		assert.Equal(t, 1, srv.Count(wlCollection))
		assert.Equal(t, 1, srv.Count(itemCollection))
		row, ok := srv.Row(itemCollection, item.ID().String())
		require.True(t, ok)
		assert.Equal(t, "Coffee Grinder", row["name"])
	})

	t.Run("deletes orphaned item rows", func(t *testing.T) {
		repo, srv := newWishlistRepo(t)
		wb, ib := seedAggregate(t, srv)

		keep, err := builder.NewItemBuilder(wb.ID).BuildDomain()
		require.NoError(t, err)
		w, err := wb.BuildDomain(keep)
		require.NoError(t, err)

		require.NoError(t, repo.Save(context.Background(), w))

		_, orphanExists := srv.Row(itemCollection, ib.ID.String())
		assert.False(t, orphanExists)
		_, keptExists := srv.Row(itemCollection, keep.ID().String())
		assert.True(t, keptExists)
	})

	t.Run("retries item upserts and recovers", func(t *testing.T) {
		repo, srv := newWishlistRepo(t)

		wb := builder.NewWishlistBuilder()
		item, err := builder.NewItemBuilder(wb.ID).BuildDomain()
		require.NoError(t, err)
		w, err := wb.BuildDomain(item)
		require.NoError(t, err)

		srv.FailNext(http.MethodPut, itemCollection, 2, http.StatusInternalServerError)

		require.NoError(t, repo.Save(context.Background(), w))
		assert.Equal(t, 1, srv.Count(itemCollection))
	})

	t.Run("gives up after three attempts and leaves the root untouched", func(t *testing.T) {
		repo, srv := newWishlistRepo(t)

		wb := builder.NewWishlistBuilder()
		item, err := builder.NewItemBuilder(wb.ID).BuildDomain()
		require.NoError(t, err)
		w, err := wb.BuildDomain(item)
		require.NoError(t, err)

		srv.FailNext(http.MethodPut, itemCollection, 3, http.StatusInternalServerError)

		require.Error(t, repo.Save(context.Background(), w))
		assert.Equal(t, 0, srv.Count(wlCollection))
	})
}

func TestWishlistRepository_Delete(t *testing.T) {
	t.Run("cascades through transactions and items", func(t *testing.T) {
		repo, srv := newWishlistRepo(t)
		wb, ib := seedAggregate(t, srv)
		tb := builder.NewTransactionBuilder(ib.ID)
		srv.Seed(t, txCollection, tb.ID.String(), tb.BuildRow())

		require.NoError(t, repo.Delete(context.Background(), wb.ID))

		assert.Equal(t, 0, srv.Count(wlCollection))
		assert.Equal(t, 0, srv.Count(itemCollection))
		assert.Equal(t, 0, srv.Count(txCollection))
	})

	t.Run("absent rows do not fail the delete", func(t *testing.T) {
		repo, _ := newWishlistRepo(t)
		require.NoError(t, repo.Delete(context.Background(), uuid.New()))
	})
}
