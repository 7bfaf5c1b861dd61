//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"wishlink/internal/domain/wishlist"
	"wishlink/internal/pkg/clock"
	"wishlink/internal/usecase/commands"
	"wishlink/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWishlistRepo struct {
	byID    map[uuid.UUID]*wishlist.Wishlist
	saved   []*wishlist.Wishlist
	deleted []uuid.UUID
	saveErr error
}

func newFakeWishlistRepo(lists ...*wishlist.Wishlist) *fakeWishlistRepo {
	r := &fakeWishlistRepo{byID: make(map[uuid.UUID]*wishlist.Wishlist)}
	for _, w := range lists {
		r.byID[w.ID()] = w
	}
	return r
}

func (r *fakeWishlistRepo) FindByID(_ context.Context, id uuid.UUID) (*wishlist.Wishlist, error) {
	return r.byID[id], nil
}

func (r *fakeWishlistRepo) Save(_ context.Context, w *wishlist.Wishlist) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, w)
	r.byID[w.ID()] = w
	return nil
}

func (r *fakeWishlistRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	delete(r.byID, id)
	return nil
}

type fakeCanceller struct {
	cancelled []uuid.UUID
	count     int
	err       error
}

func (c *fakeCanceller) CancelByItemID(_ context.Context, itemID uuid.UUID) (int, error) {
	c.cancelled = append(c.cancelled, itemID)
	return c.count, c.err
}

func newWishlistCommands(repo *fakeWishlistRepo, canceller *fakeCanceller) commands.WishlistCommands {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := clock.NewMockClock(time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))
	return commands.NewWishlistCommands(repo, canceller, mock, logger)
}

func itemParamsFrom(item *wishlist.Item) commands.ItemParams {
	p := item.Props()
	id := p.ID
	return commands.ItemParams{
		ID:            &id,
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

func seededWishlist(t *testing.T, owner string) (*wishlist.Wishlist, *wishlist.Item) {
	t.Helper()
	wb := builder.NewWishlistBuilder().
		With(func(b *builder.WishlistBuilder) { b.OwnerID = owner })
	item, err := builder.NewItemBuilder(wb.ID).BuildDomain()
	require.NoError(t, err)
	w, err := wb.BuildDomain(item)
	require.NoError(t, err)
	return w, item
}

func TestWishlistCommands_Create(t *testing.T) {
	t.Run("creates the aggregate with items", func(t *testing.T) {
		repo := newFakeWishlistRepo()
		uc := newWishlistCommands(repo, &fakeCanceller{})

		w, err := uc.Create(context.Background(), "owner-1", commands.CreateWishlistParams{
			Title:      "Wedding",
			Visibility: "private",
			Items: []commands.ItemParams{
				{Name: "Toaster", TotalQuantity: 1},
				{Name: "Blender", TotalQuantity: 2, Priority: 99},
			},
		})
		require.NoError(t, err)
		require.Len(t, repo.saved, 1)

		assert.Equal(t, "owner-1", w.OwnerID())
		assert.Equal(t, wishlist.VisibilityPrivate, w.Visibility())
		require.Len(t, w.Items(), 2)
		assert.Equal(t, wishlist.PriorityMedium, w.Items()[1].Priority())
	})

	t.Run("validation failures carry the sentinel", func(t *testing.T) {
		repo := newFakeWishlistRepo()
		uc := newWishlistCommands(repo, &fakeCanceller{})

		_, err := uc.Create(context.Background(), "owner-1", commands.CreateWishlistParams{
			Title: "Wedding",
			Items: []commands.ItemParams{{Name: ""}},
		})
		require.ErrorIs(t, err, commands.ErrDomainValidation)
		assert.Empty(t, repo.saved)
	})
}

func TestWishlistCommands_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown wishlist", func(t *testing.T) {
		uc := newWishlistCommands(newFakeWishlistRepo(), &fakeCanceller{})
		_, err := uc.Update(ctx, uuid.New(), "owner-1", commands.UpdateWishlistParams{Title: "X"})
		require.ErrorIs(t, err, commands.ErrWishlistNotFound)
	})

	t.Run("not the owner", func(t *testing.T) {
		w, item := seededWishlist(t, "owner-1")
		uc := newWishlistCommands(newFakeWishlistRepo(w), &fakeCanceller{})

		_, err := uc.Update(ctx, w.ID(), "intruder", commands.UpdateWishlistParams{
			Title: "Hijacked",
			Items: []commands.ItemParams{itemParamsFrom(item)},
		})
		require.ErrorIs(t, err, commands.ErrNotOwner)
	})

	t.Run("unchanged items keep their reservations", func(t *testing.T) {
		w, item := seededWishlist(t, "owner-1")
		canceller := &fakeCanceller{}
		uc := newWishlistCommands(newFakeWishlistRepo(w), canceller)

		_, err := uc.Update(ctx, w.ID(), "owner-1", commands.UpdateWishlistParams{
			Title:         w.Title(),
			Description:   w.Description(),
			Visibility:    w.Visibility().String(),
			Participation: w.Participation().String(),
			Items:         []commands.ItemParams{itemParamsFrom(item)},
		})
		require.NoError(t, err)
		assert.Empty(t, canceller.cancelled)
	})

	t.Run("edited items get their reservations cancelled", func(t *testing.T) {
		w, item := seededWishlist(t, "owner-1")
		canceller := &fakeCanceller{count: 2}
		uc := newWishlistCommands(newFakeWishlistRepo(w), canceller)

		edited := itemParamsFrom(item)
		edited.TotalQuantity = 10

		_, err := uc.Update(ctx, w.ID(), "owner-1", commands.UpdateWishlistParams{
			Title: w.Title(),
			Items: []commands.ItemParams{edited},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{item.ID()}, canceller.cancelled)
	})

	t.Run("removed items get their reservations cancelled", func(t *testing.T) {
		w, item := seededWishlist(t, "owner-1")
		canceller := &fakeCanceller{count: 1}
		repo := newFakeWishlistRepo(w)
		uc := newWishlistCommands(repo, canceller)

		updated, err := uc.Update(ctx, w.ID(), "owner-1", commands.UpdateWishlistParams{
			Title: w.Title(),
			Items: nil,
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{item.ID()}, canceller.cancelled)
		assert.Empty(t, updated.Items())
		require.Len(t, repo.saved, 1)
	})

	t.Run("newly added items are kept, not removed", func(t *testing.T) {
		w, item := seededWishlist(t, "owner-1")
		canceller := &fakeCanceller{}
		uc := newWishlistCommands(newFakeWishlistRepo(w), canceller)

		updated, err := uc.Update(ctx, w.ID(), "owner-1", commands.UpdateWishlistParams{
			Title: w.Title(),
			Items: []commands.ItemParams{
				itemParamsFrom(item),
				{Name: "Kettle", TotalQuantity: 1},
			},
		})
		require.NoError(t, err)
		assert.Len(t, updated.Items(), 2)
		assert.Empty(t, canceller.cancelled)
	})

	t.Run("cancel failure aborts before saving", func(t *testing.T) {
		w, _ := seededWishlist(t, "owner-1")
		canceller := &fakeCanceller{err: assert.AnError}
		repo := newFakeWishlistRepo(w)
		uc := newWishlistCommands(repo, canceller)

		_, err := uc.Update(ctx, w.ID(), "owner-1", commands.UpdateWishlistParams{
			Title: w.Title(),
			Items: nil,
		})
		require.Error(t, err)
		assert.Empty(t, repo.saved)
	})
}

func TestWishlistCommands_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes, reservations cancelled first", func(t *testing.T) {
		w, item := seededWishlist(t, "owner-1")
		repo := newFakeWishlistRepo(w)
		canceller := &fakeCanceller{}
		uc := newWishlistCommands(repo, canceller)

		require.NoError(t, uc.Delete(ctx, w.ID(), "owner-1"))
		assert.Equal(t, []uuid.UUID{w.ID()}, repo.deleted)
		assert.Equal(t, []uuid.UUID{item.ID()}, canceller.cancelled)
	})

	t.Run("cancel failure aborts the delete", func(t *testing.T) {
		w, _ := seededWishlist(t, "owner-1")
		repo := newFakeWishlistRepo(w)
		uc := newWishlistCommands(repo, &fakeCanceller{err: assert.AnError})

		require.Error(t, uc.Delete(ctx, w.ID(), "owner-1"))
		assert.Empty(t, repo.deleted)
	})

	t.Run("absent wishlist is an idempotent success", func(t *testing.T) {
		repo := newFakeWishlistRepo()
		uc := newWishlistCommands(repo, &fakeCanceller{})

		require.NoError(t, uc.Delete(ctx, uuid.New(), "owner-1"))
		assert.Empty(t, repo.deleted)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		w, _ := seededWishlist(t, "owner-1")
		repo := newFakeWishlistRepo(w)
		uc := newWishlistCommands(repo, &fakeCanceller{})

		require.ErrorIs(t, uc.Delete(ctx, w.ID(), "intruder"), commands.ErrNotOwner)
		assert.Empty(t, repo.deleted)
	})
}
