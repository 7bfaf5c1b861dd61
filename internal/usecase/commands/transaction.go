package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"wishlink/internal/domain/transaction"
	"wishlink/internal/domain/wishlist"
	"wishlink/internal/pkg/clock"
	"wishlink/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInsufficientQuantity = errs.New("insufficient quantity available")
	ErrTransactionNotFound  = errs.New("transaction not found")
	ErrNotTransactionHolder = errs.New("transaction is held by another user")
	ErrAlreadyFinalized     = errs.New("transaction is already finalized")
	ErrRegistrationRequired = errs.New("wishlist requires a registered account")
)

type TransactionRepository interface {
	Save(ctx context.Context, t *transaction.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
}

// WishlistReader gives claim commands the aggregate with claim counters
// already derived, so capacity checks see the latest persisted state.
type WishlistReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*wishlist.Wishlist, error)
}

type ClaimParams struct {
	WishlistID uuid.UUID
	ItemID     uuid.UUID
	Quantity   int
	// Purchase finalizes the claim immediately (reserve-then-purchase in
	// one command); otherwise the claim stays RESERVED.
	Purchase bool
}

type TransactionCommands interface {
	Claim(ctx context.Context, p ClaimParams, actor transaction.Actor) (*transaction.Transaction, error)
	Purchase(ctx context.Context, id uuid.UUID, actor transaction.Actor) (*transaction.Transaction, error)
	Release(ctx context.Context, id uuid.UUID, actor transaction.Actor) (*transaction.Transaction, error)
}

type transactionCommandsImpl struct {
	transactions TransactionRepository
	wishlists    WishlistReader
	clock        clock.Clock
	logger       *slog.Logger
}

func NewTransactionCommands(
	transactions TransactionRepository,
	wishlists WishlistReader,
	clock clock.Clock,
	logger *slog.Logger,
) TransactionCommands {
	return &transactionCommandsImpl{
		transactions: transactions,
		wishlists:    wishlists,
		clock:        clock,
		logger:       logger,
	}
}

// Claim creates a visitor's claim on an item. The capacity check and the
// save are not atomic: the provider is eventually consistent and two racing
// visitors can both pass the check. The design accepts eventual, not
// linearizable, correctness for the reservation count.
func (u *transactionCommandsImpl) Claim(ctx context.Context, p ClaimParams, actor transaction.Actor) (*transaction.Transaction, error) {
	w, err := u.wishlists.FindByID(ctx, p.WishlistID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWishlistNotFound
	}
	// Private lists are invisible to everyone but their owner.
	if w.Visibility() == wishlist.VisibilityPrivate && !w.IsOwnedBy(actor.ID) {
		return nil, ErrWishlistNotFound
	}
	if w.Participation().RequiresAccount() && actor.Guest {
		return nil, ErrRegistrationRequired
	}

	item, ok := w.ItemByID(p.ItemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	now := u.clock.Now()
	t, err := transaction.NewTransaction(transaction.ItemSpec{
		ID:        item.ID(),
		Unlimited: item.IsUnlimited(),
		Available: item.Available(),
	}, actor, p.Quantity, now)
	if err != nil {
		if errors.Is(err, transaction.ErrInsufficientQuantity) {
			return nil, errs.Mark(err, ErrInsufficientQuantity)
		}
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if p.Purchase {
		if err := t.MarkPurchased(now); err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}
	}

	if err := u.transactions.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *transactionCommandsImpl) Purchase(ctx context.Context, id uuid.UUID, actor transaction.Actor) (*transaction.Transaction, error) {
	return u.finalize(ctx, id, actor, (*transaction.Transaction).MarkPurchased)
}

func (u *transactionCommandsImpl) Release(ctx context.Context, id uuid.UUID, actor transaction.Actor) (*transaction.Transaction, error) {
	return u.finalize(ctx, id, actor, (*transaction.Transaction).CancelByUser)
}

func (u *transactionCommandsImpl) finalize(
	ctx context.Context,
	id uuid.UUID,
	actor transaction.Actor,
	transition func(*transaction.Transaction, time.Time) error,
) (*transaction.Transaction, error) {
	t, err := u.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTransactionNotFound
	}
	if !t.IsHeldBy(actor.ID) {
		return nil, ErrNotTransactionHolder
	}

	if err := transition(t, u.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrAlreadyFinalized)
	}

	if err := u.transactions.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
