package components

import (
	repo_impl "wishlink/internal/infra/repository"
	"wishlink/internal/usecase/commands"
	"wishlink/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewWishlistRepository,
			fx.As(new(commands.WishlistRepository)),
			fx.As(new(commands.WishlistReader)),
			fx.As(new(queries.WishlistReadStore)),
		),
		fx.Annotate(
			repo_impl.NewTransactionRepository,
			fx.As(new(commands.TransactionRepository)),
			fx.As(new(commands.ReservationCanceller)),
			fx.As(new(queries.TransactionReadStore)),
		),
	),
)
