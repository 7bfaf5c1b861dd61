package components

import (
	"wishlink/internal/handler"
	"wishlink/internal/handler/api"
	"wishlink/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewWishlistHandler,
		api.NewTransactionHandler,
		middleware.NewSessionMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
