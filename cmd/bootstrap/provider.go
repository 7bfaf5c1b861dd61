package bootstrap

import (
	"wishlink/internal/handler/middleware"
	"wishlink/internal/infra/rowstore"
	"wishlink/internal/pkg/config"

	"go.uber.org/fx"
)

var ProviderModule = fx.Module("provider",
	fx.Provide(
		NewRowStore,
		func(c *rowstore.Client) middleware.SessionMinter { return c },
	),
)

func NewRowStore(cfg config.Config) *rowstore.Client {
	return rowstore.New(cfg.Provider)
}
