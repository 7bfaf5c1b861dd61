package bootstrap

import (
	"wishlink/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	ProviderModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
