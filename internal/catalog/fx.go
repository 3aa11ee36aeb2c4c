package catalog

import (
	"go.uber.org/fx"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/service"
)

var Module = fx.Module("catalog.service",
	fx.Provide(service.NewService),
)
