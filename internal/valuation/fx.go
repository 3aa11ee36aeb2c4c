package valuation

import (
	"go.uber.org/fx"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/service"
)

var Module = fx.Module("valuation.service",
	fx.Provide(service.NewService),
)
