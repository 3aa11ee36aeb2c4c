package quote

import (
	"go.uber.org/fx"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/quote/service"
)

var Module = fx.Module("quote.service",
	fx.Provide(service.NewService),
)
