package pricing

import (
	"go.uber.org/fx"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/engine"
)

var Module = fx.Module("pricing.engine",
	fx.Provide(engine.New),
)
