package settings

import (
	"go.uber.org/fx"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/service"
)

var Module = fx.Module("settings.service",
	fx.Provide(service.NewService),
)
