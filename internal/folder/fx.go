package folder

import (
	"go.uber.org/fx"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/service"
)

var Module = fx.Module("folder.service",
	fx.Provide(service.NewService),
)
