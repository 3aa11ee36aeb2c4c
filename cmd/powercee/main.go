package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/clock"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/config"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/events"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/migration"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/observability/logger"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/quote"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/seed"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/server"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		fx.Provide(events.NewOutbox),
		clock.Module,
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.Seed.Demo {
				return seed.EnsureDemoData(conn)
			}
			return nil
		}),
		settings.Module,
		catalog.Module,
		folder.Module,
		valuation.Module,
		pricing.Module,
		quote.Module,
		server.Module,
	)
	app.Run()
}
