package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/spotlight/internal/auction"
	"github.com/smallbiznis/spotlight/internal/audit"
	"github.com/smallbiznis/spotlight/internal/clock"
	"github.com/smallbiznis/spotlight/internal/config"
	"github.com/smallbiznis/spotlight/internal/migration"
	"github.com/smallbiznis/spotlight/internal/observability"
	"github.com/smallbiznis/spotlight/internal/scheduler"
	"github.com/smallbiznis/spotlight/internal/seed"
	"github.com/smallbiznis/spotlight/internal/server"
	"github.com/smallbiznis/spotlight/internal/settings"
	"github.com/smallbiznis/spotlight/internal/wallet"
	"github.com/smallbiznis/spotlight/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
			if err := migration.RunMigrations(conn); err != nil {
				return err
			}
			if !cfg.IsProduction() {
				return seed.EnsureDefaultSettings(conn, node)
			}
			return nil
		}),

		settings.Module,
		wallet.Module,
		auction.Module,
		audit.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
