package settings

import (
	"github.com/smallbiznis/spotlight/internal/cache"
	settingsdomain "github.com/smallbiznis/spotlight/internal/settings/domain"
	"github.com/smallbiznis/spotlight/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(func() cache.Cache[string, settingsdomain.Snapshot] {
		return cache.NewTTLCache[string, settingsdomain.Snapshot]()
	}),
	fx.Provide(service.NewService),
)
