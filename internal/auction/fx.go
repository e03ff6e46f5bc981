package auction

import (
	"github.com/smallbiznis/spotlight/internal/auction/repository"
	"github.com/smallbiznis/spotlight/internal/auction/service"
	"github.com/smallbiznis/spotlight/internal/events"
	"go.uber.org/fx"
)

var Module = fx.Module("auction.service",
	fx.Provide(events.NewOutbox),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
