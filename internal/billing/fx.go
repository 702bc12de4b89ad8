package billing

import (
	"github.com/doodhly/doodhly/internal/billing/repository"
	"github.com/doodhly/doodhly/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
