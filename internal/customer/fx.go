package customer

import (
	"github.com/doodhly/doodhly/internal/customer/repository"
	"github.com/doodhly/doodhly/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
