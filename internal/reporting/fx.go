package reporting

import (
	"github.com/doodhly/doodhly/internal/reporting/repository"
	"github.com/doodhly/doodhly/internal/reporting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reporting.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
