package ledger

import (
	"github.com/doodhly/doodhly/internal/ledger/repository"
	"github.com/doodhly/doodhly/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
