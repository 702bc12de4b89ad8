package migration

import (
	billingdomain "github.com/doodhly/doodhly/internal/billing/domain"
	"github.com/doodhly/doodhly/internal/config"
	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	ledgerdomain "github.com/doodhly/doodhly/internal/ledger/domain"
	seqdomain "github.com/doodhly/doodhly/internal/sequence/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// The embedded SQL targets postgres; sqlite installs derive the
		// same schema from the models.
		return conn.AutoMigrate(
			&seqdomain.Counter{},
			&customerdomain.Customer{},
			&ledgerdomain.DailyEntry{},
			&billingdomain.Bill{},
		)
	}),
)
