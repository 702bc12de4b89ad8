package service

import (
	"context"
	"time"

	ledgerdomain "github.com/doodhly/doodhly/internal/ledger/domain"
	"github.com/doodhly/doodhly/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("reporting.service"),
		repo: p.Repo,
	}
}

func (s *Service) DailySummary(ctx context.Context, date time.Time) (domain.DailySummary, error) {
	if date.IsZero() {
		return domain.DailySummary{}, domain.ErrInvalidDate
	}
	return s.repo.AggregateDay(ctx, s.db, ledgerdomain.Day(date))
}

func (s *Service) YTDSummary(ctx context.Context) (domain.YTDSummary, error) {
	summary, err := s.repo.AggregateAllTime(ctx, s.db)
	if err != nil {
		return domain.YTDSummary{}, err
	}

	active, err := s.repo.CountActiveCustomers(ctx, s.db)
	if err != nil {
		return domain.YTDSummary{}, err
	}
	summary.ActiveCustomers = active
	return summary, nil
}
