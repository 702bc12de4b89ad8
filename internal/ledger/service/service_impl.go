package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/doodhly/doodhly/internal/clock"
	"github.com/doodhly/doodhly/internal/ledger/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// UpsertMany merges a batch of customer-day quantities. Entries with a
// blank customer id are skipped and reported, not fatal; a negative
// quantity or zero date fails the whole batch before anything is
// written. Entries are applied in order inside one transaction, so the
// last occurrence of a repeated customer-day wins.
func (s *Service) UpsertMany(ctx context.Context, entries []domain.EntryUpsert) (domain.UpsertResult, error) {
	if len(entries) == 0 {
		return domain.UpsertResult{}, domain.ErrEmptyBatch
	}

	var result domain.UpsertResult
	valid := make([]domain.EntryUpsert, 0, len(entries))
	for _, entry := range entries {
		entry.CustomerID = strings.TrimSpace(entry.CustomerID)
		if entry.CustomerID == "" {
			result.Skipped++
			continue
		}
		if entry.EntryDate.IsZero() {
			return domain.UpsertResult{}, domain.ErrInvalidDate
		}
		if entry.MorningMilk != nil && entry.MorningMilk.IsNegative() {
			return domain.UpsertResult{}, domain.ErrInvalidQuantity
		}
		if entry.EveningMilk != nil && entry.EveningMilk.IsNegative() {
			return domain.UpsertResult{}, domain.ErrInvalidQuantity
		}
		if entry.MilkType != nil && !entry.MilkType.Valid() {
			return domain.UpsertResult{}, domain.ErrInvalidMilkType
		}
		if entry.PricePerLiter != nil && entry.PricePerLiter.IsNegative() {
			return domain.UpsertResult{}, domain.ErrInvalidPrice
		}
		entry.EntryDate = domain.Day(entry.EntryDate)
		valid = append(valid, entry)
	}

	if len(valid) == 0 {
		return result, nil
	}

	keys := make([]domain.DailyEntry, 0, len(valid))
	for _, entry := range valid {
		keys = append(keys, domain.DailyEntry{CustomerID: entry.CustomerID, EntryDate: entry.EntryDate})
	}
	existing, err := s.repo.ExistingKeys(ctx, s.db, keys)
	if err != nil {
		return domain.UpsertResult{}, err
	}

	now := s.clock.Now()
	counted := make(map[string]bool, len(valid))

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range valid {
			row := domain.DailyEntry{
				ID:         s.genID.Generate(),
				CustomerID: entry.CustomerID,
				EntryDate:  entry.EntryDate,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			fields := domain.EntryFields{
				Morning:  entry.MorningMilk != nil,
				Evening:  entry.EveningMilk != nil,
				MilkType: entry.MilkType != nil,
				Price:    entry.PricePerLiter != nil,
			}
			if fields.Morning {
				row.MorningMilk = *entry.MorningMilk
			} else {
				row.MorningMilk = decimal.Zero
			}
			if fields.Evening {
				row.EveningMilk = *entry.EveningMilk
			} else {
				row.EveningMilk = decimal.Zero
			}
			if fields.MilkType {
				row.MilkType = *entry.MilkType
			}
			if fields.Price {
				row.PricePerLiter = *entry.PricePerLiter
			} else {
				row.PricePerLiter = decimal.Zero
			}

			if err := s.repo.Upsert(ctx, tx, &row, fields); err != nil {
				return err
			}

			key := domain.EntryKey(entry.CustomerID, entry.EntryDate)
			if counted[key] {
				continue
			}
			counted[key] = true
			if existing[key] {
				result.Modified++
			} else {
				result.Upserted++
			}
		}
		return nil
	})
	if err != nil {
		return domain.UpsertResult{}, err
	}

	s.log.Info("milk entries upserted",
		zap.Int("upserted", result.Upserted),
		zap.Int("modified", result.Modified),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *Service) Query(ctx context.Context, customerID string, start, end time.Time) ([]domain.DailyEntry, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, domain.ErrInvalidRange
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	start = domain.Day(start)
	end = domain.Day(end)
	if !start.Before(end) {
		return nil, domain.ErrInvalidRange
	}

	items, err := s.repo.Find(ctx, s.db, customerID, start, end)
	if err != nil {
		return nil, err
	}
	return collect(items), nil
}

func (s *Service) QueryByDate(ctx context.Context, date time.Time) ([]domain.DailyEntry, error) {
	if date.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	items, err := s.repo.FindByDate(ctx, s.db, domain.Day(date))
	if err != nil {
		return nil, err
	}
	return collect(items), nil
}

func collect(items []*domain.DailyEntry) []domain.DailyEntry {
	entries := make([]domain.DailyEntry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, *item)
	}
	return entries
}
