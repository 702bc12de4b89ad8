package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/doodhly/doodhly/internal/clock"
	"github.com/doodhly/doodhly/internal/customer/domain"
	seqdomain "github.com/doodhly/doodhly/internal/sequence/domain"
	"github.com/doodhly/doodhly/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Seq   seqdomain.Allocator
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	seq   seqdomain.Allocator
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		seq:   p.Seq,
	}
}

// Create mints the display id and inserts the row in one transaction,
// so a failed insert never burns a visible CUST number out of order
// with the row it belongs to. Counter values themselves may still gap
// on rollback; only uniqueness is promised.
func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return domain.Customer{}, domain.ErrInvalidAddress
	}

	phone := strings.TrimSpace(req.Phone)
	if !phonePattern.MatchString(phone) {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	if req.DeliverySequence < 1 {
		return domain.Customer{}, domain.ErrInvalidSequence
	}

	if !req.MilkType.Valid() {
		return domain.Customer{}, domain.ErrInvalidMilkType
	}

	milkTime := req.MilkTimePreference
	if milkTime == "" {
		milkTime = domain.MilkTimeBoth
	}
	if !milkTime.Valid() {
		return domain.Customer{}, domain.ErrInvalidMilkTime
	}

	if req.PricePerLiter.IsNegative() {
		return domain.Customer{}, domain.ErrInvalidPrice
	}

	morning, err := defaultQuantity(req.MorningMilk)
	if err != nil {
		return domain.Customer{}, err
	}
	evening, err := defaultQuantity(req.EveningMilk)
	if err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:                 s.genID.Generate(),
		Name:               name,
		Address:            address,
		Phone:              phone,
		DeliverySequence:   req.DeliverySequence,
		MilkType:           req.MilkType,
		MilkTimePreference: milkTime,
		PricePerLiter:      req.PricePerLiter,
		MorningMilk:        morning,
		EveningMilk:        evening,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		seq, err := s.seq.Next(ctx, tx, seqdomain.CounterCustomer)
		if err != nil {
			return err
		}
		customer.CustomerID = seqdomain.FormatID(seqdomain.PrefixCustomer, seq)
		return s.repo.Insert(ctx, tx, &customer)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrPhoneExists
		}
		return domain.Customer{}, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", customer.CustomerID),
		zap.Int("delivery_sequence", customer.DeliverySequence),
	)
	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return domain.Customer{}, domain.ErrNotFound
	}

	fields := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if address == "" {
			return domain.Customer{}, domain.ErrInvalidAddress
		}
		fields["address"] = address
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if !phonePattern.MatchString(phone) {
			return domain.Customer{}, domain.ErrInvalidPhone
		}
		fields["phone"] = phone
	}
	if req.DeliverySequence != nil {
		if *req.DeliverySequence < 1 {
			return domain.Customer{}, domain.ErrInvalidSequence
		}
		fields["delivery_sequence"] = *req.DeliverySequence
	}
	if req.MilkType != nil {
		if !req.MilkType.Valid() {
			return domain.Customer{}, domain.ErrInvalidMilkType
		}
		fields["milk_type"] = *req.MilkType
	}
	if req.MilkTimePreference != nil {
		if !req.MilkTimePreference.Valid() {
			return domain.Customer{}, domain.ErrInvalidMilkTime
		}
		fields["milk_time_preference"] = *req.MilkTimePreference
	}
	if req.PricePerLiter != nil {
		if req.PricePerLiter.IsNegative() {
			return domain.Customer{}, domain.ErrInvalidPrice
		}
		fields["price_per_liter"] = *req.PricePerLiter
	}
	if req.MorningMilk != nil {
		if req.MorningMilk.IsNegative() {
			return domain.Customer{}, domain.ErrInvalidQuantity
		}
		fields["morning_milk"] = *req.MorningMilk
	}
	if req.EveningMilk != nil {
		if req.EveningMilk.IsNegative() {
			return domain.Customer{}, domain.ErrInvalidQuantity
		}
		fields["evening_milk"] = *req.EveningMilk
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.clock.Now()
		rows, err := s.repo.Update(ctx, s.db, customerID, fields)
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.Customer{}, domain.ErrPhoneExists
			}
			return domain.Customer{}, err
		}
		if rows == 0 {
			return domain.Customer{}, domain.ErrNotFound
		}
	}

	updated, err := s.repo.FindByCustomerID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, customerID string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return domain.ErrNotFound
	}

	rows, err := s.repo.Delete(ctx, s.db, customerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.log.Info("customer deleted", zap.String("customer_id", customerID))
	return nil
}

func (s *Service) GetByCustomerID(ctx context.Context, customerID string) (domain.Customer, error) {
	customer, err := s.repo.FindByCustomerID(ctx, s.db, strings.TrimSpace(customerID))
	if err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) ([]domain.Customer, error) {
	items, err := s.repo.List(ctx, s.db, req.ActiveOnly)
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}
	return customers, nil
}

// Reorder applies delivery-route positions one by one. Malformed items
// (blank id, missing or sub-1 sequence) are skipped, not fatal; a
// storage error aborts the batch. The returned count only covers rows
// whose stored sequence actually changed.
func (s *Service) Reorder(ctx context.Context, updates []domain.SequenceUpdate) (domain.ReorderResult, error) {
	var result domain.ReorderResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			customerID := strings.TrimSpace(update.CustomerID)
			if customerID == "" || update.DeliverySequence == nil || *update.DeliverySequence < 1 {
				result.Skipped++
				continue
			}

			rows, err := s.repo.UpdateSequence(ctx, tx, customerID, *update.DeliverySequence)
			if err != nil {
				return err
			}
			result.Updated += rows
		}
		return nil
	})
	if err != nil {
		return domain.ReorderResult{}, err
	}

	s.log.Info("delivery sequence reordered",
		zap.Int64("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func defaultQuantity(value *decimal.Decimal) (decimal.Decimal, error) {
	if value == nil {
		return decimal.Zero, nil
	}
	if value.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidQuantity
	}
	return *value, nil
}
