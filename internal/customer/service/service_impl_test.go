package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/doodhly/doodhly/internal/clock"
	"github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/doodhly/doodhly/internal/customer/repository"
	"github.com/doodhly/doodhly/internal/sequence"
	seqdomain "github.com/doodhly/doodhly/internal/sequence/domain"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&seqdomain.Counter{}, &domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC))
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
		Seq:   sequence.Provide(),
	})
	return svc, db, fake
}

func validCreate() domain.CreateCustomerRequest {
	return domain.CreateCustomerRequest{
		Name:             "Ramesh Patil",
		Address:          "14 Shivaji Nagar",
		Phone:            "9876543210",
		DeliverySequence: 1,
		MilkType:         domain.MilkTypeBuffalo,
		PricePerLiter:    decimal.RequireFromString("62.50"),
	}
}

func TestCreate_MintsSequentialDisplayIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	assert.Equal(t, "CUST-0001", first.CustomerID)
	assert.True(t, first.IsActive)
	assert.Equal(t, domain.MilkTimeBoth, first.MilkTimePreference)
	assert.True(t, first.MorningMilk.IsZero())
	assert.True(t, first.EveningMilk.IsZero())

	second := validCreate()
	second.Phone = "9876543211"
	second.DeliverySequence = 2
	created, err := svc.Create(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "CUST-0002", created.CustomerID)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*domain.CreateCustomerRequest)
		wantErr error
	}{
		{"blank name", func(r *domain.CreateCustomerRequest) { r.Name = "   " }, domain.ErrInvalidName},
		{"blank address", func(r *domain.CreateCustomerRequest) { r.Address = "" }, domain.ErrInvalidAddress},
		{"short phone", func(r *domain.CreateCustomerRequest) { r.Phone = "98765" }, domain.ErrInvalidPhone},
		{"alpha phone", func(r *domain.CreateCustomerRequest) { r.Phone = "98765abcde" }, domain.ErrInvalidPhone},
		{"zero sequence", func(r *domain.CreateCustomerRequest) { r.DeliverySequence = 0 }, domain.ErrInvalidSequence},
		{"bad milk type", func(r *domain.CreateCustomerRequest) { r.MilkType = "goat" }, domain.ErrInvalidMilkType},
		{"bad milk time", func(r *domain.CreateCustomerRequest) { r.MilkTimePreference = "noon" }, domain.ErrInvalidMilkTime},
		{"negative price", func(r *domain.CreateCustomerRequest) { r.PricePerLiter = decimal.NewFromInt(-1) }, domain.ErrInvalidPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreate()
			tc.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreate_DuplicatePhone(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validCreate())
	assert.ErrorIs(t, err, domain.ErrPhoneExists)
}

func TestUpdate_PartialFieldsOnly(t *testing.T) {
	svc, _, fake := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	fake.Advance(48 * time.Hour)
	price := decimal.RequireFromString("65.00")
	morning := decimal.RequireFromString("1.5")
	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{
		CustomerID:    created.CustomerID,
		PricePerLiter: &price,
		MorningMilk:   &morning,
	})
	require.NoError(t, err)

	assert.True(t, updated.PricePerLiter.Equal(price))
	assert.True(t, updated.MorningMilk.Equal(morning))
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Phone, updated.Phone)
	assert.Equal(t, created.CustomerID, updated.CustomerID)
}

func TestUpdate_UnknownCustomer(t *testing.T) {
	svc, _, _ := newTestService(t)

	name := "Someone"
	_, err := svc.Update(context.Background(), domain.UpdateCustomerRequest{
		CustomerID: "CUST-9999",
		Name:       &name,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_NoFieldsReturnsCurrentRow(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	got, err := svc.Update(ctx, domain.UpdateCustomerRequest{CustomerID: created.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, created.CustomerID, got.CustomerID)
	assert.Equal(t, created.Name, got.Name)
}

func TestDelete_RemovesRow(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.CustomerID))

	_, err = svc.GetByCustomerID(ctx, created.CustomerID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.CustomerID), domain.ErrNotFound)
}

func TestList_ActiveOnlyFiltersAndOrdersByRoute(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i, phone := range []string{"9000000001", "9000000002", "9000000003"} {
		req := validCreate()
		req.Phone = phone
		req.DeliverySequence = 3 - i
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	inactive := false
	_, err := svc.Update(ctx, domain.UpdateCustomerRequest{CustomerID: "CUST-0002", IsActive: &inactive})
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].DeliverySequence)
	assert.Equal(t, 2, all[1].DeliverySequence)
	assert.Equal(t, 3, all[2].DeliverySequence)

	active, err := svc.List(ctx, domain.ListCustomerRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, c := range active {
		assert.True(t, c.IsActive)
	}
}

func TestReorder_SkipsMalformedAndCountsChangedRows(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i, phone := range []string{"9000000001", "9000000002"} {
		req := validCreate()
		req.Phone = phone
		req.DeliverySequence = i + 1
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	five, zero := 5, 0
	result, err := svc.Reorder(ctx, []domain.SequenceUpdate{
		{CustomerID: "CUST-0001", DeliverySequence: &five},
		{CustomerID: "CUST-0002", DeliverySequence: nil},
		{CustomerID: "", DeliverySequence: &five},
		{CustomerID: "CUST-0002", DeliverySequence: &zero},
		{CustomerID: "CUST-9999", DeliverySequence: &five},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Updated)
	assert.Equal(t, 3, result.Skipped)

	moved, err := svc.GetByCustomerID(ctx, "CUST-0001")
	require.NoError(t, err)
	assert.Equal(t, 5, moved.DeliverySequence)
}

func TestReorder_SameValueDoesNotCountAsUpdated(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	same := created.DeliverySequence
	result, err := svc.Reorder(ctx, []domain.SequenceUpdate{
		{CustomerID: created.CustomerID, DeliverySequence: &same},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Updated)
}
