package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/doodhly/doodhly/internal/clock"
	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	ledgerdomain "github.com/doodhly/doodhly/internal/ledger/domain"
	ledgerrepo "github.com/doodhly/doodhly/internal/ledger/repository"
	ledgerservice "github.com/doodhly/doodhly/internal/ledger/service"
	"github.com/doodhly/doodhly/internal/reporting/domain"
	"github.com/doodhly/doodhly/internal/reporting/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc    domain.Service
	ledger ledgerdomain.Service
	db     *gorm.DB
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&customerdomain.Customer{}, &ledgerdomain.DailyEntry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ledgerSvc := ledgerservice.New(ledgerservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)),
		Repo:  ledgerrepo.Provide(),
	})

	return fixture{
		svc: New(Params{
			DB:   db,
			Log:  zap.NewNop(),
			Repo: repository.Provide(),
		}),
		ledger: ledgerSvc,
		db:     db,
	}
}

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var seedNode, seedNodeErr = snowflake.NewNode(2)

func seedCustomer(t *testing.T, db *gorm.DB, customerID, price string, active bool) {
	t.Helper()
	node, err := seedNode, seedNodeErr
	require.NoError(t, err)
	require.NoError(t, db.Create(&customerdomain.Customer{
		ID:                 node.Generate(),
		CustomerID:         customerID,
		Name:               "Customer " + customerID,
		Address:            "Route 7",
		Phone:              "90000" + customerID[len(customerID)-5:],
		DeliverySequence:   1,
		MilkType:           customerdomain.MilkTypeCow,
		MilkTimePreference: customerdomain.MilkTimeBoth,
		PricePerLiter:      decimal.RequireFromString(price),
		IsActive:           active,
	}).Error)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailySummary_TotalsAcrossCustomers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedCustomer(t, f.db, "CUST-0001", "60", true)
	seedCustomer(t, f.db, "CUST-0002", "50", true)

	_, err := f.ledger.UpsertMany(ctx, []ledgerdomain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("2"), EveningMilk: qty("1"), PricePerLiter: qty("60")},
		{CustomerID: "CUST-0002", EntryDate: day(2024, 3, 1), MorningMilk: qty("1.5"), PricePerLiter: qty("50")},
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 2), MorningMilk: qty("2")},
	})
	require.NoError(t, err)

	summary, err := f.svc.DailySummary(ctx, day(2024, 3, 1))
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.DeliveredCustomers)
	assert.True(t, summary.MorningMilk.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, summary.EveningMilk.Equal(decimal.NewFromInt(1)))
	assert.True(t, summary.TotalMilk.Equal(decimal.RequireFromString("4.5")))
	// 3 * 60 + 1.5 * 50
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(255)))
}

func TestDailySummary_FallsBackToCustomerPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedCustomer(t, f.db, "CUST-0001", "60", true)

	// No price snapshot on the entry.
	_, err := f.ledger.UpsertMany(ctx, []ledgerdomain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("2")},
	})
	require.NoError(t, err)

	summary, err := f.svc.DailySummary(ctx, day(2024, 3, 1))
	require.NoError(t, err)
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(120)))
}

func TestDailySummary_EmptyDay(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.DailySummary(context.Background(), day(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.DeliveredCustomers)
	assert.True(t, summary.TotalMilk.IsZero())
	assert.True(t, summary.TotalAmount.IsZero())

	_, err = f.svc.DailySummary(context.Background(), time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestYTDSummary_AllTimeTotalsAndActiveCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedCustomer(t, f.db, "CUST-0001", "60", true)
	seedCustomer(t, f.db, "CUST-0002", "50", false)

	_, err := f.ledger.UpsertMany(ctx, []ledgerdomain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 1, 15), MorningMilk: qty("2"), PricePerLiter: qty("60")},
		{CustomerID: "CUST-0001", EntryDate: day(2024, 2, 15), MorningMilk: qty("2"), PricePerLiter: qty("60")},
		{CustomerID: "CUST-0002", EntryDate: day(2024, 2, 15), EveningMilk: qty("1"), PricePerLiter: qty("50")},
	})
	require.NoError(t, err)

	summary, err := f.svc.YTDSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.ActiveCustomers)
	assert.Equal(t, int64(2), summary.DistinctCustomers)
	assert.True(t, summary.TotalMilk.Equal(decimal.NewFromInt(5)))
	// 4 * 60 + 1 * 50
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(290)))
}
