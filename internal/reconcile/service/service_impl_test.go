package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/doodhly/doodhly/internal/billing/domain"
	billingrepo "github.com/doodhly/doodhly/internal/billing/repository"
	billingservice "github.com/doodhly/doodhly/internal/billing/service"
	"github.com/doodhly/doodhly/internal/clock"
	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	ledgerdomain "github.com/doodhly/doodhly/internal/ledger/domain"
	ledgerrepo "github.com/doodhly/doodhly/internal/ledger/repository"
	ledgerservice "github.com/doodhly/doodhly/internal/ledger/service"
	"github.com/doodhly/doodhly/internal/reconcile/domain"
	"github.com/doodhly/doodhly/internal/sequence"
	seqdomain "github.com/doodhly/doodhly/internal/sequence/domain"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc     domain.Service
	billing billingdomain.Service
	ledger  ledgerdomain.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&seqdomain.Counter{}, &ledgerdomain.DailyEntry{}, &billingdomain.Bill{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))
	billingSvc := billingservice.New(billingservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  billingrepo.Provide(),
		Seq:   sequence.Provide(),
	})
	ledgerSvc := ledgerservice.New(ledgerservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  ledgerrepo.Provide(),
	})

	return fixture{
		svc: New(Params{
			Log:     zap.NewNop(),
			Billing: billingSvc,
			Ledger:  ledgerSvc,
		}),
		billing: billingSvc,
		ledger:  ledgerSvc,
	}
}

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func seedBill(t *testing.T, f fixture, customerID, month string) billingdomain.Bill {
	t.Helper()
	bill, err := f.billing.Create(context.Background(), billingdomain.CreateBillRequest{
		CustomerID:   customerID,
		Month:        month,
		CustomerName: "Ramesh Patil",
		MilkType:     customerdomain.MilkTypeCow,
		RatePerLiter: decimal.RequireFromString("60"),
		TotalMilk:    decimal.RequireFromString("3"),
		TotalAmount:  decimal.RequireFromString("180"),
		MilkEntries: []billingdomain.BillEntry{
			{Day: 1, MorningMilk: decimal.NewFromInt(2), EveningMilk: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)
	return bill
}

func TestUpdate_FieldsOnlyLeavesLedgerAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := seedBill(t, f, "CUST-0001", "2024-03")

	total := decimal.RequireFromString("5")
	result, err := f.svc.Update(ctx, billingdomain.UpdateBillRequest{
		BillID:    bill.BillID,
		TotalMilk: &total,
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.Bill.TotalMilk.Equal(total))
	assert.Nil(t, result.Sync)

	entries, err := f.ledger.QueryByDate(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdate_WithSyncWritesLedgerDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := seedBill(t, f, "CUST-0001", "2024-03")

	total := decimal.RequireFromString("4.5")
	result, err := f.svc.Update(ctx, billingdomain.UpdateBillRequest{
		BillID:    bill.BillID,
		TotalMilk: &total,
	}, &domain.SyncPayload{
		CustomerID: "CUST-0001",
		Month:      "2024-03",
		Entries: []domain.DayQuantities{
			{Day: 1, MorningMilk: qty("2")},
			{Day: 15, MorningMilk: qty("1"), EveningMilk: qty("1.5")},
			{Day: 40, MorningMilk: qty("9")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Sync)
	assert.Empty(t, result.Sync.Error)
	assert.Equal(t, 2, result.Sync.Upserted)
	assert.Equal(t, 1, result.Sync.Skipped)

	entries, err := f.ledger.Query(ctx, "CUST-0001",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].EntryDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, entries[1].EntryDate.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, entries[1].EveningMilk.Equal(decimal.RequireFromString("1.5")))
}

func TestUpdate_SyncFailureKeepsBillEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := seedBill(t, f, "CUST-0001", "2024-03")

	total := decimal.RequireFromString("7")
	result, err := f.svc.Update(ctx, billingdomain.UpdateBillRequest{
		BillID:    bill.BillID,
		TotalMilk: &total,
	}, &domain.SyncPayload{
		CustomerID: "CUST-0001",
		Month:      "March",
		Entries:    []domain.DayQuantities{{Day: 1, MorningMilk: qty("1")}},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Sync)
	assert.NotEmpty(t, result.Sync.Error)

	// The bill edit stays committed even though the sync never ran.
	stored, err := f.billing.GetByBillID(ctx, bill.BillID)
	require.NoError(t, err)
	assert.True(t, stored.TotalMilk.Equal(total))
}

func TestUpdate_UnknownBill(t *testing.T) {
	f := newFixture(t)

	total := decimal.RequireFromString("7")
	_, err := f.svc.Update(context.Background(), billingdomain.UpdateBillRequest{
		BillID:    "BILL-9999",
		TotalMilk: &total,
	}, nil)
	assert.ErrorIs(t, err, billingdomain.ErrNotFound)
}

func TestSyncEntries_RewritesSnapshotAndLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedBill(t, f, "CUST-0001", "2024-03")

	result, err := f.svc.SyncEntries(ctx, domain.SyncPayload{
		CustomerID: "CUST-0001",
		Month:      "2024-03",
		Entries: []domain.DayQuantities{
			{Day: 1, MorningMilk: qty("2"), EveningMilk: qty("1")},
			{Day: 2, MorningMilk: qty("1.5")},
		},
	})
	require.NoError(t, err)

	// Totals recomputed from the payload at the stored rate of 60.
	assert.True(t, result.Bill.TotalMilk.Equal(decimal.RequireFromString("4.5")))
	assert.True(t, result.Bill.TotalAmount.Equal(decimal.RequireFromString("270")))
	require.Len(t, result.Bill.MilkEntries, 2)
	assert.True(t, result.Bill.MilkEntries[0].TotalMilk.Equal(decimal.NewFromInt(3)))

	require.NotNil(t, result.Sync)
	assert.Equal(t, 2, result.Sync.Upserted)

	entries, err := f.ledger.Query(ctx, "CUST-0001",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSyncEntries_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SyncEntries(ctx, domain.SyncPayload{CustomerID: "", Month: "2024-03"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = f.svc.SyncEntries(ctx, domain.SyncPayload{
		CustomerID: "CUST-0001",
		Month:      "bad",
		Entries:    []domain.DayQuantities{{Day: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = f.svc.SyncEntries(ctx, domain.SyncPayload{
		CustomerID: "CUST-0001",
		Month:      "2024-03",
		Entries:    []domain.DayQuantities{{Day: 1, MorningMilk: qty("1")}},
	})
	assert.ErrorIs(t, err, billingdomain.ErrNotFound)
}
