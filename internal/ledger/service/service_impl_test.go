package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/doodhly/doodhly/internal/clock"
	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/doodhly/doodhly/internal/ledger/domain"
	"github.com/doodhly/doodhly/internal/ledger/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.DailyEntry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertMany_InsertsThenMerges(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("1.5"), EveningMilk: qty("1")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertResult{Upserted: 1}, result)

	// Morning-only rewrite must not clobber the stored evening value.
	result, err = svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("2")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertResult{Modified: 1}, result)

	entries, err := svc.Query(ctx, "CUST-0001", day(2024, 3, 1), day(2024, 3, 2))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].MorningMilk.Equal(decimal.RequireFromString("2")))
	assert.True(t, entries[0].EveningMilk.Equal(decimal.RequireFromString("1")))
}

func TestUpsertMany_SkipsEntriesWithoutCustomer(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.UpsertMany(context.Background(), []domain.EntryUpsert{
		{CustomerID: "", EntryDate: day(2024, 3, 1), MorningMilk: qty("1")},
		{CustomerID: "   ", EntryDate: day(2024, 3, 1), MorningMilk: qty("1")},
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("1")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertResult{Upserted: 1, Skipped: 2}, result)
}

func TestUpsertMany_LastWriteWinsWithinBatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("1")},
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("3")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertResult{Upserted: 1}, result)

	entries, err := svc.Query(ctx, "CUST-0001", day(2024, 3, 1), day(2024, 3, 2))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].MorningMilk.Equal(decimal.RequireFromString("3")))
}

func TestUpsertMany_NormalizesDatesToUTCMidnight(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ist := time.FixedZone("IST", 5*3600+1800)
	morningRound := time.Date(2024, 3, 1, 6, 15, 0, 0, ist)
	eveningRound := time.Date(2024, 3, 1, 18, 45, 0, 0, ist)

	result, err := svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: morningRound, MorningMilk: qty("1")},
		{CustomerID: "CUST-0001", EntryDate: eveningRound, EveningMilk: qty("2")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Upserted+result.Modified)

	entries, err := svc.Query(ctx, "CUST-0001", day(2024, 3, 1), day(2024, 3, 2))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].MorningMilk.Equal(decimal.NewFromInt(1)))
	assert.True(t, entries[0].EveningMilk.Equal(decimal.NewFromInt(2)))
}

func TestUpsertMany_MergesPriceAndMilkTypeSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	milkType := customerdomain.MilkTypeBuffalo
	_, err := svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("2"), MilkType: &milkType, PricePerLiter: qty("62.50")},
	})
	require.NoError(t, err)

	// A quantity-only follow-up must keep the recorded snapshot.
	_, err = svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), EveningMilk: qty("1.5")},
	})
	require.NoError(t, err)

	entries, err := svc.Query(ctx, "CUST-0001", day(2024, 3, 1), day(2024, 3, 2))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, customerdomain.MilkTypeBuffalo, entries[0].MilkType)
	assert.True(t, entries[0].PricePerLiter.Equal(decimal.RequireFromString("62.50")))
	assert.True(t, entries[0].MorningMilk.Equal(decimal.NewFromInt(2)))
}

func TestUpsertMany_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertMany(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)

	_, err = svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", MorningMilk: qty("1")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MorningMilk: qty("-1")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	badType := customerdomain.MilkType("goat")
	_, err = svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), MilkType: &badType},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMilkType)

	_, err = svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), PricePerLiter: qty("-5")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestQuery_RangeIsStartInclusiveEndExclusive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, d := range []int{1, 2, 3} {
		_, err := svc.UpsertMany(ctx, []domain.EntryUpsert{
			{CustomerID: "CUST-0001", EntryDate: day(2024, 3, d), MorningMilk: qty("1")},
		})
		require.NoError(t, err)
	}

	entries, err := svc.Query(ctx, "CUST-0001", day(2024, 3, 1), day(2024, 3, 3))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].EntryDate.Equal(day(2024, 3, 1)))
	assert.True(t, entries[1].EntryDate.Equal(day(2024, 3, 2)))

	_, err = svc.Query(ctx, "CUST-0001", day(2024, 3, 3), day(2024, 3, 3))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestQueryByDate_ReturnsAllCustomersForTheDay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertMany(ctx, []domain.EntryUpsert{
		{CustomerID: "CUST-0002", EntryDate: day(2024, 3, 1), MorningMilk: qty("1")},
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 1), EveningMilk: qty("2")},
		{CustomerID: "CUST-0001", EntryDate: day(2024, 3, 2), MorningMilk: qty("1")},
	})
	require.NoError(t, err)

	entries, err := svc.QueryByDate(ctx, day(2024, 3, 1))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "CUST-0001", entries[0].CustomerID)
	assert.Equal(t, "CUST-0002", entries[1].CustomerID)
}
