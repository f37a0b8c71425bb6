package repository

import (
	"context"
	"testing"
	"time"

	"zlpix/domain/entities"
	"zlpix/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawRepository_GetOrCreateByDate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	drawDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	uow := CreateTestUnitOfWork(testDB.DB, testPoolBase, &recordingPublisher{})
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	created, err := uow.DrawRepository().GetOrCreateByDate(ctx, drawDate)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.IsSettled())

	// Second call returns the same row
	again, err := uow.DrawRepository().GetOrCreateByDate(ctx, drawDate)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestDrawRepository_MarkSettledIsExactlyOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	drawDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	uow := CreateTestUnitOfWork(testDB.DB, testPoolBase, &recordingPublisher{})
	require.NoError(t, uow.Begin(ctx))

	draw, err := uow.DrawRepository().GetOrCreateByDate(ctx, drawDate)
	require.NoError(t, err)

	prize := int64(500)
	draw.Settle("71900-90310-03107-00000-11111", 1, &prize, time.Now().UTC())
	require.NoError(t, uow.DrawRepository().MarkSettled(ctx, draw))

	// A second settled transition must be rejected
	err = uow.DrawRepository().MarkSettled(ctx, draw)
	require.Error(t, err)

	require.NoError(t, uow.Commit())
}

func TestDrawRepository_GetPendingDates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	older := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	seedTickets(t, testDB, newer, []*entities.Ticket{{UserID: 100, Numbers: []string{"19", "00", "07"}}})
	seedTickets(t, testDB, older, []*entities.Ticket{{UserID: 200, Numbers: []string{"31", "10", "11"}}})
	seedTickets(t, testDB, future, []*entities.Ticket{{UserID: 300, Numbers: []string{"42", "43", "44"}}})

	uow := CreateTestUnitOfWork(testDB.DB, testPoolBase, &recordingPublisher{})
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	dates, err := uow.DrawRepository().GetPendingDates(ctx, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Due dates only, oldest first; the future draw is excluded
	require.Len(t, dates, 2)
	assert.True(t, older.Equal(dates[0]))
	assert.True(t, newer.Equal(dates[1]))
}

func TestPrizePoolRepository_LazyInitAndIncrement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	uow := CreateTestUnitOfWork(testDB.DB, testPoolBase, &recordingPublisher{})
	require.NoError(t, uow.Begin(ctx))

	// First read initializes the record to the base default
	amount, err := uow.PrizePoolRepository().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, testPoolBase, amount)

	require.NoError(t, uow.PrizePoolRepository().Increment(ctx, 2500))

	amount, err = uow.PrizePoolRepository().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, testPoolBase+2500, amount)

	require.NoError(t, uow.PrizePoolRepository().Set(ctx, 123456))
	amount, err = uow.PrizePoolRepository().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(123456), amount)

	require.NoError(t, uow.Commit())
}

func TestPrizePoolRepository_GetForUpdateLazyInit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	uow := CreateTestUnitOfWork(testDB.DB, testPoolBase, &recordingPublisher{})
	require.NoError(t, uow.Begin(ctx))

	// First locked read initializes the record to the base default
	amount, err := uow.PrizePoolRepository().GetForUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, testPoolBase, amount)

	require.NoError(t, uow.PrizePoolRepository().Set(ctx, 98765))
	amount, err = uow.PrizePoolRepository().GetForUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(98765), amount)

	require.NoError(t, uow.Commit())
}

func TestWalletRepository_CreditReturnsBalances(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	uow := CreateTestUnitOfWork(testDB.DB, testPoolBase, &recordingPublisher{})
	require.NoError(t, uow.Begin(ctx))

	wallet, err := uow.WalletRepository().GetOrCreate(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)

	before, after, err := uow.WalletRepository().Credit(ctx, 42, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), before)
	assert.Equal(t, int64(500), after)

	before, after, err = uow.WalletRepository().Credit(ctx, 42, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(500), before)
	assert.Equal(t, int64(750), after)

	require.NoError(t, uow.Commit())
}
