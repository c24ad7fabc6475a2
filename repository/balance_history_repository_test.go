package repository

import (
	"context"
	"testing"

	"nayaplay/models"
	"nayaplay/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceHistoryRepository_SumChanges(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount("ledger-player")
	require.NoError(t, accounts.Create(ctx, account))

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		sum, err := repo.SumChanges(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})

	t.Run("sums signed changes", func(t *testing.T) {
		entries := []*models.BalanceHistory{
			testutil.CreateTestBalanceHistoryWithAmounts(account.ID, 0, 100000, 100000, models.TransactionTypeInitial),
			testutil.CreateTestBalanceHistoryWithAmounts(account.ID, 100000, 99000, -1000, models.TransactionTypeWagerLoss),
			testutil.CreateTestBalanceHistoryWithAmounts(account.ID, 99000, 100980, 1980, models.TransactionTypeWagerWin),
		}
		for _, e := range entries {
			require.NoError(t, repo.Record(ctx, e))
		}

		sum, err := repo.SumChanges(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100980), sum)
	})

	t.Run("only counts the given account", func(t *testing.T) {
		other := testutil.CreateTestAccount("other-player")
		require.NoError(t, accounts.Create(ctx, other))
		require.NoError(t, repo.Record(ctx,
			testutil.CreateTestBalanceHistoryWithAmounts(other.ID, 0, 500, 500, models.TransactionTypeDeposit)))

		sum, err := repo.SumChanges(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100980), sum)
	})
}
