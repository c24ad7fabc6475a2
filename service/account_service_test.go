package service

import (
	"context"
	"testing"
	"time"

	"nayaplay/events"
	"nayaplay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	uow       *MockUnitOfWork
	factory   *MockUnitOfWorkFactory
	accounts  *MockAccountRepository
	history   *MockBalanceHistoryRepository
	wagers    *MockWagerRepository
	transfers *MockTransferRepository
	bus       *RecordingEventPublisher
	service   AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		uow:       new(MockUnitOfWork),
		factory:   new(MockUnitOfWorkFactory),
		accounts:  new(MockAccountRepository),
		history:   new(MockBalanceHistoryRepository),
		wagers:    new(MockWagerRepository),
		transfers: new(MockTransferRepository),
		bus:       &RecordingEventPublisher{},
	}
	f.uow.SetRepositories(f.accounts, f.history, f.wagers, new(MockMinesRoundRepository), f.transfers, new(MockWithdrawalRepository), new(MockDepositRepository))
	f.uow.SetEventBus(f.bus)
	f.service = NewAccountService(f.factory)
	return f
}

func TestAccountService_GetOrCreateAccount_Existing(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	existing := &models.Account{ID: 1, Ref: "ref-1", DisplayName: "player", Balance: 5000}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByRef", ctx, "ref-1").Return(existing, nil)

	account, err := f.service.GetOrCreateAccount(ctx, "ref-1", "player")
	require.NoError(t, err)
	assert.Same(t, existing, account)

	f.accounts.AssertNotCalled(t, "Create")
	f.history.AssertNotCalled(t, "Record")
}

func TestAccountService_GetOrCreateAccount_CreatesWithStartingBalance(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByRef", ctx, "ref-new").Return(nil, nil)
	f.accounts.On("Create", ctx, mock.MatchedBy(func(a *models.Account) bool {
		return a.Ref == "ref-new" &&
			a.DisplayName == "newcomer" &&
			a.Role == models.RolePlayer &&
			a.Balance == 100000 &&
			a.ClientSeed == "ref-new"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Account).ID = 7
	})
	f.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 7 &&
			h.BalanceBefore == 0 &&
			h.BalanceAfter == 100000 &&
			h.TransactionType == models.TransactionTypeInitial
	})).Return(nil)

	account, err := f.service.GetOrCreateAccount(ctx, "ref-new", "newcomer")
	require.NoError(t, err)
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, int64(100000), account.Balance)

	var createdSeen bool
	for _, ev := range f.bus.Events {
		if created, ok := ev.(events.AccountCreatedEvent); ok {
			createdSeen = true
			assert.Equal(t, "newcomer", created.DisplayName)
			assert.Equal(t, "ref-new", created.AccountRef)
			assert.Equal(t, int64(100000), created.InitialBalance)
		}
	}
	assert.True(t, createdSeen)

	f.accounts.AssertExpectations(t)
	f.history.AssertExpectations(t)
}

func TestAccountService_GetAccount_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByRef", ctx, "missing").Return(nil, nil)

	account, err := f.service.GetAccount(ctx, "missing")
	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountService_UpdatePreferences(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	account := &models.Account{ID: 1, GhostMode: false, ClientSeed: "old-seed"}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(account, nil)
	f.accounts.On("UpdatePreferences", ctx, account).Return(nil)

	ghost := true
	seed := "my-lucky-seed"
	updated, err := f.service.UpdatePreferences(ctx, 1, &ghost, &seed)
	require.NoError(t, err)
	assert.True(t, updated.GhostMode)
	assert.Equal(t, "my-lucky-seed", updated.ClientSeed)
}

func TestAccountService_Reconcile_Healthy(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	account := &models.Account{ID: 3, Balance: 5000}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(3)).Return(account, nil)
	f.history.On("SumChanges", ctx, int64(3)).Return(int64(5000), nil)

	result, err := f.service.Reconcile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Drift)
	assert.False(t, result.Corrected)
	f.history.AssertNotCalled(t, "Record")
}

func TestAccountService_Reconcile_RecordsCorrection(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	// Ledger sums to 4000 but the stored balance is 5000, the stored
	// balance wins and the ledger gets a +1000 correcting entry
	account := &models.Account{ID: 3, Balance: 5000}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(3)).Return(account, nil)
	f.history.On("SumChanges", ctx, int64(3)).Return(int64(4000), nil)
	f.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 3 &&
			h.BalanceBefore == 4000 &&
			h.BalanceAfter == 5000 &&
			h.ChangeAmount == 1000 &&
			h.TransactionType == models.TransactionTypeReconciliation
	})).Return(nil)

	result, err := f.service.Reconcile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), result.Drift)
	assert.True(t, result.Corrected)
	f.history.AssertExpectations(t)
}

func TestAccountService_GetWagers(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	wagers := []*models.Wager{
		{Ref: "wager-2", AccountID: 1, Game: models.GameKeno, Stake: 200, Status: models.WagerStatusLost},
		{Ref: "wager-1", AccountID: 1, Game: models.GameDice, Stake: 500, Status: models.WagerStatusWon, Payout: 990},
	}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.wagers.On("GetByAccount", ctx, int64(1), 20).Return(wagers, nil)

	got, err := f.service.GetWagers(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, wagers, got)
}

func TestAccountService_GetWager_OwnershipRequired(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.wagers.On("GetByRef", ctx, "wager-1").Return(&models.Wager{Ref: "wager-1", AccountID: 1}, nil)
	f.wagers.On("GetByRef", ctx, "missing").Return(nil, nil)

	got, err := f.service.GetWager(ctx, 1, "wager-1")
	require.NoError(t, err)
	assert.Equal(t, "wager-1", got.Ref)

	// Another account's wager reads as not found
	got, err = f.service.GetWager(ctx, 2, "wager-1")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrWagerNotFound)

	got, err = f.service.GetWager(ctx, 1, "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrWagerNotFound)
}

func TestAccountService_GetTransfers(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	transfers := []*models.AgentTransfer{
		{Ref: "t-1", FromAccountID: 2, ToAccountID: 1, Amount: 10000, Status: models.TransferStatusCompleted},
	}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.transfers.On("GetByAccount", ctx, int64(1), 50).Return(transfers, nil)

	got, err := f.service.GetTransfers(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, transfers, got)
}

func TestAccountService_GetBalanceHistoryRange(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	entries := []*models.BalanceHistory{
		{AccountID: 1, BalanceBefore: 1000, BalanceAfter: 2000, ChangeAmount: 1000},
	}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.history.On("GetByDateRange", ctx, int64(1), from, to).Return(entries, nil)

	got, err := f.service.GetBalanceHistoryRange(ctx, 1, from, to)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	// An inverted range never reaches the repository
	got, err = f.service.GetBalanceHistoryRange(ctx, 1, to, from)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestAccountService_UpdatePreferences_InvalidSeed(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	empty := ""
	updated, err := f.service.UpdatePreferences(ctx, 1, nil, &empty)
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrInvalidParams)
	f.factory.AssertNotCalled(t, "Create")
}
