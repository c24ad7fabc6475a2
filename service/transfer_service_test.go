package service

import (
	"context"
	"testing"

	"nayaplay/events"
	"nayaplay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type transferFixture struct {
	uow       *MockUnitOfWork
	factory   *MockUnitOfWorkFactory
	accounts  *MockAccountRepository
	history   *MockBalanceHistoryRepository
	transfers *MockTransferRepository
	bus       *RecordingEventPublisher
	service   TransferService
}

func newTransferFixture() *transferFixture {
	f := &transferFixture{
		uow:       new(MockUnitOfWork),
		factory:   new(MockUnitOfWorkFactory),
		accounts:  new(MockAccountRepository),
		history:   new(MockBalanceHistoryRepository),
		transfers: new(MockTransferRepository),
		bus:       &RecordingEventPublisher{},
	}
	f.uow.SetRepositories(f.accounts, f.history, new(MockWagerRepository), new(MockMinesRoundRepository), f.transfers, new(MockWithdrawalRepository), new(MockDepositRepository))
	f.uow.SetEventBus(f.bus)
	f.service = NewTransferService(f.factory)
	return f
}

func TestTransferService_Transfer(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()

	sender := &models.Account{ID: 1, Ref: "agent-ref", DisplayName: "agent", Role: models.RoleAgent, Verified: true, Balance: 50000}
	recipient := &models.Account{ID: 2, Ref: "player-ref", DisplayName: "player", Role: models.RolePlayer, Balance: 1000}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(sender, nil)
	f.accounts.On("GetByRef", ctx, "player-ref").Return(recipient, nil)
	f.accounts.On("UpdateBalance", ctx, int64(1), int64(40000)).Return(nil)
	f.accounts.On("CreditBalance", ctx, int64(2), int64(10000)).Return(int64(11000), nil)
	f.transfers.On("Create", ctx, mock.MatchedBy(func(tr *models.AgentTransfer) bool {
		return tr.FromAccountID == 1 && tr.ToAccountID == 2 &&
			tr.Amount == 10000 &&
			tr.SenderBalanceBefore == 50000 && tr.SenderBalanceAfter == 40000
	})).Return(nil)
	f.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 1 && h.ChangeAmount == -10000 &&
			h.TransactionType == models.TransactionTypeTransferOut
	})).Return(nil)
	f.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 2 && h.ChangeAmount == 10000 &&
			h.BalanceBefore == 1000 && h.BalanceAfter == 11000 &&
			h.TransactionType == models.TransactionTypeTransferIn
	})).Return(nil)

	result, err := f.service.Transfer(ctx, 1, "player-ref", 10000)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(10000), result.Amount)
	assert.Equal(t, "player", result.RecipientName)
	assert.Equal(t, int64(40000), result.NewBalance)
	assert.NotEmpty(t, result.Ref)

	var completedSeen bool
	for _, ev := range f.bus.Events {
		if completed, ok := ev.(events.TransferCompletedEvent); ok {
			completedSeen = true
			assert.Equal(t, int64(10000), completed.Amount)
		}
	}
	assert.True(t, completedSeen)

	f.uow.AssertExpectations(t)
	f.accounts.AssertExpectations(t)
	f.transfers.AssertExpectations(t)
	f.history.AssertExpectations(t)
}

func TestTransferService_Transfer_RecipientCreditIsRelative(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()

	sender := &models.Account{ID: 1, Ref: "agent-ref", Role: models.RoleAgent, Verified: true, Balance: 50000}
	// Stale snapshot: the recipient row has moved to 9000 by the time the
	// credit lands. The write must add the amount, not restore the snapshot.
	recipient := &models.Account{ID: 2, Ref: "player-ref", DisplayName: "player", Balance: 1000}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(sender, nil)
	f.accounts.On("GetByRef", ctx, "player-ref").Return(recipient, nil)
	f.accounts.On("UpdateBalance", ctx, int64(1), int64(40000)).Return(nil)
	f.accounts.On("CreditBalance", ctx, int64(2), int64(10000)).Return(int64(19000), nil)
	f.transfers.On("Create", ctx, mock.Anything).Return(nil)
	f.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 1
	})).Return(nil)
	f.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 2 && h.BalanceBefore == 9000 && h.BalanceAfter == 19000
	})).Return(nil)

	result, err := f.service.Transfer(ctx, 1, "player-ref", 10000)
	require.NoError(t, err)
	require.NotNil(t, result)

	// The recipient row is never written with an absolute value
	f.accounts.AssertNotCalled(t, "UpdateBalance", ctx, int64(2), mock.Anything)
	f.accounts.AssertExpectations(t)
	f.history.AssertExpectations(t)
}

func TestTransferService_Transfer_RoleAndVerification(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		sender *models.Account
	}{
		{
			name:   "player role cannot send",
			sender: &models.Account{ID: 1, Role: models.RolePlayer, Verified: true, Balance: 50000},
		},
		{
			name:   "support role cannot send",
			sender: &models.Account{ID: 1, Role: models.RoleSupport, Verified: true, Balance: 50000},
		},
		{
			name:   "unverified agent cannot send",
			sender: &models.Account{ID: 1, Role: models.RoleAgent, Verified: false, Balance: 50000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransferFixture()
			f.factory.On("Create").Return(f.uow)
			f.uow.On("Begin", ctx).Return(nil)
			f.uow.On("Rollback").Return(nil)
			f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(tt.sender, nil)

			result, err := f.service.Transfer(ctx, 1, "player-ref", 10000)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrTransferNotAllowed)
			f.uow.AssertNotCalled(t, "Commit")
		})
	}
}

func TestTransferService_Transfer_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()

	sender := &models.Account{ID: 1, Role: models.RoleAgent, Verified: true, Balance: 500}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(sender, nil)

	result, err := f.service.Transfer(ctx, 1, "player-ref", 10000)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestTransferService_Transfer_SelfTransfer(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()

	sender := &models.Account{ID: 1, Ref: "agent-ref", Role: models.RoleAgent, Verified: true, Balance: 50000}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(sender, nil)
	f.accounts.On("GetByRef", ctx, "agent-ref").Return(sender, nil)

	result, err := f.service.Transfer(ctx, 1, "agent-ref", 10000)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrSelfTransfer)
}

func TestTransferService_Transfer_RecipientNotFound(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()

	sender := &models.Account{ID: 1, Role: models.RoleAgent, Verified: true, Balance: 50000}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(sender, nil)
	f.accounts.On("GetByRef", ctx, "missing-ref").Return(nil, nil)

	result, err := f.service.Transfer(ctx, 1, "missing-ref", 10000)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestTransferService_Transfer_InvalidAmount(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture()

	for _, amount := range []int64{0, -100} {
		result, err := f.service.Transfer(ctx, 1, "player-ref", amount)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrInvalidParams)
	}
	f.factory.AssertNotCalled(t, "Create")
}
