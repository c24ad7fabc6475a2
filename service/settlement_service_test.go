package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"nayaplay/events"
	"nayaplay/games"
	"nayaplay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	uow      *MockUnitOfWork
	factory  *MockUnitOfWorkFactory
	accounts *MockAccountRepository
	history  *MockBalanceHistoryRepository
	wagers   *MockWagerRepository
	bus      *RecordingEventPublisher
	seeds    *games.SeedManager
	service  SettlementService
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()

	f := &settlementFixture{
		uow:      new(MockUnitOfWork),
		factory:  new(MockUnitOfWorkFactory),
		accounts: new(MockAccountRepository),
		history:  new(MockBalanceHistoryRepository),
		wagers:   new(MockWagerRepository),
		bus:      &RecordingEventPublisher{},
	}
	f.uow.SetRepositories(f.accounts, f.history, f.wagers, new(MockMinesRoundRepository), new(MockTransferRepository), new(MockWithdrawalRepository), new(MockDepositRepository))
	f.uow.SetEventBus(f.bus)

	seeds, err := games.NewSeedManager()
	require.NoError(t, err)
	f.seeds = seeds
	f.service = NewSettlementService(f.factory, seeds)
	return f
}

func TestSettlementService_PlaceBet_Dice(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	account := &models.Account{
		ID:          1,
		Ref:         "ref-1",
		DisplayName: "player-one",
		Role:        models.RolePlayer,
		Balance:     100000,
		ClientSeed:  "client-seed",
	}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)

	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(account, nil)
	f.accounts.On("IncrementBetNonce", ctx, int64(1)).Return(int64(7), nil)
	f.accounts.On("UpdateBalance", ctx, int64(1), mock.AnythingOfType("int64")).Return(nil)
	f.accounts.On("AddTotalWagered", ctx, int64(1), int64(500)).Return(nil)
	f.history.On("Record", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.BalanceHistory).ID = 42
	})

	var created *models.Wager
	f.wagers.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.Wager)
	})

	result, err := f.service.PlaceBet(ctx, 1, models.GameDice, 500, json.RawMessage(`{"target":50,"direction":"over"}`))
	require.NoError(t, err)
	require.NotNil(t, result)

	// The outcome must match an independent replay of the seed material
	serverSeed, seedHash := f.seeds.Current()
	roll := games.EvaluateDice(games.DiceParams{Target: 50, Direction: games.DiceOver},
		games.Floats(serverSeed, "client-seed", 7, 1)[0])

	assert.Equal(t, roll.Won, result.Won)
	assert.Equal(t, roll.Roll, result.Outcome["roll"])
	assert.Equal(t, seedHash, result.Outcome["seed_hash"])
	assert.Equal(t, int64(7), result.Outcome["nonce"])

	var expectedPayout int64
	if roll.Won {
		expectedPayout = int64(math.Round(500 * 1.98))
		assert.Equal(t, int64(990), expectedPayout)
	}
	assert.Equal(t, expectedPayout, result.Payout)
	assert.Equal(t, int64(100000)-500+expectedPayout, result.NewBalance)

	require.NotNil(t, created)
	assert.Equal(t, models.GameDice, created.Game)
	assert.Equal(t, int64(500), created.Stake)
	require.NotNil(t, created.BalanceHistoryID)
	assert.Equal(t, int64(42), *created.BalanceHistoryID)
	assert.NoError(t, created.Validate())

	// One balance change and one settlement event were published
	var settledSeen, balanceSeen bool
	for _, ev := range f.bus.Events {
		switch e := ev.(type) {
		case events.WagerSettledEvent:
			settledSeen = true
			assert.Equal(t, "player-one", e.DisplayName)
			assert.Equal(t, created.Ref, e.WagerRef)
		case events.BalanceChangeEvent:
			balanceSeen = true
			assert.Equal(t, expectedPayout-500, e.ChangeAmount)
		}
	}
	assert.True(t, settledSeen)
	assert.True(t, balanceSeen)

	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.accounts.AssertExpectations(t)
	f.wagers.AssertExpectations(t)
}

func TestSettlementService_PlaceBet_GhostModeHidesName(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	account := &models.Account{
		ID:          1,
		DisplayName: "shy-player",
		Role:        models.RolePlayer,
		Balance:     100000,
		ClientSeed:  "client-seed",
		GhostMode:   true,
	}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(account, nil)
	f.accounts.On("IncrementBetNonce", ctx, int64(1)).Return(int64(1), nil)
	f.accounts.On("UpdateBalance", ctx, int64(1), mock.AnythingOfType("int64")).Return(nil)
	f.accounts.On("AddTotalWagered", ctx, int64(1), int64(100)).Return(nil)
	f.history.On("Record", ctx, mock.Anything).Return(nil)
	f.wagers.On("Create", ctx, mock.Anything).Return(nil)

	_, err := f.service.PlaceBet(ctx, 1, models.GameLimbo, 100, json.RawMessage(`{"target":2.0}`))
	require.NoError(t, err)

	for _, ev := range f.bus.Events {
		if settled, ok := ev.(events.WagerSettledEvent); ok {
			assert.Equal(t, "Hidden", settled.DisplayName)
			assert.True(t, settled.Ghost)
			return
		}
	}
	t.Fatal("no settlement event published")
}

func TestSettlementService_PlaceBet_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	account := &models.Account{ID: 1, Balance: 100, ClientSeed: "client-seed"}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(account, nil)

	result, err := f.service.PlaceBet(ctx, 1, models.GameDice, 500, json.RawMessage(`{"target":50,"direction":"over"}`))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	f.uow.AssertNotCalled(t, "Commit")
	f.wagers.AssertNotCalled(t, "Create")
	assert.Empty(t, f.bus.Events)
}

func TestSettlementService_PlaceBet_StakeOutOfRange(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	result, err := f.service.PlaceBet(ctx, 1, models.GameDice, 0, json.RawMessage(`{"target":50,"direction":"over"}`))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrStakeOutOfRange)

	result, err = f.service.PlaceBet(ctx, 1, models.GameDice, 1000001, json.RawMessage(`{"target":50,"direction":"over"}`))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrStakeOutOfRange)

	f.factory.AssertNotCalled(t, "Create")
}

func TestSettlementService_PlaceBet_InvalidParams(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	account := &models.Account{ID: 1, Balance: 100000, ClientSeed: "client-seed"}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(account, nil)
	f.accounts.On("IncrementBetNonce", ctx, int64(1)).Return(int64(1), nil)

	tests := []struct {
		name   string
		game   models.Game
		params string
	}{
		{name: "dice target too high", game: models.GameDice, params: `{"target":99,"direction":"over"}`},
		{name: "dice bad direction", game: models.GameDice, params: `{"target":50,"direction":"sideways"}`},
		{name: "limbo target too low", game: models.GameLimbo, params: `{"target":1.0}`},
		{name: "keno too few picks", game: models.GameKeno, params: `{"picks":[1,2,3],"risk":"low"}`},
		{name: "wheel unknown tier", game: models.GameWheel, params: `{"risk":"spicy"}`},
		{name: "malformed json", game: models.GameDice, params: `{"target":`},
		{name: "unknown game", game: models.Game("roulette"), params: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.PlaceBet(ctx, 1, tt.game, 500, json.RawMessage(tt.params))
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}

	f.uow.AssertNotCalled(t, "Commit")
	f.wagers.AssertNotCalled(t, "Create")
}

func TestSettlementService_PlaceBet_MinesRejected(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	result, err := f.service.PlaceBet(ctx, 1, models.GameMines, 500, json.RawMessage(`{"mine_count":3}`))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidParams)
	f.factory.AssertNotCalled(t, "Create")
}

func TestSettlementService_PlaceBet_RollbackOnWagerFailure(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	account := &models.Account{ID: 1, Balance: 100000, ClientSeed: "client-seed"}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(1)).Return(account, nil)
	f.accounts.On("IncrementBetNonce", ctx, int64(1)).Return(int64(1), nil)
	f.accounts.On("UpdateBalance", ctx, int64(1), mock.AnythingOfType("int64")).Return(nil)
	f.accounts.On("AddTotalWagered", ctx, int64(1), int64(500)).Return(nil)
	f.history.On("Record", ctx, mock.Anything).Return(nil)
	f.wagers.On("Create", ctx, mock.Anything).Return(errors.New("database error"))

	result, err := f.service.PlaceBet(ctx, 1, models.GameDice, 500, json.RawMessage(`{"target":50,"direction":"over"}`))
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create wager record")

	f.uow.AssertNotCalled(t, "Commit")
	f.uow.AssertCalled(t, "Rollback")
}

func TestSettlementService_PlaceBet_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.accounts.On("GetByIDForUpdate", ctx, int64(9)).Return(nil, nil)

	result, err := f.service.PlaceBet(ctx, 9, models.GameDice, 500, json.RawMessage(`{"target":50,"direction":"over"}`))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSettlementService_RecentWagers(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	wagers := []*models.Wager{
		{Ref: "wager-2", AccountID: 2, Game: models.GameWheel, Stake: 200, Status: models.WagerStatusWon, Payout: 400},
		{Ref: "wager-1", AccountID: 1, Game: models.GameDice, Stake: 500, Status: models.WagerStatusLost},
	}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.wagers.On("GetRecent", ctx, 10).Return(wagers, nil)

	got, err := f.service.RecentWagers(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, wagers, got)
}
