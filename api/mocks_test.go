package api

import (
	"context"
	"encoding/json"
	"time"

	"nayaplay/gateway"
	"nayaplay/models"
	"nayaplay/service"

	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetOrCreateAccount(ctx context.Context, ref string, displayName string) (*models.Account, error) {
	args := m.Called(ctx, ref, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, ref string) (*models.Account, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) UpdatePreferences(ctx context.Context, accountID int64, ghostMode *bool, clientSeed *string) (*models.Account, error) {
	args := m.Called(ctx, accountID, ghostMode, clientSeed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) GetBalanceHistory(ctx context.Context, accountID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

func (m *MockAccountService) GetBalanceHistoryRange(ctx context.Context, accountID int64, from, to time.Time) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

func (m *MockAccountService) GetWagers(ctx context.Context, accountID int64, limit int) ([]*models.Wager, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

func (m *MockAccountService) GetWager(ctx context.Context, accountID int64, ref string) (*models.Wager, error) {
	args := m.Called(ctx, accountID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wager), args.Error(1)
}

func (m *MockAccountService) GetTransfers(ctx context.Context, accountID int64, limit int) ([]*models.AgentTransfer, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AgentTransfer), args.Error(1)
}

func (m *MockAccountService) GetWagerStats(ctx context.Context, accountID int64) (*models.WagerStats, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WagerStats), args.Error(1)
}

func (m *MockAccountService) Reconcile(ctx context.Context, accountID int64) (*models.ReconcileResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileResult), args.Error(1)
}

type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) PlaceBet(ctx context.Context, accountID int64, game models.Game, stake int64, params json.RawMessage) (*models.SettlementResult, error) {
	args := m.Called(ctx, accountID, game, stake, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettlementResult), args.Error(1)
}

func (m *MockSettlementService) RecentWagers(ctx context.Context, limit int) ([]*models.Wager, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

type MockMinesService struct {
	mock.Mock
}

func (m *MockMinesService) StartRound(ctx context.Context, accountID int64, stake int64, mineCount int) (*models.MinesRound, error) {
	args := m.Called(ctx, accountID, stake, mineCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MinesRound), args.Error(1)
}

func (m *MockMinesService) Reveal(ctx context.Context, accountID int64, cell int) (*service.MinesRevealResult, error) {
	args := m.Called(ctx, accountID, cell)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MinesRevealResult), args.Error(1)
}

func (m *MockMinesService) Cashout(ctx context.Context, accountID int64) (*models.SettlementResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettlementResult), args.Error(1)
}

func (m *MockMinesService) GetActiveRound(ctx context.Context, accountID int64) (*models.MinesRound, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MinesRound), args.Error(1)
}

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, fromAccountID int64, toRef string, amount int64) (*models.TransferResult, error) {
	args := m.Called(ctx, fromAccountID, toRef, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransferResult), args.Error(1)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) CreditDeposit(ctx context.Context, accountRef string, amount int64, reference string) (*models.Account, error) {
	args := m.Called(ctx, accountRef, amount, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockWalletService) RequestWithdrawal(ctx context.Context, accountID int64, amount int64, address string) (*models.Withdrawal, error) {
	args := m.Called(ctx, accountID, amount, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockWalletService) ReviewWithdrawal(ctx context.Context, withdrawalRef string, approve bool) (*models.Withdrawal, error) {
	args := m.Called(ctx, withdrawalRef, approve)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockWalletService) GetPendingWithdrawals(ctx context.Context) ([]*models.Withdrawal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Withdrawal), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateInvoice(ctx context.Context, accountRef string, amount int64) (*gateway.Invoice, error) {
	args := m.Called(ctx, accountRef, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Invoice), args.Error(1)
}

func (m *MockPaymentGateway) RequestPayout(ctx context.Context, payout gateway.PayoutRequest) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}
