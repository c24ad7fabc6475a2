package testutil

import (
	"time"

	"nayaplay/models"

	"github.com/google/uuid"
)

// CreateTestAccount creates a test account with default values
func CreateTestAccount(displayName string) *models.Account {
	ref := uuid.New().String()
	return &models.Account{
		Ref:         ref,
		DisplayName: displayName,
		Role:        models.RolePlayer,
		Balance:     100000,
		ClientSeed:  ref,
	}
}

// CreateTestAccountWithBalance creates a test account with a specific balance
func CreateTestAccountWithBalance(displayName string, balance int64) *models.Account {
	account := CreateTestAccount(displayName)
	account.Balance = balance
	return account
}

// CreateTestAgent creates a verified agent account
func CreateTestAgent(displayName string, balance int64) *models.Account {
	account := CreateTestAccountWithBalance(displayName, balance)
	account.Role = models.RoleAgent
	account.Verified = true
	return account
}

// CreateTestBalanceHistory creates a test ledger entry for an account
func CreateTestBalanceHistory(accountID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   100000,
		BalanceAfter:    90000,
		ChangeAmount:    -10000,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestBalanceHistoryWithAmounts creates a test ledger entry with specific amounts
func CreateTestBalanceHistoryWithAmounts(accountID int64, before, after, change int64, transactionType models.TransactionType) *models.BalanceHistory {
	history := CreateTestBalanceHistory(accountID, transactionType)
	history.BalanceBefore = before
	history.BalanceAfter = after
	history.ChangeAmount = change
	return history
}

// CreateTestWager creates a settled test wager for an account
func CreateTestWager(accountID int64, game models.Game, status models.WagerStatus) *models.Wager {
	wager := &models.Wager{
		Ref:       uuid.New().String(),
		AccountID: accountID,
		Game:      game,
		Stake:     1000,
		Params: map[string]any{
			"target": 50.0,
		},
		Outcome: map[string]any{
			"roll": 25.37,
		},
		Status: status,
	}
	if status == models.WagerStatusWon {
		wager.Multiplier = 1.98
		wager.Payout = 1980
	}
	return wager
}

// CreateTestMinesRound creates an active mines round for an account
func CreateTestMinesRound(accountID int64, mineCells []int) *models.MinesRound {
	return &models.MinesRound{
		Ref:        uuid.New().String(),
		AccountID:  accountID,
		Stake:      1000,
		MineCount:  len(mineCells),
		ServerSeed: "2b6dfa2e6d70b02d4a2c21278b65ba6989051f037d119d87e8aeea62523cb981",
		SeedHash:   "4de1dd6ba2e075cbc55aa764eb14a0e9f66dd2f4a15fcf8a9a84b8876899ef73",
		ClientSeed: "client-seed",
		Nonce:      1,
		MineCells:  mineCells,
		Revealed:   []int{},
		State:      models.MinesRoundStateActive,
	}
}
