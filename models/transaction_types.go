package models

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the system
const (
	// Wager settlement transactions
	TransactionTypeWagerWin  TransactionType = "wager_win"
	TransactionTypeWagerLoss TransactionType = "wager_loss"

	// Mines round lifecycle (stake is taken at round start, settled at bust/cashout)
	TransactionTypeMinesStake   TransactionType = "mines_stake"
	TransactionTypeMinesCashout TransactionType = "mines_cashout"

	// Agent transfer transactions
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"

	// Wallet transactions
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeWithdrawal       TransactionType = "withdrawal"
	TransactionTypeWithdrawalRefund TransactionType = "withdrawal_refund"

	// System transactions
	TransactionTypeInitial        TransactionType = "initial"
	TransactionTypeReconciliation TransactionType = "reconciliation"
)

// IsWinType returns true if the transaction type represents a win payout
func (tt TransactionType) IsWinType() bool {
	return tt == TransactionTypeWagerWin || tt == TransactionTypeMinesCashout
}

// IsLossType returns true if the transaction type represents a lost stake
func (tt TransactionType) IsLossType() bool {
	return tt == TransactionTypeWagerLoss || tt == TransactionTypeMinesStake
}

// IsTransferType returns true if the transaction type represents a transfer
func (tt TransactionType) IsTransferType() bool {
	return tt == TransactionTypeTransferIn || tt == TransactionTypeTransferOut
}

// IsWagerRelated returns true if the transaction type comes from game settlement
func (tt TransactionType) IsWagerRelated() bool {
	return tt.IsWinType() || tt.IsLossType()
}

// IsSystemGenerated returns true if the transaction type is system-generated
func (tt TransactionType) IsSystemGenerated() bool {
	return tt == TransactionTypeInitial || tt == TransactionTypeReconciliation
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
