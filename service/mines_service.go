package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"nayaplay/config"
	"nayaplay/events"
	"nayaplay/games"
	"nayaplay/models"

	"github.com/google/uuid"
)

type minesService struct {
	uowFactory UnitOfWorkFactory
	seeds      *games.SeedManager
}

// NewMinesService creates a new mines service
func NewMinesService(uowFactory UnitOfWorkFactory, seeds *games.SeedManager) MinesService {
	return &minesService{
		uowFactory: uowFactory,
		seeds:      seeds,
	}
}

// StartRound debits the stake up front and opens a round. The mine layout is
// drawn immediately from the committed seed material; reveals only disclose
// it cell by cell.
func (s *minesService) StartRound(ctx context.Context, accountID int64, stake int64, mineCount int) (*models.MinesRound, error) {
	cfg := config.Get()
	if stake < cfg.MinStake || stake > cfg.MaxStake {
		return nil, fmt.Errorf("%w: stake %d not in [%d, %d]", ErrStakeOutOfRange, stake, cfg.MinStake, cfg.MaxStake)
	}
	params := games.MinesParams{MineCount: mineCount}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if !account.CanAfford(stake) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, account.Balance, stake)
	}

	existing, err := uow.MinesRoundRepository().GetActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active round: %w", err)
	}
	if existing != nil {
		return nil, ErrActiveRoundExists
	}

	nonce, err := uow.AccountRepository().IncrementBetNonce(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to advance bet nonce: %w", err)
	}

	serverSeed, seedHash := s.seeds.Current()
	round := &models.MinesRound{
		Ref:        uuid.New().String(),
		AccountID:  accountID,
		Stake:      stake,
		MineCount:  mineCount,
		ServerSeed: serverSeed,
		SeedHash:   seedHash,
		ClientSeed: account.ClientSeed,
		Nonce:      nonce,
		MineCells:  games.DrawMineCells(serverSeed, account.ClientSeed, nonce, mineCount),
		Revealed:   []int{},
		State:      models.MinesRoundStateActive,
	}

	newBalance := account.Balance - stake
	if err := uow.AccountRepository().UpdateBalance(ctx, accountID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}
	if err := uow.AccountRepository().AddTotalWagered(ctx, accountID, stake); err != nil {
		return nil, fmt.Errorf("failed to update total wagered: %w", err)
	}

	if err := uow.MinesRoundRepository().Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	history := &models.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    -stake,
		TransactionType: models.TransactionTypeMinesStake,
		TransactionMetadata: map[string]any{
			"round_ref":  round.Ref,
			"mine_count": mineCount,
		},
		RelatedID:   &round.ID,
		RelatedType: relatedTypePtr(models.RelatedTypeMinesRound),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return round, nil
}

// Reveal uncovers one cell. Hitting a mine busts the round and settles it as
// a lost wager; the stake was already debited when the round opened.
func (s *minesService) Reveal(ctx context.Context, accountID int64, cell int) (*MinesRevealResult, error) {
	if cell < 0 || cell >= games.MinesGridSize {
		return nil, fmt.Errorf("%w: cell must be between 0 and 24", ErrInvalidParams)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	round, err := uow.MinesRoundRepository().GetActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active round: %w", err)
	}
	if round == nil {
		return nil, ErrNoActiveRound
	}
	if round.IsRevealed(cell) {
		return nil, ErrCellRevealed
	}
	if !round.CanReveal() {
		return nil, ErrRevealLimit
	}

	if round.IsMine(cell) {
		now := time.Now().UTC()
		round.State = models.MinesRoundStateBusted
		round.SettledAt = &now
		round.Revealed = append(round.Revealed, cell)
		if err := uow.MinesRoundRepository().Update(ctx, round); err != nil {
			return nil, fmt.Errorf("failed to settle busted round: %w", err)
		}

		settlement, err := s.recordSettledWager(ctx, uow, account, round, 0, false)
		if err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &MinesRevealResult{Round: round, Cell: cell, Mine: true, Settlement: settlement}, nil
	}

	round.Revealed = append(round.Revealed, cell)
	if err := uow.MinesRoundRepository().Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to record reveal: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &MinesRevealResult{
		Round:      round,
		Cell:       cell,
		Multiplier: games.MinesMultiplier(round.MineCount, len(round.Revealed)),
	}, nil
}

// Cashout settles the active round at the current running multiplier. At
// least one safe cell must be revealed first: a staked round cannot be
// cancelled, and a zero-reveal cashout would be exactly that.
func (s *minesService) Cashout(ctx context.Context, accountID int64) (*models.SettlementResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	round, err := uow.MinesRoundRepository().GetActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active round: %w", err)
	}
	if round == nil {
		return nil, ErrNoActiveRound
	}
	if len(round.Revealed) == 0 {
		return nil, ErrNothingRevealed
	}

	now := time.Now().UTC()
	round.State = models.MinesRoundStateCashedOut
	round.SettledAt = &now
	if err := uow.MinesRoundRepository().Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to settle round: %w", err)
	}

	multiplier := games.MinesMultiplier(round.MineCount, len(round.Revealed))
	payout := int64(math.Round(float64(round.Stake) * multiplier))

	newBalance := account.Balance + payout
	if err := uow.AccountRepository().UpdateBalance(ctx, accountID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to credit payout: %w", err)
	}

	history := &models.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    payout,
		TransactionType: models.TransactionTypeMinesCashout,
		TransactionMetadata: map[string]any{
			"round_ref":  round.Ref,
			"multiplier": multiplier,
			"revealed":   len(round.Revealed),
		},
		RelatedID:   &round.ID,
		RelatedType: relatedTypePtr(models.RelatedTypeMinesRound),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, err
	}

	settlement, err := s.recordSettledWager(ctx, uow, account, round, payout, true)
	if err != nil {
		return nil, err
	}
	settlement.NewBalance = newBalance

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settlement, nil
}

func (s *minesService) GetActiveRound(ctx context.Context, accountID int64) (*models.MinesRound, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.MinesRoundRepository().GetActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active round: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return round, nil
}

// recordSettledWager writes the wager row for a finished round and publishes
// the settlement event consumed by the live feed.
func (s *minesService) recordSettledWager(ctx context.Context, uow UnitOfWork, account *models.Account, round *models.MinesRound, payout int64, cashedOut bool) (*models.SettlementResult, error) {
	multiplier := 0.0
	status := models.WagerStatusLost
	if cashedOut {
		multiplier = games.MinesMultiplier(round.MineCount, len(round.Revealed))
		status = models.WagerStatusWon
	}

	outcome := map[string]any{
		"mine_cells":  round.MineCells,
		"revealed":    round.Revealed,
		"seed_hash":   round.SeedHash,
		"client_seed": round.ClientSeed,
		"nonce":       round.Nonce,
	}
	wager := &models.Wager{
		Ref:        uuid.New().String(),
		AccountID:  account.ID,
		Game:       models.GameMines,
		Stake:      round.Stake,
		Params:     map[string]any{"mine_count": round.MineCount},
		Outcome:    outcome,
		Multiplier: multiplier,
		Payout:     payout,
		Status:     status,
	}
	if err := wager.Validate(); err != nil {
		return nil, fmt.Errorf("settled wager failed validation: %w", err)
	}
	if err := uow.WagerRepository().Create(ctx, wager); err != nil {
		return nil, fmt.Errorf("failed to create wager record: %w", err)
	}

	uow.EventBus().Publish(events.WagerSettledEvent{
		WagerRef:    wager.Ref,
		AccountID:   account.ID,
		DisplayName: account.PublicName(),
		Ghost:       account.GhostMode,
		Game:        models.GameMines,
		Stake:       round.Stake,
		Multiplier:  multiplier,
		Payout:      payout,
		Won:         cashedOut,
		SettledAt:   time.Now().UTC(),
	})
	uow.EventBus().Publish(events.MinesRoundSettledEvent{
		RoundRef:  round.Ref,
		AccountID: account.ID,
		Stake:     round.Stake,
		Payout:    payout,
		CashedOut: cashedOut,
	})

	return &models.SettlementResult{
		WagerRef:   wager.Ref,
		Game:       models.GameMines,
		Won:        cashedOut,
		Stake:      round.Stake,
		Multiplier: multiplier,
		Payout:     payout,
		Outcome:    outcome,
		NewBalance: account.Balance,
	}, nil
}

func relatedTypePtr(t models.RelatedType) *models.RelatedType {
	return &t
}
