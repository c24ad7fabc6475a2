package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"nayaplay/config"
	"nayaplay/events"
	"nayaplay/games"
	"nayaplay/models"

	"github.com/google/uuid"
)

type settlementService struct {
	uowFactory UnitOfWorkFactory
	seeds      *games.SeedManager
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, seeds *games.SeedManager) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		seeds:      seeds,
	}
}

// PlaceBet runs the full settlement cycle for a single-shot game: debit the
// stake, resolve the outcome, credit any payout and record the wager, all
// inside one transaction. Nothing is persisted if any step fails.
func (s *settlementService) PlaceBet(ctx context.Context, accountID int64, game models.Game, stake int64, params json.RawMessage) (*models.SettlementResult, error) {
	cfg := config.Get()
	if stake < cfg.MinStake || stake > cfg.MaxStake {
		return nil, fmt.Errorf("%w: stake %d not in [%d, %d]", ErrStakeOutOfRange, stake, cfg.MinStake, cfg.MaxStake)
	}
	if game == models.GameMines {
		return nil, fmt.Errorf("%w: mines rounds settle through their own endpoints", ErrInvalidParams)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Lock the account row so concurrent settlements serialize per account
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

	nonce, err := uow.AccountRepository().IncrementBetNonce(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to advance bet nonce: %w", err)
	}

	serverSeed, seedHash := s.seeds.Current()
	outcome, multiplier, won, err := resolveGame(game, params, serverSeed, account.ClientSeed, nonce)
	if err != nil {
		return nil, err
	}
	outcome["seed_hash"] = seedHash
	outcome["client_seed"] = account.ClientSeed
	outcome["nonce"] = nonce

	var payout int64
	status := models.WagerStatusLost
	if won {
		payout = int64(math.Round(float64(stake) * multiplier))
		status = models.WagerStatusWon
	}

	newBalance := account.Balance - stake + payout
	if err := uow.AccountRepository().UpdateBalance(ctx, accountID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	if err := uow.AccountRepository().AddTotalWagered(ctx, accountID, stake); err != nil {
		return nil, fmt.Errorf("failed to update total wagered: %w", err)
	}

	transactionType := models.TransactionTypeWagerLoss
	if won {
		transactionType = models.TransactionTypeWagerWin
	}
	var paramsMap map[string]any
	if err := json.Unmarshal(params, &paramsMap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	history := &models.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    payout - stake,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"game":       string(game),
			"stake":      stake,
			"multiplier": multiplier,
			"won":        won,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, err
	}

	wager := &models.Wager{
		Ref:              uuid.New().String(),
		AccountID:        accountID,
		Game:             game,
		Stake:            stake,
		Params:           paramsMap,
		Outcome:          outcome,
		Multiplier:       multiplier,
		Payout:           payout,
		Status:           status,
		BalanceHistoryID: &history.ID,
	}
	if err := wager.Validate(); err != nil {
		return nil, fmt.Errorf("settled wager failed validation: %w", err)
	}
	if err := uow.WagerRepository().Create(ctx, wager); err != nil {
		return nil, fmt.Errorf("failed to create wager record: %w", err)
	}

	uow.EventBus().Publish(events.WagerSettledEvent{
		WagerRef:    wager.Ref,
		AccountID:   accountID,
		DisplayName: account.PublicName(),
		Ghost:       account.GhostMode,
		Game:        game,
		Stake:       stake,
		Multiplier:  multiplier,
		Payout:      payout,
		Won:         won,
		SettledAt:   time.Now().UTC(),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.SettlementResult{
		WagerRef:   wager.Ref,
		Game:       game,
		Won:        won,
		Stake:      stake,
		Multiplier: multiplier,
		Payout:     payout,
		Outcome:    outcome,
		NewBalance: newBalance,
	}, nil
}

// RecentWagers returns the most recently settled wagers across all accounts
func (s *settlementService) RecentWagers(ctx context.Context, limit int) ([]*models.Wager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wagers, err := uow.WagerRepository().GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent wagers: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return wagers, nil
}

// resolveGame parses game parameters, draws the outcome from the seed
// material and returns the outcome projection with the payout multiplier.
func resolveGame(game models.Game, params json.RawMessage, serverSeed, clientSeed string, nonce int64) (map[string]any, float64, bool, error) {
	switch game {
	case models.GameDice:
		var p games.DiceParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		if err := p.Validate(); err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		f := games.Floats(serverSeed, clientSeed, nonce, 1)[0]
		result := games.EvaluateDice(p, f)
		multiplier := 0.0
		if result.Won {
			multiplier = result.Multiplier
		}
		return map[string]any{"roll": result.Roll}, multiplier, result.Won, nil

	case models.GameKeno:
		var p games.KenoParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		if err := p.Validate(); err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		drawn := games.DrawKenoNumbers(serverSeed, clientSeed, nonce)
		result := games.EvaluateKeno(p, drawn)
		return map[string]any{"drawn": result.Drawn, "matches": result.Matches}, result.Multiplier, result.Won, nil

	case models.GameLimbo:
		var p games.LimboParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		if err := p.Validate(); err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		f := games.Floats(serverSeed, clientSeed, nonce, 1)[0]
		result := games.EvaluateLimbo(p, f)
		return map[string]any{"result": result.Result}, result.Multiplier, result.Won, nil

	case models.GameWheel:
		var p games.WheelParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		if err := p.Validate(); err != nil {
			return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		f := games.Floats(serverSeed, clientSeed, nonce, 1)[0]
		result := games.EvaluateWheel(p, f)
		return map[string]any{"segment": result.SegmentIndex, "value": result.Value}, result.Value, result.Won, nil

	default:
		return nil, 0, false, fmt.Errorf("%w: unknown game %q", ErrInvalidParams, game)
	}
}
