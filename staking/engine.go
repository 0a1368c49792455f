// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the position lifecycle and reward-accrual engine.
//
// The engine owns the legal transitions of a position (stake -> active ->
// claim*/unstake -> unstaked) and serializes concurrent mutations of one
// position with an optimistic-concurrency retry loop over the Store's version
// token. It computes amounts only; moving tokens is the caller's business.
package staking

import (
	"context"

	"github.com/pkg/errors"

	"github.com/iamai-dao/staking/log"
	"github.com/iamai-dao/staking/metrics"
	"github.com/iamai-dao/staking/staking/position"
	"github.com/iamai-dao/staking/staking/tier"
)

var logger = log.WithContext("pkg", "staking")

const (
	// EarlyExitPenaltyBps is charged on the principal when unstaking before
	// maturity, in basis points.
	EarlyExitPenaltyBps = 1000

	defaultMaxRetries = 5
)

// Engine drives position lifecycle transitions against a Store.
// It is safe for concurrent use.
type Engine struct {
	store      Store
	maxRetries int

	opsMeter       metrics.CountVecMeter
	conflictsMeter metrics.CountMeter
}

// New creates an engine on top of the given store.
func New(store Store) *Engine {
	return &Engine{
		store:          store,
		maxRetries:     defaultMaxRetries,
		opsMeter:       metrics.CounterVec("ops_count", []string{"op", "outcome"}),
		conflictsMeter: metrics.Counter("optimistic_retry_exhausted_count"),
	}
}

// SetMaxRetries overrides the optimistic-retry budget per transition.
func (e *Engine) SetMaxRetries(n int) {
	if n > 0 {
		e.maxRetries = n
	}
}

// ClaimResult reports the outcome of a claim.
type ClaimResult struct {
	AmountPaid uint64
	Position   *position.Position
}

// UnstakeResult reports the outcome of an unstake.
type UnstakeResult struct {
	AmountReturned uint64
	RewardsPaid    uint64
	Penalty        uint64
	Matured        bool
	Position       *position.Position
}

// Stake classifies the request against the tier table and creates a new
// active position starting at now. The tier and rate are frozen into the
// record. Fails with ErrInvalidTier if no tier matches.
func (e *Engine) Stake(ctx context.Context, owner string, principal uint64, lockSeconds uint32, now uint64) (*position.Position, error) {
	logger.Debug("staking", "owner", owner, "principal", principal, "lockSeconds", lockSeconds)

	if owner == "" {
		return nil, errors.WithMessage(ErrInvalidTier, "owner required")
	}
	t, err := tier.Classify(principal, lockSeconds)
	if err != nil {
		e.countOp("stake", err)
		logger.Info("stake rejected", "owner", owner, "principal", principal, "lockSeconds", lockSeconds, "error", err)
		return nil, err
	}

	p := &position.Position{
		ID:          position.NewID(owner, now),
		Owner:       owner,
		Principal:   principal,
		Tier:        t.Code,
		RateBps:     t.RateBps,
		LockSeconds: lockSeconds,
		StartTime:   now,
		EndTime:     now + uint64(lockSeconds),
		Status:      position.StatusActive,
		Version:     1,
	}

	if err := e.store.Save(ctx, p, 0); err != nil {
		e.countOp("stake", err)
		return nil, errors.WithMessage(err, "save position")
	}

	e.countOp("stake", nil)
	logger.Info("staked", "id", p.ID, "owner", owner, "tier", t.Name, "endTime", p.EndTime)
	return p, nil
}

// Claim pays out the rewards accrued since the last claim. It fails with
// ErrNothingToClaim when no unclaimed rewards exist and does not change the
// position's status. The returned amount is to be disbursed externally.
func (e *Engine) Claim(ctx context.Context, id position.ID, now uint64) (*ClaimResult, error) {
	logger.Debug("claiming", "id", id)

	var res ClaimResult
	err := e.transition(ctx, id, func(p *position.Position) error {
		if !p.IsActive() {
			return ErrPositionNotActive
		}
		total, err := earnedChecked(p, now)
		if err != nil {
			return err
		}
		payable := total - p.RewardsClaimed
		if payable == 0 {
			return ErrNothingToClaim
		}
		p.RewardsClaimed = total
		res = ClaimResult{AmountPaid: payable, Position: p}
		return nil
	})
	e.countOp("claim", err)
	if err != nil {
		if isUserError(err) {
			logger.Info("claim rejected", "id", id, "error", err)
		}
		return nil, err
	}

	logger.Info("claimed", "id", id, "amount", res.AmountPaid)
	return &res, nil
}

// Unstake ends a position. At or after maturity the full principal is
// returned and any unclaimed rewards are paid out atomically with the
// transition. Before maturity a penalty of EarlyExitPenaltyBps is withheld
// from the principal and unclaimed rewards are forfeited.
func (e *Engine) Unstake(ctx context.Context, id position.ID, now uint64) (*UnstakeResult, error) {
	logger.Debug("unstaking", "id", id)

	var res UnstakeResult
	err := e.transition(ctx, id, func(p *position.Position) error {
		if !p.IsActive() {
			return ErrPositionNotActive
		}
		total, err := earnedChecked(p, now)
		if err != nil {
			return err
		}

		if p.Matured(now) {
			res = UnstakeResult{
				AmountReturned: p.Principal,
				RewardsPaid:    total - p.RewardsClaimed,
				Matured:        true,
			}
			p.RewardsClaimed = total
		} else {
			penalty := p.Principal * EarlyExitPenaltyBps / 10_000
			if penalty > p.Principal {
				return errors.WithMessagef(ErrInvariant, "penalty %d exceeds principal %d", penalty, p.Principal)
			}
			res = UnstakeResult{
				AmountReturned: p.Principal - penalty,
				Penalty:        penalty,
			}
		}
		p.Status = position.StatusUnstaked
		res.Position = p
		return nil
	})
	e.countOp("unstake", err)
	if err != nil {
		if isUserError(err) {
			logger.Info("unstake rejected", "id", id, "error", err)
		}
		return nil, err
	}

	logger.Info("unstaked", "id", id,
		"returned", res.AmountReturned,
		"rewards", res.RewardsPaid,
		"penalty", res.Penalty,
		"matured", res.Matured,
	)
	return &res, nil
}

// GetPosition returns the current state of a position.
func (e *Engine) GetPosition(ctx context.Context, id position.ID) (*position.Position, error) {
	return e.store.Get(ctx, id)
}

// ListPositions returns all positions of an owner, terminal ones included.
func (e *Engine) ListPositions(ctx context.Context, owner string) ([]*position.Position, error) {
	return e.store.ListByOwner(ctx, owner)
}

// Aggregate returns the derived totals.
func (e *Engine) Aggregate(ctx context.Context) (*Totals, error) {
	return e.store.Aggregate(ctx)
}

// transition runs fn against a private copy of the position and commits the
// result guarded by the record's version. On a version conflict the whole
// read-compute-write cycle is retried; after maxRetries attempts it gives up
// with ErrConcurrentModification. Errors from fn abort without committing.
func (e *Engine) transition(ctx context.Context, id position.ID, fn func(*position.Position) error) error {
	for i := 0; i < e.maxRetries; i++ {
		current, err := e.store.Get(ctx, id)
		if err != nil {
			return err
		}

		next := current.Clone()
		if err := fn(next); err != nil {
			return err
		}
		next.Version = current.Version + 1

		err = e.store.Save(ctx, next, current.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
		logger.Debug("version conflict", "id", id, "attempt", i+1)
	}

	e.conflictsMeter.Add(1)
	logger.Warn("optimistic retries exhausted", "id", id, "attempts", e.maxRetries)
	return ErrConcurrentModification
}

// earnedChecked computes the accrual total and verifies the bookkeeping
// invariants that must hold before any transition commits.
func earnedChecked(p *position.Position, now uint64) (uint64, error) {
	if now < p.StartTime {
		return 0, errors.WithMessagef(ErrInvariant, "now %d precedes start %d", now, p.StartTime)
	}
	if p.EndTime < p.StartTime || p.EndTime-p.StartTime != uint64(p.LockSeconds) {
		return 0, errors.WithMessagef(ErrInvariant, "corrupt term: start %d end %d lock %d", p.StartTime, p.EndTime, p.LockSeconds)
	}
	total := p.Earned(now)
	if total < p.RewardsClaimed {
		return 0, errors.WithMessagef(ErrInvariant, "claimed %d exceeds earned %d", p.RewardsClaimed, total)
	}
	return total, nil
}

func isUserError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidTier),
		errors.Is(err, ErrPositionNotFound),
		errors.Is(err, ErrPositionNotActive),
		errors.Is(err, ErrNothingToClaim):
		return true
	default:
		return false
	}
}

func (e *Engine) countOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.opsMeter.AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
}
