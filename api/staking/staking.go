// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking exposes the staking engine over REST.
package staking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/iamai-dao/staking/api/restutil"
	"github.com/iamai-dao/staking/governance"
	engine "github.com/iamai-dao/staking/staking"
	"github.com/iamai-dao/staking/staking/position"
	"github.com/iamai-dao/staking/staking/tier"
)

// Staking is the REST surface of the engine. The clock comes from the
// settlement collaborator wired in at construction; handlers never read
// time.Now directly.
type Staking struct {
	engine *engine.Engine
	now    func() uint64
}

func New(e *engine.Engine, now func() uint64) *Staking {
	return &Staking{
		engine: e,
		now:    now,
	}
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Owner == "" {
		return restutil.BadRequest(errors.New("owner: required"))
	}
	if body.Principal == 0 {
		return restutil.BadRequest(errors.New("principal: must be positive"))
	}

	p, err := s.engine.Stake(req.Context(), body.Owner, body.Principal, body.LockSeconds, s.now())
	if err != nil {
		return convertError(err)
	}

	t, _ := tier.ByCode(p.Tier)
	return restutil.WriteJSON(w, &StakeResponse{
		ID:      p.ID.String(),
		Tier:    t.Name,
		RateBps: p.RateBps,
		EndTime: p.EndTime,
	})
}

func (s *Staking) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}

	res, err := s.engine.Claim(req.Context(), id, s.now())
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, &ClaimResponse{AmountPaid: res.AmountPaid})
}

func (s *Staking) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}

	res, err := s.engine.Unstake(req.Context(), id, s.now())
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, &UnstakeResponse{
		AmountReturned: res.AmountReturned,
		RewardsPaid:    res.RewardsPaid,
		Penalty:        res.Penalty,
		Matured:        res.Matured,
	})
}

func (s *Staking) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}

	p, err := s.engine.GetPosition(req.Context(), id)
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, convertPosition(p))
}

func (s *Staking) handleListPositions(w http.ResponseWriter, req *http.Request) error {
	owner := mux.Vars(req)["owner"]

	list, err := s.engine.ListPositions(req.Context(), owner)
	if err != nil {
		return convertError(err)
	}
	out := make([]*Position, 0, len(list))
	for _, p := range list {
		out = append(out, convertPosition(p))
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staking) handleTotals(w http.ResponseWriter, req *http.Request) error {
	totals, err := s.engine.Aggregate(req.Context())
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, convertTotals(totals))
}

func (s *Staking) handleTiers(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, tier.All())
}

func (s *Staking) handleVotingPower(w http.ResponseWriter, req *http.Request) error {
	owner := mux.Vars(req)["owner"]

	var base uint64
	if raw := req.URL.Query().Get("base"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "base"))
		}
		base = parsed
	}

	power, err := governance.VotingPower(req.Context(), s.engine, owner, base)
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, &PowerResponse{
		Owner:       owner,
		BaseBalance: base,
		VotingPower: power,
	})
}

func parseID(req *http.Request) (position.ID, error) {
	id, err := position.ParseID(mux.Vars(req)["id"])
	if err != nil {
		return position.ID{}, restutil.BadRequest(err)
	}
	return id, nil
}

// convertError maps the engine's error taxonomy onto http statuses. Anything
// unrecognized (storage failures, invariant violations) stays a 500.
func convertError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidTier),
		errors.Is(err, engine.ErrNothingToClaim):
		return restutil.BadRequest(err)
	case errors.Is(err, engine.ErrPositionNotFound):
		return restutil.NotFound(err)
	case errors.Is(err, engine.ErrPositionNotActive):
		return restutil.Conflict(err)
	case errors.Is(err, engine.ErrConcurrentModification):
		return restutil.HTTPError(err, http.StatusServiceUnavailable)
	default:
		return err
	}
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/positions").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleStake))
	sub.Path("/positions/{id}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPosition))
	sub.Path("/positions/{id}/claim").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleClaim))
	sub.Path("/positions/{id}/unstake").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/accounts/{owner}/positions").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleListPositions))
	sub.Path("/accounts/{owner}/power").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleVotingPower))
	sub.Path("/totals").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleTotals))
	sub.Path("/tiers").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleTiers))
}
