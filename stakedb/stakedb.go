// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakedb stores position records in sqlite.
package stakedb

import (
	"context"
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/iamai-dao/staking/staking"
	"github.com/iamai-dao/staking/staking/position"
)

// StakeDB is the durable Store implementation. The version column carries the
// optimistic-concurrency token: guarded updates match on it and report a
// conflict when zero rows change.
type StakeDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

var _ staking.Store = (*StakeDB)(nil)

// New creates or opens the staking db at the given path.
func New(path string) (stakeDB *StakeDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if stakeDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(positionTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &StakeDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem creates a staking db in ram.
func NewMem() (*StakeDB, error) {
	// a single shared page cache keeps all connections of the pool on one db
	return New("file::memory:?cache=shared")
}

// Close closes the db.
func (db *StakeDB) Close() {
	db.db.Close()
}

func (db *StakeDB) Path() string {
	return db.path
}

// Get loads a position by id.
func (db *StakeDB) Get(ctx context.Context, id position.ID) (*position.Position, error) {
	row := db.db.QueryRowContext(ctx,
		`SELECT id, owner, principal, tier, rateBps, lockSeconds, startTime, endTime, rewardsClaimed, status, version
		FROM position WHERE id = ?`, id.Bytes())
	p, err := scanPosition(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, staking.ErrPositionNotFound
		}
		return nil, err
	}
	return p, nil
}

// Save inserts the record when expectedVersion is 0, otherwise replaces it
// guarded by the stored version.
func (db *StakeDB) Save(ctx context.Context, p *position.Position, expectedVersion uint64) error {
	if expectedVersion == 0 {
		_, err := db.db.ExecContext(ctx,
			`INSERT INTO position(id, owner, principal, tier, rateBps, lockSeconds, startTime, endTime, rewardsClaimed, status, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID.Bytes(),
			p.Owner,
			int64(p.Principal),
			p.Tier,
			p.RateBps,
			p.LockSeconds,
			int64(p.StartTime),
			int64(p.EndTime),
			int64(p.RewardsClaimed),
			p.Status,
			int64(p.Version),
		)
		if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.Code == sqlite3.ErrConstraint {
			return staking.ErrVersionConflict
		}
		return err
	}

	res, err := db.db.ExecContext(ctx,
		`UPDATE position SET rewardsClaimed = ?, status = ?, version = ?
		WHERE id = ? AND version = ?`,
		int64(p.RewardsClaimed),
		p.Status,
		int64(p.Version),
		p.ID.Bytes(),
		int64(expectedVersion),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish a lost race from an unknown id
		var exists int
		if err := db.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM position WHERE id = ?", p.ID.Bytes()).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return staking.ErrPositionNotFound
		}
		return staking.ErrVersionConflict
	}
	return nil
}

// ListByOwner returns the owner's positions ordered by start time, then id.
func (db *StakeDB) ListByOwner(ctx context.Context, owner string) ([]*position.Position, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, owner, principal, tier, rateBps, lockSeconds, startTime, endTime, rewardsClaimed, status, version
		FROM position WHERE owner = ? ORDER BY startTime ASC, id ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*position.Position
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		p, err := scanPosition(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Aggregate derives totals by scanning positions.
func (db *StakeDB) Aggregate(ctx context.Context) (*staking.Totals, error) {
	var staked, distributed int64
	if err := db.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(principal), 0) FROM position WHERE status = ?",
		position.StatusActive).Scan(&staked); err != nil {
		return nil, err
	}
	if err := db.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(rewardsClaimed), 0) FROM position").Scan(&distributed); err != nil {
		return nil, err
	}
	return &staking.Totals{
		TotalStaked:             uint64(staked),
		TotalRewardsDistributed: uint64(distributed),
	}, nil
}

func scanPosition(scan func(...any) error) (*position.Position, error) {
	var (
		id             []byte
		owner          string
		principal      int64
		tierCode       uint8
		rateBps        uint32
		lockSeconds    uint32
		startTime      int64
		endTime        int64
		rewardsClaimed int64
		status         uint8
		version        int64
	)
	if err := scan(
		&id,
		&owner,
		&principal,
		&tierCode,
		&rateBps,
		&lockSeconds,
		&startTime,
		&endTime,
		&rewardsClaimed,
		&status,
		&version,
	); err != nil {
		return nil, err
	}
	return &position.Position{
		ID:             position.BytesToID(id),
		Owner:          owner,
		Principal:      uint64(principal),
		Tier:           tierCode,
		RateBps:        rateBps,
		LockSeconds:    lockSeconds,
		StartTime:      uint64(startTime),
		EndTime:        uint64(endTime),
		RewardsClaimed: uint64(rewardsClaimed),
		Status:         position.Status(status),
		Version:        uint64(version),
	}, nil
}
