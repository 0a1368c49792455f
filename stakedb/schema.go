// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakedb

// Amount columns hold the smallest token unit. sqlite INTEGER is signed
// 64-bit; values are cast through int64 on the way in and out.
const positionTableSchema = `CREATE TABLE IF NOT EXISTS position (
	id BLOB PRIMARY KEY,
	owner TEXT NOT NULL,
	principal INTEGER NOT NULL,
	tier INTEGER NOT NULL,
	rateBps INTEGER NOT NULL,
	lockSeconds INTEGER NOT NULL,
	startTime INTEGER NOT NULL,
	endTime INTEGER NOT NULL,
	rewardsClaimed INTEGER NOT NULL,
	status INTEGER NOT NULL,
	version INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS position_i1 ON position(owner, startTime);
CREATE INDEX IF NOT EXISTS position_i2 ON position(status);`
