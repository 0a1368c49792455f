// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// ID identifies a position. It is derived once at creation and never changes.
type ID [32]byte

// NewID derives an identifier from the owner, the stake instant and a random
// nonce, so two stakes by the same owner in the same second stay distinct.
func NewID(owner string, startTime uint64) ID {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], startTime)
	rand.Read(buf[8:])

	return ID(blake2b.Sum256(append([]byte(owner), buf[:]...)))
}

// ParseID decodes a 64-char hex string into an ID.
func ParseID(s string) (ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, errors.WithMessage(err, "id")
	}
	if len(b) != 32 {
		return ID{}, errors.New("id: want 32 bytes")
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw identifier bytes.
func (id ID) Bytes() []byte {
	return id[:]
}

// BytesToID converts raw bytes to an ID, truncating or left-padding to 32 bytes.
func BytesToID(b []byte) ID {
	var id ID
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(id[32-len(b):], b)
	return id
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
