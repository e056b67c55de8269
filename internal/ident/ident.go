// Package ident generates identifiers for inventory rows, user accounts and
// backup objects.
package ident

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ItemIDLen is the length of a stock item identifier.
// The 6-digit numeric form is kept for compatibility with the data already
// in circulation; collisions are avoided by checking against taken IDs.
const ItemIDLen = 6

// maxItemIDAttempts bounds the collision-retry loop. With a 10^6 key space
// this only trips when a category is pathologically full.
const maxItemIDAttempts = 100

// ErrIDSpaceExhausted indicates no free item ID could be found.
var ErrIDSpaceExhausted = errors.New("item id space exhausted")

var itemIDMax = big.NewInt(1_000_000)

// ItemID returns a 6-digit numeric string that is not taken.
// The taken callback is consulted under the caller's write lock, so the
// returned ID is collision-free for single-writer stores.
func ItemID(taken func(string) bool) (string, error) {
	for i := 0; i < maxItemIDAttempts; i++ {
		n, err := rand.Int(rand.Reader, itemIDMax)
		if err != nil {
			return "", fmt.Errorf("generate item id: %w", err)
		}
		id := fmt.Sprintf("%06d", n)
		if taken == nil || !taken(id) {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

// UserID returns a new random user account identifier.
func UserID() string {
	return uuid.New().String()
}

// BackupKey returns a sortable object key for a timestamped backup copy.
func BackupKey(t time.Time) string {
	ms := ulid.Timestamp(t.UTC())
	id := ulid.MustNew(ms, ulid.DefaultEntropy())
	return strings.ToLower(id.String())
}
