// Package store defines the persistence interface for the exchange service.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing).
package store

import (
	"context"
	"errors"

	"cosmossdk.io/math"

	"github.com/TsigelnikovNikita/mySwap/internal/model"
)

var (
	// ErrNotFound is returned when a pool does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrPoolExists is returned when creating a second pool for a token.
	ErrPoolExists = errors.New("store: pool already exists")
)

// Store is the persistence interface. PostgreSQL is the source of truth;
// Redis provides a read-through cache layer.
type Store interface {
	// --- Pool operations ---

	// CreatePool persists a new pool. Only one pool may exist per token.
	CreatePool(ctx context.Context, pool *model.Pool) error

	// GetPool retrieves a pool by its ID.
	GetPool(ctx context.Context, id string) (*model.Pool, error)

	// GetPoolByToken retrieves the pool bound to a token symbol.
	GetPoolByToken(ctx context.Context, symbol string) (*model.Pool, error)

	// ListPools returns all pools.
	ListPools(ctx context.Context) ([]model.Pool, error)

	// UpdatePoolState records the committed reserves and share supply.
	UpdatePoolState(ctx context.Context, id string, baseReserve, tokenReserve, totalShares math.Int) error

	// --- Positions ---

	// SetPositions upserts provider share balances for a pool. Entries with
	// zero shares are deleted.
	SetPositions(ctx context.Context, poolID string, positions []model.Position) error

	// GetPoolPositions returns every provider position in a pool.
	GetPoolPositions(ctx context.Context, poolID string) ([]model.Position, error)

	// GetAccountPositions returns an account's positions across pools.
	GetAccountPositions(ctx context.Context, account string) ([]model.Position, error)

	// --- Immutable ledger ---

	// InsertLedgerEntry appends an immutable activity record.
	InsertLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error

	// GetLedgerEntriesByPool returns all activity for a pool, oldest first.
	GetLedgerEntriesByPool(ctx context.Context, poolID string) ([]model.LedgerEntry, error)

	// GetLedgerEntriesByAccount returns all activity of an account, oldest first.
	GetLedgerEntriesByAccount(ctx context.Context, account string) ([]model.LedgerEntry, error)
}
