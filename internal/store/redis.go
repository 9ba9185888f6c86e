package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"
	"github.com/redis/go-redis/v9"

	"github.com/TsigelnikovNikita/mySwap/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and invalidate the cache; reads
// check Redis first then fall back to the primary.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, invalidate cache) ---

func (s *CachedStore) CreatePool(ctx context.Context, p *model.Pool) error {
	if err := s.primary.CreatePool(ctx, p); err != nil {
		return err
	}
	s.cachePool(ctx, p)
	return nil
}

func (s *CachedStore) UpdatePoolState(ctx context.Context, id string, base, token, totalShares math.Int) error {
	if err := s.primary.UpdatePoolState(ctx, id, base, token, totalShares); err != nil {
		return err
	}
	// Invalidate cache; next read will re-populate.
	s.rdb.Del(ctx, poolKey(id))
	return nil
}

func (s *CachedStore) SetPositions(ctx context.Context, poolID string, positions []model.Position) error {
	if err := s.primary.SetPositions(ctx, poolID, positions); err != nil {
		return err
	}
	keys := []string{poolPositionsKey(poolID)}
	for _, pos := range positions {
		keys = append(keys, accountPositionsKey(pos.Provider))
	}
	s.rdb.Del(ctx, keys...)
	return nil
}

func (s *CachedStore) InsertLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error {
	return s.primary.InsertLedgerEntry(ctx, entry)
}

// --- Read-through (check cache first) ---

func (s *CachedStore) GetPool(ctx context.Context, id string) (*model.Pool, error) {
	// Try cache.
	data, err := s.rdb.Get(ctx, poolKey(id)).Bytes()
	if err == nil {
		var p model.Pool
		if json.Unmarshal(data, &p) == nil {
			return &p, nil
		}
	}

	// Cache miss: read from primary.
	p, err := s.primary.GetPool(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cachePool(ctx, p)
	return p, nil
}

func (s *CachedStore) GetPoolByToken(ctx context.Context, symbol string) (*model.Pool, error) {
	// The token -> pool ID mapping never changes once set.
	poolID, err := s.rdb.Get(ctx, tokenKey(symbol)).Result()
	if err == nil {
		return s.GetPool(ctx, poolID)
	}

	p, err := s.primary.GetPoolByToken(ctx, symbol)
	if err != nil {
		return nil, err
	}

	s.cachePool(ctx, p)
	s.rdb.Set(ctx, tokenKey(symbol), p.ID, s.ttl)
	return p, nil
}

func (s *CachedStore) GetPoolPositions(ctx context.Context, poolID string) ([]model.Position, error) {
	return s.cachedPositions(ctx, poolPositionsKey(poolID), func() ([]model.Position, error) {
		return s.primary.GetPoolPositions(ctx, poolID)
	})
}

func (s *CachedStore) GetAccountPositions(ctx context.Context, account string) ([]model.Position, error) {
	return s.cachedPositions(ctx, accountPositionsKey(account), func() ([]model.Position, error) {
		return s.primary.GetAccountPositions(ctx, account)
	})
}

// --- Passthrough (not cached) ---

func (s *CachedStore) ListPools(ctx context.Context) ([]model.Pool, error) {
	return s.primary.ListPools(ctx)
}

func (s *CachedStore) GetLedgerEntriesByPool(ctx context.Context, poolID string) ([]model.LedgerEntry, error) {
	return s.primary.GetLedgerEntriesByPool(ctx, poolID)
}

func (s *CachedStore) GetLedgerEntriesByAccount(ctx context.Context, account string) ([]model.LedgerEntry, error) {
	return s.primary.GetLedgerEntriesByAccount(ctx, account)
}

// --- Cache helpers ---

func (s *CachedStore) cachePool(ctx context.Context, p *model.Pool) {
	if data, err := json.Marshal(p); err == nil {
		s.rdb.Set(ctx, poolKey(p.ID), data, s.ttl)
	}
}

func (s *CachedStore) cachedPositions(ctx context.Context, key string, load func() ([]model.Position, error)) ([]model.Position, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var positions []model.Position
		if json.Unmarshal(data, &positions) == nil {
			return positions, nil
		}
	}

	positions, err := load()
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(positions); err == nil {
		s.rdb.Set(ctx, key, data, s.ttl)
	}
	return positions, nil
}

func poolKey(id string) string                  { return fmt.Sprintf("pool:%s", id) }
func tokenKey(symbol string) string             { return fmt.Sprintf("token:%s", symbol) }
func poolPositionsKey(id string) string         { return fmt.Sprintf("positions:pool:%s", id) }
func accountPositionsKey(account string) string { return fmt.Sprintf("positions:account:%s", account) }
