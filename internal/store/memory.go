package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cosmossdk.io/math"

	"github.com/TsigelnikovNikita/mySwap/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu        sync.RWMutex
	pools     map[string]*model.Pool
	positions map[string]map[string]model.Position // poolID -> provider -> position
	ledger    []model.LedgerEntry
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pools:     make(map[string]*model.Pool),
		positions: make(map[string]map[string]model.Position),
	}
}

func (s *MemoryStore) CreatePool(_ context.Context, p *model.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pools[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrPoolExists, p.ID)
	}
	for _, existing := range s.pools {
		if existing.TokenSymbol == p.TokenSymbol {
			return fmt.Errorf("%w: token %s", ErrPoolExists, p.TokenSymbol)
		}
	}

	// Store a copy to avoid external mutation.
	copy := *p
	s.pools[p.ID] = &copy
	return nil
}

func (s *MemoryStore) GetPool(_ context.Context, id string) (*model.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[id]
	if !ok {
		return nil, fmt.Errorf("pool %s: %w", id, ErrNotFound)
	}
	copy := *p
	return &copy, nil
}

func (s *MemoryStore) GetPoolByToken(_ context.Context, symbol string) (*model.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pools {
		if p.TokenSymbol == symbol {
			copy := *p
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("pool for token %s: %w", symbol, ErrNotFound)
}

func (s *MemoryStore) ListPools(_ context.Context) ([]model.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]model.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		pools = append(pools, *p)
	}
	sort.Slice(pools, func(i, j int) bool { return pools[i].CreatedAt.After(pools[j].CreatedAt) })
	return pools, nil
}

func (s *MemoryStore) UpdatePoolState(_ context.Context, id string, base, token, totalShares math.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pools[id]
	if !ok {
		return fmt.Errorf("pool %s: %w", id, ErrNotFound)
	}
	p.BaseReserve = base
	p.TokenReserve = token
	p.TotalShares = totalShares
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) SetPositions(_ context.Context, poolID string, positions []model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byProvider, ok := s.positions[poolID]
	if !ok {
		byProvider = make(map[string]model.Position)
		s.positions[poolID] = byProvider
	}
	for _, pos := range positions {
		if pos.Shares.IsNil() || pos.Shares.IsZero() {
			delete(byProvider, pos.Provider)
			continue
		}
		pos.PoolID = poolID
		byProvider[pos.Provider] = pos
	}
	return nil
}

func (s *MemoryStore) GetPoolPositions(_ context.Context, poolID string) ([]model.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Position
	for _, pos := range s.positions[poolID] {
		result = append(result, pos)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Provider < result[j].Provider })
	return result, nil
}

func (s *MemoryStore) GetAccountPositions(_ context.Context, account string) ([]model.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Position
	for _, byProvider := range s.positions {
		if pos, ok := byProvider[account]; ok {
			result = append(result, pos)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PoolID < result[j].PoolID })
	return result, nil
}

func (s *MemoryStore) InsertLedgerEntry(_ context.Context, entry *model.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger = append(s.ledger, *entry)
	return nil
}

func (s *MemoryStore) GetLedgerEntriesByPool(_ context.Context, poolID string) ([]model.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.LedgerEntry
	for _, e := range s.ledger {
		if e.PoolID == poolID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *MemoryStore) GetLedgerEntriesByAccount(_ context.Context, account string) ([]model.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.LedgerEntry
	for _, e := range s.ledger {
		if e.Account == account || e.Counterparty == account {
			result = append(result, e)
		}
	}
	return result, nil
}
