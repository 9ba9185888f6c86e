package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"

	"github.com/TsigelnikovNikita/mySwap/internal/model"
)

func newPool(id, symbol string) *model.Pool {
	return &model.Pool{
		ID:             id,
		Address:        "0x" + id,
		TokenSymbol:    symbol,
		FeeNumerator:   1,
		FeeDenominator: 100,
		BaseReserve:    math.ZeroInt(),
		TokenReserve:   math.ZeroInt(),
		TotalShares:    math.ZeroInt(),
		CreatedAt:      time.Now().UTC(),
	}
}

func TestMemoryStore_PoolLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.CreatePool(ctx, newPool("p1", "TKN")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreatePool(ctx, newPool("p2", "TKN")); !errors.Is(err, ErrPoolExists) {
		t.Fatalf("expected ErrPoolExists for duplicate token, got %v", err)
	}

	if err := s.UpdatePoolState(ctx, "p1", math.NewInt(10), math.NewInt(20), math.NewInt(10)); err != nil {
		t.Fatalf("update: %v", err)
	}
	p, err := s.GetPoolByToken(ctx, "TKN")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if !p.TokenReserve.Equal(math.NewInt(20)) || p.UpdatedAt.IsZero() {
		t.Errorf("unexpected pool state: %+v", p)
	}

	if _, err := s.GetPool(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdatePoolState(ctx, "missing", math.ZeroInt(), math.ZeroInt(), math.ZeroInt()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.CreatePool(ctx, newPool("p1", "TKN"))

	p, _ := s.GetPool(ctx, "p1")
	p.TokenSymbol = "MUTATED"

	again, _ := s.GetPool(ctx, "p1")
	if again.TokenSymbol != "TKN" {
		t.Errorf("store leaked internal state: %s", again.TokenSymbol)
	}
}

func TestMemoryStore_PositionsDropZero(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.SetPositions(ctx, "p1", []model.Position{
		{Provider: "alice", Shares: math.NewInt(60)},
		{Provider: "bob", Shares: math.NewInt(40)},
	})
	_ = s.SetPositions(ctx, "p2", []model.Position{{Provider: "alice", Shares: math.NewInt(5)}})

	positions, _ := s.GetPoolPositions(ctx, "p1")
	if len(positions) != 2 || positions[0].Provider != "alice" || positions[0].PoolID != "p1" {
		t.Fatalf("unexpected positions: %+v", positions)
	}

	_ = s.SetPositions(ctx, "p1", []model.Position{{Provider: "alice", Shares: math.ZeroInt()}})
	positions, _ = s.GetPoolPositions(ctx, "p1")
	if len(positions) != 1 || positions[0].Provider != "bob" {
		t.Errorf("zero position not removed: %+v", positions)
	}

	mine, _ := s.GetAccountPositions(ctx, "alice")
	if len(mine) != 1 || mine[0].PoolID != "p2" {
		t.Errorf("unexpected account positions: %+v", mine)
	}
}

func TestMemoryStore_LedgerByAccountIncludesCounterparty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.InsertLedgerEntry(ctx, &model.LedgerEntry{ID: "1", PoolID: "p1", Account: "alice", Kind: model.KindAddLiquidity})
	_ = s.InsertLedgerEntry(ctx, &model.LedgerEntry{ID: "2", PoolID: "p1", Account: "alice", Counterparty: "bob", Kind: model.KindTransferShares})
	_ = s.InsertLedgerEntry(ctx, &model.LedgerEntry{ID: "3", PoolID: "p2", Account: "carol", Kind: model.KindSwapBaseForToken})

	byPool, _ := s.GetLedgerEntriesByPool(ctx, "p1")
	if len(byPool) != 2 {
		t.Errorf("expected 2 entries for p1, got %d", len(byPool))
	}
	bob, _ := s.GetLedgerEntriesByAccount(ctx, "bob")
	if len(bob) != 1 || bob[0].ID != "2" {
		t.Errorf("expected bob to see the share transfer, got %+v", bob)
	}
}
