// Package trade provides the HTTP handlers and business logic for creating
// pools, providing liquidity, swapping, and querying accounts.
//
// Amounts cross the API as decimal strings in ether units (18 decimals for
// the base asset and for every token) and are converted to integer base
// units before they reach a pool. Never float64 for money.
package trade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
	"github.com/TsigelnikovNikita/mySwap/internal/custody"
	"github.com/TsigelnikovNikita/mySwap/internal/exchange"
	"github.com/TsigelnikovNikita/mySwap/internal/metrics"
	"github.com/TsigelnikovNikita/mySwap/internal/model"
	"github.com/TsigelnikovNikita/mySwap/internal/reserve"
	"github.com/TsigelnikovNikita/mySwap/internal/store"
	"github.com/TsigelnikovNikita/mySwap/internal/units"
)

var (
	errPoolNotFound = errors.New("pool not found")
	errPersist      = errors.New("failed to record operation")
)

// poolEntry binds a live pool to its id.
type poolEntry struct {
	id   string
	pool *exchange.Pool
}

// Service owns the live pools and the custody bank. Pool mutations and
// their persistence are serialized through mu (single-instance), so the
// store always sees committed states in execution order.
type Service struct {
	store      store.Store
	bank       *custody.Bank
	group      *exchange.Group
	defaultFee cpmm.Fee
	wsHub      *WSHub // optional WebSocket hub for real-time broadcasts

	mu sync.Mutex

	poolsMu sync.RWMutex
	pools   map[string]*poolEntry
}

// NewService creates a new trade service. fee applies to pools created
// without an explicit fee. Pass nil for hub if WebSocket broadcasting is
// not needed.
func NewService(st store.Store, bank *custody.Bank, fee cpmm.Fee, hub *WSHub) *Service {
	return &Service{
		store:      st,
		bank:       bank,
		group:      exchange.NewGroup(bank.Journal()),
		defaultFee: fee,
		wsHub:      hub,
		pools:      make(map[string]*poolEntry),
	}
}

// Routes registers the service's handlers on r.
func (s *Service) Routes(r chi.Router) {
	r.Get("/pools", s.ListPools)
	r.Post("/pools", s.CreatePool)
	r.Get("/pools/{poolID}", s.GetPool)
	r.Get("/pools/{poolID}/reserves", s.GetReserves)
	r.Get("/pools/{poolID}/quote", s.GetQuote)
	r.Get("/pools/{poolID}/history", s.GetPoolHistory)
	r.Post("/pools/{poolID}/liquidity", s.AddLiquidity)
	r.Post("/pools/{poolID}/liquidity/remove", s.RemoveLiquidity)
	r.Post("/pools/{poolID}/swap", s.Swap)
	r.Post("/pools/{poolID}/shares/transfer", s.TransferShares)

	r.Get("/accounts/{account}", s.GetAccount)
	r.Get("/accounts/{account}/history", s.GetAccountHistory)
	r.Post("/accounts/{account}/fund", s.FundAccount)

	r.Post("/tokens/{symbol}/mint", s.MintToken)
	r.Post("/tokens/{symbol}/approve", s.ApproveToken)
}

// Restore rebuilds every persisted pool and re-credits its custody account
// with the persisted reserves. Call once at startup, before serving.
func (s *Service) Restore(ctx context.Context) error {
	pools, err := s.store.ListPools(ctx)
	if err != nil {
		return fmt.Errorf("list pools: %w", err)
	}
	for i := range pools {
		if err := s.restorePool(ctx, &pools[i]); err != nil {
			return fmt.Errorf("restore pool %s: %w", pools[i].ID, err)
		}
	}
	slog.Info("pools restored", "count", len(pools))
	return nil
}

func (s *Service) restorePool(ctx context.Context, mp *model.Pool) error {
	fee, err := cpmm.NewFee(mp.FeeNumerator, mp.FeeDenominator)
	if err != nil {
		return err
	}
	tok, err := s.tokenFor(mp.TokenSymbol)
	if err != nil {
		return err
	}
	addr := common.HexToAddress(mp.Address)
	pool, err := exchange.New(exchange.Config{
		Address:     addr,
		Owner:       common.HexToAddress(mp.Owner),
		TokenSymbol: mp.TokenSymbol,
		Token:       tok,
		Native:      s.bank.Native(),
		Fee:         fee,
		Group:       s.group,
	})
	if err != nil {
		return err
	}

	positions, err := s.store.GetPoolPositions(ctx, mp.ID)
	if err != nil {
		return fmt.Errorf("load positions: %w", err)
	}
	st := reserve.State{
		BaseReserve:  mp.BaseReserve,
		TokenReserve: mp.TokenReserve,
		TotalShares:  mp.TotalShares,
		Shares:       make(map[common.Address]math.Int, len(positions)),
	}
	for _, pos := range positions {
		st.Shares[common.HexToAddress(pos.Provider)] = pos.Shares
	}
	if err := pool.Restore(st); err != nil {
		return err
	}

	err = s.bank.Atomic(func() error {
		if err := s.bank.Native().Credit(addr, mp.BaseReserve); err != nil {
			return err
		}
		return tok.Mint(addr, mp.TokenReserve)
	})
	if err != nil {
		return fmt.Errorf("restore custody: %w", err)
	}

	s.addPool(&poolEntry{id: mp.ID, pool: pool})
	return nil
}

// --- Pool registry ---

func (s *Service) addPool(e *poolEntry) {
	s.poolsMu.Lock()
	s.pools[e.id] = e
	n := len(s.pools)
	s.poolsMu.Unlock()
	metrics.ActivePools.Set(float64(n))
}

func (s *Service) lookupPool(id string) (*poolEntry, error) {
	s.poolsMu.RLock()
	defer s.poolsMu.RUnlock()
	e, ok := s.pools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errPoolNotFound, id)
	}
	return e, nil
}

// tokenFor returns the ledger for symbol, registering it on first use.
func (s *Service) tokenFor(symbol string) (*custody.Token, error) {
	tok, err := s.bank.Token(symbol)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, custody.ErrUnknownToken) {
		return nil, err
	}
	tok, err = s.bank.RegisterToken(symbol, units.EtherDecimals)
	if errors.Is(err, custody.ErrTokenExists) {
		return s.bank.Token(symbol)
	}
	return tok, err
}

// --- Execution ---

// outcome is what a pool operation hands back for persistence.
type outcome struct {
	entry     *model.LedgerEntry
	providers []common.Address // positions to write back
}

// execute runs op inside one custody transaction, so value attached by the
// caller is returned if the pool rejects the operation, then persists the
// committed pool state, the affected positions and a ledger entry.
func (s *Service) execute(ctx context.Context, e *poolEntry, op func() (outcome, error)) (*model.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out outcome
	err := s.bank.Atomic(func() error {
		var err error
		out, err = op()
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, e, out); err != nil {
		slog.Error("persist pool operation", "pool", e.id, "kind", out.entry.Kind, "err", err)
		return nil, fmt.Errorf("%w: %v", errPersist, err)
	}
	return out.entry, nil
}

func (s *Service) persist(ctx context.Context, e *poolEntry, out outcome) error {
	base, token := e.pool.GetReserves()
	if err := s.store.UpdatePoolState(ctx, e.id, base, token, e.pool.TotalShares()); err != nil {
		return fmt.Errorf("update pool state: %w", err)
	}

	now := time.Now().UTC()
	if len(out.providers) > 0 {
		positions := make([]model.Position, 0, len(out.providers))
		for _, p := range out.providers {
			positions = append(positions, model.Position{
				PoolID:    e.id,
				Provider:  p.Hex(),
				Shares:    e.pool.SharesOf(p),
				UpdatedAt: now,
			})
		}
		if err := s.store.SetPositions(ctx, e.id, positions); err != nil {
			return fmt.Errorf("set positions: %w", err)
		}
	}

	entry := out.entry
	entry.ID = uuid.New().String()
	entry.PoolID = e.id
	entry.BaseReserve = base
	entry.TokenReserve = token
	entry.Timestamp = now
	if err := s.store.InsertLedgerEntry(ctx, entry); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// newEntry returns a ledger entry with every amount zeroed.
func newEntry(kind string, account common.Address) *model.LedgerEntry {
	return &model.LedgerEntry{
		Account:     account.Hex(),
		Kind:        kind,
		BaseAmount:  math.ZeroInt(),
		TokenAmount: math.ZeroInt(),
		Shares:      math.ZeroInt(),
	}
}

func (s *Service) broadcast(typ string, e *poolEntry, entry *model.LedgerEntry) {
	if s.wsHub == nil {
		return
	}
	msg := WSMessage{
		Type:         typ,
		PoolID:       e.id,
		Token:        e.pool.TokenSymbol(),
		Account:      entry.Account,
		Counterparty: entry.Counterparty,
		BaseReserve:  units.FormatEther(entry.BaseReserve),
		TokenReserve: units.FormatEther(entry.TokenReserve),
	}
	if entry.BaseAmount.IsPositive() {
		msg.BaseAmount = units.FormatEther(entry.BaseAmount)
	}
	if entry.TokenAmount.IsPositive() {
		msg.TokenAmount = units.FormatEther(entry.TokenAmount)
	}
	if entry.Shares.IsPositive() {
		msg.Shares = units.FormatEther(entry.Shares)
	}
	s.wsHub.Broadcast(msg)
}

// --- Errors ---

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errPoolNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, custody.ErrUnknownToken):
		return http.StatusNotFound
	case errors.Is(err, exchange.ErrZeroAmount),
		errors.Is(err, cpmm.ErrNegativeAmount),
		errors.Is(err, cpmm.ErrOverflow),
		errors.Is(err, cpmm.ErrInvalidFee),
		errors.Is(err, custody.ErrInvalidAmount),
		errors.Is(err, units.ErrInvalidAmount),
		errors.Is(err, units.ErrInvalidAddress),
		errors.Is(err, units.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, exchange.ErrInvalidReserves),
		errors.Is(err, exchange.ErrInsufficientTokenAmount),
		errors.Is(err, exchange.ErrInsufficientShares),
		errors.Is(err, exchange.ErrSlippageExceeded),
		errors.Is(err, exchange.ErrZeroShares),
		errors.Is(err, custody.ErrInsufficientBalance),
		errors.Is(err, custody.ErrInsufficientAllowance),
		errors.Is(err, custody.ErrRejected),
		errors.Is(err, store.ErrPoolExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// reasonFor labels a rejected operation for metrics.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, exchange.ErrInvalidReserves):
		return "invalid_reserves"
	case errors.Is(err, exchange.ErrInsufficientTokenAmount):
		return "insufficient_token_amount"
	case errors.Is(err, exchange.ErrInsufficientShares):
		return "insufficient_shares"
	case errors.Is(err, exchange.ErrSlippageExceeded):
		return "slippage"
	case errors.Is(err, exchange.ErrZeroShares):
		return "zero_shares"
	case errors.Is(err, exchange.ErrZeroAmount):
		return "zero_amount"
	case errors.Is(err, exchange.ErrReentrantCall):
		return "reentrant"
	case errors.Is(err, exchange.ErrInsufficientReserve):
		return "insufficient_reserve"
	case errors.Is(err, custody.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, custody.ErrInsufficientAllowance):
		return "insufficient_allowance"
	case errors.Is(err, custody.ErrRejected):
		return "rejected"
	case errors.Is(err, cpmm.ErrOverflow):
		return "overflow"
	case errors.Is(err, errPersist):
		return "persist"
	default:
		return "other"
	}
}

// reject records and reports a failed pool operation.
func (s *Service) reject(w http.ResponseWriter, operation, poolID string, err error) {
	status := statusFor(err)
	metrics.RejectedOperations.WithLabelValues(operation, reasonFor(err)).Inc()

	switch {
	case errors.Is(err, exchange.ErrInsufficientReserve):
		slog.Error("reserve bookkeeping fault", "op", operation, "pool", poolID, "err", err)
	case status == http.StatusInternalServerError:
		slog.Error("operation failed", "op", operation, "pool", poolID, "err", err)
	default:
		slog.Warn("operation rejected", "op", operation, "pool", poolID, "err", err)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
		if errors.Is(err, errPersist) {
			msg = errPersist.Error()
		}
	}
	writeError(w, msg, status)
}

// --- Helpers ---

// parseEther parses a required positive-or-zero ether amount.
func parseEther(field, s string) (math.Int, error) {
	if s == "" {
		return math.ZeroInt(), fmt.Errorf("%w: %s is required", units.ErrInvalidAmount, field)
	}
	v, err := units.ParseEther(s)
	if err != nil {
		return math.ZeroInt(), fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

// parseOptionalEther treats an empty string as zero.
func parseOptionalEther(field, s string) (math.Int, error) {
	if s == "" {
		return math.ZeroInt(), nil
	}
	return parseEther(field, s)
}

func parseAddress(field, s string) (common.Address, error) {
	addr, err := units.ParseAddress(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", field, err)
	}
	return addr, nil
}

// etherFloat converts wei to a float for metrics only.
func etherFloat(v math.Int) float64 {
	f, _ := decimal.NewFromBigInt(v.BigInt(), -units.EtherDecimals).Float64()
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
