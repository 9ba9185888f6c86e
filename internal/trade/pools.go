package trade

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
	"github.com/TsigelnikovNikita/mySwap/internal/exchange"
	"github.com/TsigelnikovNikita/mySwap/internal/metrics"
	"github.com/TsigelnikovNikita/mySwap/internal/model"
	"github.com/TsigelnikovNikita/mySwap/internal/store"
	"github.com/TsigelnikovNikita/mySwap/internal/units"
)

// Swap and quote sides name the asset the caller pays in.
const (
	SideBase  = "base"
	SideToken = "token"
)

// --- Request/Response types ---

// CreatePoolRequest is the JSON body for pool creation. Leaving both fee
// fields zero selects the service default.
type CreatePoolRequest struct {
	Token          string `json:"token"`
	Owner          string `json:"owner"`
	FeeNumerator   uint64 `json:"fee_numerator"`
	FeeDenominator uint64 `json:"fee_denominator"`
}

// PoolResponse describes a pool. Amounts are in ether units.
type PoolResponse struct {
	ID           string    `json:"id"`
	Address      string    `json:"address"`
	Owner        string    `json:"owner"`
	Token        string    `json:"token"`
	Fee          string    `json:"fee"`
	BaseReserve  string    `json:"base_reserve"`
	TokenReserve string    `json:"token_reserve"`
	TotalShares  string    `json:"total_shares"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReservesResponse is the committed state of a pool.
type ReservesResponse struct {
	BaseReserve  string `json:"base_reserve"`
	TokenReserve string `json:"token_reserve"`
	TotalShares  string `json:"total_shares"`
}

// QuoteResponse is the JSON body returned from the quote endpoint.
type QuoteResponse struct {
	Side      string `json:"side"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}

// AddLiquidityRequest is the JSON body for POST /pools/{poolID}/liquidity.
// BaseAmount is moved from the provider into the pool with the call;
// TokenAmount is the most the pool may pull under the provider's approval.
type AddLiquidityRequest struct {
	Provider    string `json:"provider"`
	BaseAmount  string `json:"base_amount"`
	TokenAmount string `json:"token_amount"`
}

// RemoveLiquidityRequest is the JSON body for POST /pools/{poolID}/liquidity/remove.
type RemoveLiquidityRequest struct {
	Provider string `json:"provider"`
	Shares   string `json:"shares"`
}

// LiquidityResponse reports the amounts moved by a liquidity operation.
type LiquidityResponse struct {
	EntryID        string           `json:"entry_id"`
	PoolID         string           `json:"pool_id"`
	Provider       string           `json:"provider"`
	BaseAmount     string           `json:"base_amount"`
	TokenAmount    string           `json:"token_amount"`
	Shares         string           `json:"shares"`
	ProviderShares string           `json:"provider_shares"`
	Reserves       ReservesResponse `json:"reserves"`
}

// SwapRequest is the JSON body for POST /pools/{poolID}/swap. Side is the
// asset paid in; MinOut defaults to zero.
type SwapRequest struct {
	Trader string `json:"trader"`
	Side   string `json:"side"`
	Amount string `json:"amount"`
	MinOut string `json:"min_out"`
}

// SwapResponse is the JSON body returned from POST /pools/{poolID}/swap.
type SwapResponse struct {
	EntryID   string           `json:"entry_id"`
	PoolID    string           `json:"pool_id"`
	Trader    string           `json:"trader"`
	Side      string           `json:"side"`
	AmountIn  string           `json:"amount_in"`
	AmountOut string           `json:"amount_out"`
	Reserves  ReservesResponse `json:"reserves"`
}

// TransferSharesRequest is the JSON body for POST /pools/{poolID}/shares/transfer.
type TransferSharesRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Shares string `json:"shares"`
}

// TransferSharesResponse reports both sides after a share transfer.
type TransferSharesResponse struct {
	EntryID    string `json:"entry_id"`
	PoolID     string `json:"pool_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Shares     string `json:"shares"`
	FromShares string `json:"from_shares"`
	ToShares   string `json:"to_shares"`
}

// LedgerEntryResponse is one history record in ether units.
type LedgerEntryResponse struct {
	ID           string    `json:"id"`
	PoolID       string    `json:"pool_id"`
	Account      string    `json:"account"`
	Kind         string    `json:"kind"`
	BaseAmount   string    `json:"base_amount"`
	TokenAmount  string    `json:"token_amount"`
	Shares       string    `json:"shares"`
	Counterparty string    `json:"counterparty,omitempty"`
	BaseReserve  string    `json:"base_reserve"`
	TokenReserve string    `json:"token_reserve"`
	Timestamp    time.Time `json:"timestamp"`
}

func poolResponse(p *model.Pool) PoolResponse {
	fee := cpmm.Fee{Numerator: p.FeeNumerator, Denominator: p.FeeDenominator}
	return PoolResponse{
		ID:           p.ID,
		Address:      p.Address,
		Owner:        p.Owner,
		Token:        p.TokenSymbol,
		Fee:          fee.String(),
		BaseReserve:  units.FormatEther(p.BaseReserve),
		TokenReserve: units.FormatEther(p.TokenReserve),
		TotalShares:  units.FormatEther(p.TotalShares),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func reservesResponse(pool *exchange.Pool) ReservesResponse {
	base, token := pool.GetReserves()
	return ReservesResponse{
		BaseReserve:  units.FormatEther(base),
		TokenReserve: units.FormatEther(token),
		TotalShares:  units.FormatEther(pool.TotalShares()),
	}
}

func ledgerEntryResponses(entries []model.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, LedgerEntryResponse{
			ID:           e.ID,
			PoolID:       e.PoolID,
			Account:      e.Account,
			Kind:         e.Kind,
			BaseAmount:   units.FormatEther(e.BaseAmount),
			TokenAmount:  units.FormatEther(e.TokenAmount),
			Shares:       units.FormatEther(e.Shares),
			Counterparty: e.Counterparty,
			BaseReserve:  units.FormatEther(e.BaseReserve),
			TokenReserve: units.FormatEther(e.TokenReserve),
			Timestamp:    e.Timestamp,
		})
	}
	return out
}

// --- HTTP Handlers ---

// CreatePool handles POST /api/v1/pools
func (s *Service) CreatePool(w http.ResponseWriter, r *http.Request) {
	var req CreatePoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	symbol, err := units.ParseSymbol(req.Token)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	fee := s.defaultFee
	if req.FeeNumerator != 0 || req.FeeDenominator != 0 {
		if fee, err = cpmm.NewFee(req.FeeNumerator, req.FeeDenominator); err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	ctx := r.Context()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetPoolByToken(ctx, symbol); err == nil {
		writeError(w, "pool for token "+symbol+" already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, "failed to create pool", http.StatusInternalServerError)
		return
	}

	tok, err := s.tokenFor(symbol)
	if err != nil {
		writeError(w, "failed to register token", http.StatusInternalServerError)
		return
	}

	id := uuid.New()
	addr := common.BytesToAddress(id[:])
	pool, err := exchange.New(exchange.Config{
		Address:     addr,
		Owner:       owner,
		TokenSymbol: symbol,
		Token:       tok,
		Native:      s.bank.Native(),
		Fee:         fee,
		Group:       s.group,
	})
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	mp := &model.Pool{
		ID:             id.String(),
		Address:        addr.Hex(),
		Owner:          owner.Hex(),
		TokenSymbol:    symbol,
		FeeNumerator:   fee.Numerator,
		FeeDenominator: fee.Denominator,
		BaseReserve:    math.ZeroInt(),
		TokenReserve:   math.ZeroInt(),
		TotalShares:    math.ZeroInt(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreatePool(ctx, mp); err != nil {
		if errors.Is(err, store.ErrPoolExists) {
			writeError(w, "pool for token "+symbol+" already exists", http.StatusConflict)
			return
		}
		writeError(w, "failed to create pool", http.StatusInternalServerError)
		return
	}
	s.addPool(&poolEntry{id: mp.ID, pool: pool})

	slog.Info("pool created",
		"id", mp.ID,
		"token", symbol,
		"address", mp.Address,
		"owner", mp.Owner,
		"fee", fee.String(),
	)

	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:         "pool_created",
			PoolID:       mp.ID,
			Token:        symbol,
			Account:      mp.Owner,
			BaseReserve:  "0",
			TokenReserve: "0",
		})
	}

	writeJSON(w, http.StatusCreated, poolResponse(mp))
}

// ListPools handles GET /api/v1/pools
// Returns all pools, or the pool for ?token=<symbol>.
func (s *Service) ListPools(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if token := r.URL.Query().Get("token"); token != "" {
		p, err := s.store.GetPoolByToken(ctx, token)
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeJSON(w, http.StatusOK, []PoolResponse{})
		case err != nil:
			writeError(w, "failed to list pools", http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, []PoolResponse{poolResponse(p)})
		}
		return
	}

	pools, err := s.store.ListPools(ctx)
	if err != nil {
		writeError(w, "failed to list pools", http.StatusInternalServerError)
		return
	}

	out := make([]PoolResponse, 0, len(pools))
	for i := range pools {
		out = append(out, poolResponse(&pools[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetPool handles GET /api/v1/pools/{poolID}
func (s *Service) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")

	pool, err := s.store.GetPool(r.Context(), poolID)
	if err != nil {
		writeError(w, "pool not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, poolResponse(pool))
}

// GetReserves handles GET /api/v1/pools/{poolID}/reserves
func (s *Service) GetReserves(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookupPool(chi.URLParam(r, "poolID"))
	if err != nil {
		writeError(w, "pool not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, reservesResponse(e.pool))
}

// GetQuote handles GET /api/v1/pools/{poolID}/quote?side=base|token&amount=
// Prices a swap against the committed reserves without executing it.
func (s *Service) GetQuote(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookupPool(chi.URLParam(r, "poolID"))
	if err != nil {
		writeError(w, "pool not found", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	side := q.Get("side")
	if side != SideBase && side != SideToken {
		writeError(w, "side must be base or token", http.StatusBadRequest)
		return
	}
	amount, err := parseEther("amount", q.Get("amount"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var out math.Int
	if side == SideBase {
		out, err = e.pool.GetTokenAmount(amount)
	} else {
		out, err = e.pool.GetEthAmount(amount)
	}
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, QuoteResponse{
		Side:      side,
		AmountIn:  units.FormatEther(amount),
		AmountOut: units.FormatEther(out),
	})
}

// AddLiquidity handles POST /api/v1/pools/{poolID}/liquidity
func (s *Service) AddLiquidity(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookupPool(chi.URLParam(r, "poolID"))
	if err != nil {
		writeError(w, "pool not found", http.StatusNotFound)
		return
	}

	var req AddLiquidityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	baseIn, err := parseEther("base_amount", req.BaseAmount)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	tokenDesired, err := parseOptionalEther("token_amount", req.TokenAmount)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	entry, err := s.execute(ctx, e, func() (outcome, error) {
		if err := s.bank.Native().Send(ctx, provider, e.pool.Address(), baseIn); err != nil {
			return outcome{}, err
		}
		before := e.pool.TokenReserve()
		shares, err := e.pool.AddLiquidity(ctx, provider, baseIn, tokenDesired)
		if err != nil {
			return outcome{}, err
		}
		entry := newEntry(model.KindAddLiquidity, provider)
		entry.BaseAmount = baseIn
		entry.TokenAmount = e.pool.TokenReserve().Sub(before)
		entry.Shares = shares
		return outcome{entry: entry, providers: []common.Address{provider}}, nil
	})
	if err != nil {
		s.reject(w, model.KindAddLiquidity, e.id, err)
		return
	}

	metrics.LiquidityEventsTotal.WithLabelValues(model.KindAddLiquidity).Inc()
	slog.Info("liquidity added",
		"entry_id", entry.ID,
		"pool", e.id,
		"provider", entry.Account,
		"base", units.FormatEther(entry.BaseAmount),
		"token", units.FormatEther(entry.TokenAmount),
		"shares", units.FormatEther(entry.Shares),
		"base_reserve", units.FormatEther(entry.BaseReserve),
		"token_reserve", units.FormatEther(entry.TokenReserve),
	)
	s.broadcast("liquidity_added", e, entry)

	writeJSON(w, http.StatusOK, s.liquidityResponse(e, provider, entry))
}

// RemoveLiquidity handles POST /api/v1/pools/{poolID}/liquidity/remove
func (s *Service) RemoveLiquidity(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookupPool(chi.URLParam(r, "poolID"))
	if err != nil {
		writeError(w, "pool not found", http.StatusNotFound)
		return
	}

	var req RemoveLiquidityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	shares, err := parseEther("shares", req.Shares)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	entry, err := s.execute(ctx, e, func() (outcome, error) {
		baseOut, tokenOut, err := e.pool.RemoveLiquidity(ctx, provider, shares)
		if err != nil {
			return outcome{}, err
		}
		entry := newEntry(model.KindRemoveLiquidity, provider)
		entry.BaseAmount = baseOut
		entry.TokenAmount = tokenOut
		entry.Shares = shares
		return outcome{entry: entry, providers: []common.Address{provider}}, nil
	})
	if err != nil {
		s.reject(w, model.KindRemoveLiquidity, e.id, err)
		return
	}

	metrics.LiquidityEventsTotal.WithLabelValues(model.KindRemoveLiquidity).Inc()
	slog.Info("liquidity removed",
		"entry_id", entry.ID,
		"pool", e.id,
		"provider", entry.Account,
		"base", units.FormatEther(entry.BaseAmount),
		"token", units.FormatEther(entry.TokenAmount),
		"shares", units.FormatEther(entry.Shares),
		"base_reserve", units.FormatEther(entry.BaseReserve),
		"token_reserve", units.FormatEther(entry.TokenReserve),
	)
	s.broadcast("liquidity_removed", e, entry)

	writeJSON(w, http.StatusOK, s.liquidityResponse(e, provider, entry))
}

func (s *Service) liquidityResponse(e *poolEntry, provider common.Address, entry *model.LedgerEntry) LiquidityResponse {
	return LiquidityResponse{
		EntryID:        entry.ID,
		PoolID:         e.id,
		Provider:       entry.Account,
		BaseAmount:     units.FormatEther(entry.BaseAmount),
		TokenAmount:    units.FormatEther(entry.TokenAmount),
		Shares:         units.FormatEther(entry.Shares),
		ProviderShares: units.FormatEther(e.pool.SharesOf(provider)),
		Reserves: ReservesResponse{
			BaseReserve:  units.FormatEther(entry.BaseReserve),
			TokenReserve: units.FormatEther(entry.TokenReserve),
			TotalShares:  units.FormatEther(e.pool.TotalShares()),
		},
	}
}

// Swap handles POST /api/v1/pools/{poolID}/swap
// Base value for a base-side swap is moved from the trader into the pool
// with the call; a token-side swap pulls tokens under the trader's approval.
func (s *Service) Swap(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookupPool(chi.URLParam(r, "poolID"))
	if err != nil {
		writeError(w, "pool not found", http.StatusNotFound)
		return
	}

	var req SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	trader, err := parseAddress("trader", req.Trader)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Side != SideBase && req.Side != SideToken {
		writeError(w, "side must be base or token", http.StatusBadRequest)
		return
	}
	amount, err := parseEther("amount", req.Amount)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	minOut, err := parseOptionalEther("min_out", req.MinOut)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	kind, direction, asset := model.KindSwapBaseForToken, "base_to_token", SideBase
	if req.Side == SideToken {
		kind, direction, asset = model.KindSwapTokenForBase, "token_to_base", e.pool.TokenSymbol()
	}

	ctx := r.Context()
	start := time.Now()
	var out math.Int
	entry, err := s.execute(ctx, e, func() (outcome, error) {
		var err error
		entry := newEntry(kind, trader)
		if req.Side == SideBase {
			out, err = s.swapBase(ctx, e, trader, amount, minOut)
			entry.BaseAmount, entry.TokenAmount = amount, out
		} else {
			out, err = e.pool.SwapTokenForBase(ctx, trader, amount, minOut)
			entry.BaseAmount, entry.TokenAmount = out, amount
		}
		if err != nil {
			return outcome{}, err
		}
		return outcome{entry: entry}, nil
	})
	if err != nil {
		s.reject(w, kind, e.id, err)
		return
	}

	metrics.SwapsTotal.WithLabelValues(direction).Inc()
	metrics.SwapLatency.WithLabelValues(direction).Observe(time.Since(start).Seconds())
	metrics.PoolVolume.WithLabelValues(e.id, asset).Add(etherFloat(amount))

	slog.Info("swap executed",
		"entry_id", entry.ID,
		"pool", e.id,
		"trader", entry.Account,
		"side", req.Side,
		"amount_in", units.FormatEther(amount),
		"amount_out", units.FormatEther(out),
		"base_reserve", units.FormatEther(entry.BaseReserve),
		"token_reserve", units.FormatEther(entry.TokenReserve),
	)
	s.broadcast("swap_executed", e, entry)

	writeJSON(w, http.StatusOK, SwapResponse{
		EntryID:   entry.ID,
		PoolID:    e.id,
		Trader:    entry.Account,
		Side:      req.Side,
		AmountIn:  units.FormatEther(amount),
		AmountOut: units.FormatEther(out),
		Reserves: ReservesResponse{
			BaseReserve:  units.FormatEther(entry.BaseReserve),
			TokenReserve: units.FormatEther(entry.TokenReserve),
			TotalShares:  units.FormatEther(e.pool.TotalShares()),
		},
	})
}

// swapBase attaches amount to the pool and sells it for tokens.
func (s *Service) swapBase(ctx context.Context, e *poolEntry, trader common.Address, amount, minOut math.Int) (math.Int, error) {
	if err := s.bank.Native().Send(ctx, trader, e.pool.Address(), amount); err != nil {
		return math.ZeroInt(), err
	}
	return e.pool.SwapBaseForToken(ctx, trader, amount, minOut)
}

// TransferShares handles POST /api/v1/pools/{poolID}/shares/transfer
func (s *Service) TransferShares(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookupPool(chi.URLParam(r, "poolID"))
	if err != nil {
		writeError(w, "pool not found", http.StatusNotFound)
		return
	}

	var req TransferSharesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	from, err := parseAddress("from", req.From)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	shares, err := parseEther("shares", req.Shares)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	entry, err := s.execute(ctx, e, func() (outcome, error) {
		if err := e.pool.TransferShares(ctx, from, to, shares); err != nil {
			return outcome{}, err
		}
		entry := newEntry(model.KindTransferShares, from)
		entry.Shares = shares
		entry.Counterparty = to.Hex()
		return outcome{entry: entry, providers: []common.Address{from, to}}, nil
	})
	if err != nil {
		s.reject(w, model.KindTransferShares, e.id, err)
		return
	}

	metrics.LiquidityEventsTotal.WithLabelValues(model.KindTransferShares).Inc()
	slog.Info("shares transferred",
		"entry_id", entry.ID,
		"pool", e.id,
		"from", entry.Account,
		"to", entry.Counterparty,
		"shares", units.FormatEther(shares),
	)
	s.broadcast("shares_transferred", e, entry)

	writeJSON(w, http.StatusOK, TransferSharesResponse{
		EntryID:    entry.ID,
		PoolID:     e.id,
		From:       entry.Account,
		To:         entry.Counterparty,
		Shares:     units.FormatEther(shares),
		FromShares: units.FormatEther(e.pool.SharesOf(from)),
		ToShares:   units.FormatEther(e.pool.SharesOf(to)),
	})
}

// GetPoolHistory handles GET /api/v1/pools/{poolID}/history
// Returns the pool's ledger entries, oldest first.
func (s *Service) GetPoolHistory(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")
	if _, err := s.lookupPool(poolID); err != nil {
		writeError(w, "pool not found", http.StatusNotFound)
		return
	}

	entries, err := s.store.GetLedgerEntriesByPool(r.Context(), poolID)
	if err != nil {
		writeError(w, "failed to get pool history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ledgerEntryResponses(entries))
}
