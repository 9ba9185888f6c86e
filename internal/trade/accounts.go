package trade

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/TsigelnikovNikita/mySwap/internal/units"
)

// AccountResponse aggregates what an address holds: its native balance,
// its non-zero token balances and its pool shares.
type AccountResponse struct {
	Address   string             `json:"address"`
	Base      string             `json:"base"`
	Tokens    map[string]string  `json:"tokens"`
	Positions []PositionResponse `json:"positions"`
}

// PositionResponse is a provider's share balance in one pool.
type PositionResponse struct {
	PoolID string `json:"pool_id"`
	Token  string `json:"token,omitempty"`
	Shares string `json:"shares"`
}

// FundRequest is the JSON body for POST /accounts/{account}/fund.
type FundRequest struct {
	Amount string `json:"amount"`
}

// MintRequest is the JSON body for POST /tokens/{symbol}/mint.
type MintRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// ApproveRequest is the JSON body for POST /tokens/{symbol}/approve.
// Spender may be an address or a pool id.
type ApproveRequest struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

// TokenBalanceResponse reports a token holding after a mint or approval.
type TokenBalanceResponse struct {
	Token       string `json:"token"`
	Account     string `json:"account"`
	Balance     string `json:"balance"`
	TotalSupply string `json:"total_supply"`
	Spender     string `json:"spender,omitempty"`
	Allowance   string `json:"allowance,omitempty"`
}

// GetAccount handles GET /api/v1/accounts/{account}
func (s *Service) GetAccount(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress("account", chi.URLParam(r, "account"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.account(r, addr)
	if err != nil {
		writeError(w, "failed to load positions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) account(r *http.Request, addr common.Address) (AccountResponse, error) {
	positions, err := s.store.GetAccountPositions(r.Context(), addr.Hex())
	if err != nil {
		return AccountResponse{}, err
	}

	resp := AccountResponse{
		Address:   addr.Hex(),
		Base:      units.FormatEther(s.bank.Native().BalanceOf(addr)),
		Tokens:    make(map[string]string),
		Positions: make([]PositionResponse, 0, len(positions)),
	}
	for _, tok := range s.bank.Tokens() {
		if bal := tok.BalanceOf(addr); bal.IsPositive() {
			resp.Tokens[tok.Symbol()] = units.FormatAmount(bal, tok.Decimals())
		}
	}
	for _, p := range positions {
		pos := PositionResponse{PoolID: p.PoolID, Shares: units.FormatEther(p.Shares)}
		if e, err := s.lookupPool(p.PoolID); err == nil {
			pos.Token = e.pool.TokenSymbol()
		}
		resp.Positions = append(resp.Positions, pos)
	}
	return resp, nil
}

// GetAccountHistory handles GET /api/v1/accounts/{account}/history
// Returns every ledger entry the account took part in, oldest first.
func (s *Service) GetAccountHistory(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress("account", chi.URLParam(r, "account"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := s.store.GetLedgerEntriesByAccount(r.Context(), addr.Hex())
	if err != nil {
		writeError(w, "failed to get account history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ledgerEntryResponses(entries))
}

// FundAccount handles POST /api/v1/accounts/{account}/fund
// Credits native value to an account (faucet).
func (s *Service) FundAccount(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress("account", chi.URLParam(r, "account"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req FundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	amount, err := parseEther("amount", req.Amount)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.bank.Atomic(func() error {
		return s.bank.Native().Credit(addr, amount)
	})
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	slog.Info("account funded", "account", addr.Hex(), "amount", units.FormatEther(amount))

	resp, err := s.account(r, addr)
	if err != nil {
		writeError(w, "failed to load positions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// MintToken handles POST /api/v1/tokens/{symbol}/mint
func (s *Service) MintToken(w http.ResponseWriter, r *http.Request) {
	tok, err := s.bank.Token(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, "token not found", http.StatusNotFound)
		return
	}
	var req MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	amount, err := parseEther("amount", req.Amount)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.bank.Atomic(func() error {
		return tok.Mint(to, amount)
	})
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	slog.Info("token minted", "token", tok.Symbol(), "to", to.Hex(), "amount", units.FormatEther(amount))

	writeJSON(w, http.StatusOK, TokenBalanceResponse{
		Token:       tok.Symbol(),
		Account:     to.Hex(),
		Balance:     units.FormatEther(tok.BalanceOf(to)),
		TotalSupply: units.FormatEther(tok.TotalSupply()),
	})
}

// ApproveToken handles POST /api/v1/tokens/{symbol}/approve
// Sets how many tokens the spender may pull from the owner.
func (s *Service) ApproveToken(w http.ResponseWriter, r *http.Request) {
	tok, err := s.bank.Token(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, "token not found", http.StatusNotFound)
		return
	}
	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	spender, err := s.resolveSpender(req.Spender)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	amount, err := parseEther("amount", req.Amount)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.bank.Atomic(func() error {
		return tok.Approve(owner, spender, amount)
	})
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	slog.Info("token approved",
		"token", tok.Symbol(),
		"owner", owner.Hex(),
		"spender", spender.Hex(),
		"amount", units.FormatEther(amount),
	)

	writeJSON(w, http.StatusOK, TokenBalanceResponse{
		Token:       tok.Symbol(),
		Account:     owner.Hex(),
		Balance:     units.FormatEther(tok.BalanceOf(owner)),
		TotalSupply: units.FormatEther(tok.TotalSupply()),
		Spender:     spender.Hex(),
		Allowance:   units.FormatEther(tok.Allowance(owner, spender)),
	})
}

// resolveSpender accepts a hex address or the id of a pool, which resolves
// to the pool's custody address.
func (s *Service) resolveSpender(v string) (common.Address, error) {
	if e, err := s.lookupPool(v); err == nil {
		return e.pool.Address(), nil
	}
	return parseAddress("spender", v)
}
