// Package model defines the domain types shared by the store and the HTTP
// service. Amounts are cosmossdk.io/math Int values in the smallest unit of
// their asset (wei for the base asset) and serialize as decimal strings.
package model

import (
	"time"

	"cosmossdk.io/math"
)

// Activity kinds recorded in the ledger.
const (
	KindAddLiquidity     = "add_liquidity"
	KindRemoveLiquidity  = "remove_liquidity"
	KindSwapBaseForToken = "swap_base_for_token"
	KindSwapTokenForBase = "swap_token_for_base"
	KindTransferShares   = "transfer_shares"
)

// Pool is the persisted description and committed state of one ETH/token
// pool.
type Pool struct {
	ID             string    `json:"id" db:"id"`
	Address        string    `json:"address" db:"address"` // custody account, hex
	Owner          string    `json:"owner" db:"owner"`
	TokenSymbol    string    `json:"token_symbol" db:"token_symbol"`
	FeeNumerator   uint64    `json:"fee_numerator" db:"fee_numerator"`
	FeeDenominator uint64    `json:"fee_denominator" db:"fee_denominator"`
	BaseReserve    math.Int  `json:"base_reserve" db:"base_reserve"`
	TokenReserve   math.Int  `json:"token_reserve" db:"token_reserve"`
	TotalShares    math.Int  `json:"total_shares" db:"total_shares"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Position is a provider's share balance in one pool. Zero positions are
// never stored.
type Position struct {
	PoolID    string    `json:"pool_id" db:"pool_id"`
	Provider  string    `json:"provider" db:"provider"`
	Shares    math.Int  `json:"shares" db:"shares"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LedgerEntry is an immutable record of one executed pool operation.
// Amounts are absolute; Kind says which way they moved.
type LedgerEntry struct {
	ID           string    `json:"id" db:"id"`
	PoolID       string    `json:"pool_id" db:"pool_id"`
	Account      string    `json:"account" db:"account"`
	Kind         string    `json:"kind" db:"kind"`
	BaseAmount   math.Int  `json:"base_amount" db:"base_amount"`
	TokenAmount  math.Int  `json:"token_amount" db:"token_amount"`
	Shares       math.Int  `json:"shares" db:"shares"`
	Counterparty string    `json:"counterparty,omitempty" db:"counterparty"` // share transfers only
	BaseReserve  math.Int  `json:"base_reserve" db:"base_reserve"`           // after the operation
	TokenReserve math.Int  `json:"token_reserve" db:"token_reserve"`         // after the operation
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}
