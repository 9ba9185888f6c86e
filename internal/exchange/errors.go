package exchange

import (
	"errors"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
	"github.com/TsigelnikovNikita/mySwap/internal/reserve"
)

var (
	// ErrInsufficientReserve means a reserve debit would go negative.
	ErrInsufficientReserve = reserve.ErrInsufficientReserve

	// ErrInsufficientShares is returned when burning or moving more shares
	// than the caller holds, or zero shares.
	ErrInsufficientShares = reserve.ErrInsufficientShares

	// ErrInvalidReserves is returned when quoting against an empty pool.
	ErrInvalidReserves = cpmm.ErrInvalidReserves

	// ErrInsufficientTokenAmount is returned when the token amount offered
	// with a deposit is below what the pool ratio requires.
	ErrInsufficientTokenAmount = errors.New("exchange: insufficient token amount")

	// ErrSlippageExceeded is returned when a swap would pay out less than
	// the caller's minimum.
	ErrSlippageExceeded = errors.New("exchange: slippage exceeded")

	// ErrReentrantCall is returned when an operation re-enters a pool
	// from inside one of that pool's own transfers.
	ErrReentrantCall = errors.New("exchange: reentrant call")

	// ErrZeroAmount is returned for non-positive deposit, swap or quote
	// amounts.
	ErrZeroAmount = errors.New("exchange: amount must be positive")

	// ErrZeroShares is returned when a deposit into a seeded pool is too
	// small to mint any share.
	ErrZeroShares = errors.New("exchange: deposit too small to mint shares")
)
