// Package cpmm implements the constant-product market maker (x * y = k)
// used to price swaps between the native base asset and a pool token.
//
// All amounts are cosmossdk.io/math Int values in the smallest unit of each
// asset. Every division floors, so rounding always favours the pool and the
// product of the reserves can never shrink across a swap. Intermediate
// products that would exceed 256 bits surface as ErrOverflow instead of a
// panic.
//
// The MarketMaker is stateless: reserves are passed as arguments, never
// stored, so the same value can price any number of pools sharing a fee.
package cpmm

import (
	"errors"
	"fmt"

	"cosmossdk.io/math"
)

var (
	// ErrInvalidReserves is returned when a quote is requested against a
	// pool with an empty side.
	ErrInvalidReserves = errors.New("cpmm: reserves must be positive")

	// ErrInvalidFee is returned when the fee denominator is zero or the
	// numerator is not strictly below it.
	ErrInvalidFee = errors.New("cpmm: fee must satisfy 0 <= numerator < denominator")

	// ErrNegativeAmount is returned for negative inputs.
	ErrNegativeAmount = errors.New("cpmm: amount must not be negative")

	// ErrOverflow is returned when an intermediate product exceeds the
	// 256-bit amount range.
	ErrOverflow = errors.New("cpmm: arithmetic overflow")
)

// Fee is the rational swap fee numerator/denominator deducted from the
// input side of every swap.
type Fee struct {
	Numerator   uint64 `json:"numerator" mapstructure:"numerator"`
	Denominator uint64 `json:"denominator" mapstructure:"denominator"`
}

// DefaultFee is 1%.
var DefaultFee = Fee{Numerator: 1, Denominator: 100}

// NewFee validates and returns a fee.
func NewFee(numerator, denominator uint64) (Fee, error) {
	f := Fee{Numerator: numerator, Denominator: denominator}
	if err := f.Validate(); err != nil {
		return Fee{}, err
	}
	return f, nil
}

// Validate reports whether the fee is usable.
func (f Fee) Validate() error {
	if f.Denominator == 0 || f.Numerator >= f.Denominator {
		return fmt.Errorf("%w: got %d/%d", ErrInvalidFee, f.Numerator, f.Denominator)
	}
	return nil
}

func (f Fee) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// MarketMaker prices swaps and liquidity changes for a fixed fee.
type MarketMaker struct {
	fee Fee
}

// NewMarketMaker creates a market maker with the given fee.
func NewMarketMaker(fee Fee) (*MarketMaker, error) {
	if err := fee.Validate(); err != nil {
		return nil, err
	}
	return &MarketMaker{fee: fee}, nil
}

// Fee returns the swap fee.
func (m *MarketMaker) Fee() Fee {
	return m.fee
}

// OutputAmount quotes a swap of amountIn against the given reserves:
//
//	eff = amountIn * (den - num)
//	out = floor(eff * outReserve / (inReserve * den + eff))
//
// The result is always strictly below outReserve.
func (m *MarketMaker) OutputAmount(amountIn, inReserve, outReserve math.Int) (math.Int, error) {
	return GetOutputAmount(amountIn, inReserve, outReserve, m.fee)
}

// GetOutputAmount is OutputAmount for an explicit fee.
func GetOutputAmount(amountIn, inReserve, outReserve math.Int, fee Fee) (math.Int, error) {
	if err := fee.Validate(); err != nil {
		return math.ZeroInt(), err
	}
	if !inReserve.IsPositive() || !outReserve.IsPositive() {
		return math.ZeroInt(), ErrInvalidReserves
	}
	if amountIn.IsNegative() {
		return math.ZeroInt(), ErrNegativeAmount
	}

	feeDen := math.NewIntFromUint64(fee.Denominator)
	keep := math.NewIntFromUint64(fee.Denominator - fee.Numerator)

	effective, err := amountIn.SafeMul(keep)
	if err != nil {
		return math.ZeroInt(), overflow("effective input", err)
	}
	numerator, err := effective.SafeMul(outReserve)
	if err != nil {
		return math.ZeroInt(), overflow("numerator", err)
	}
	scaled, err := inReserve.SafeMul(feeDen)
	if err != nil {
		return math.ZeroInt(), overflow("scaled reserve", err)
	}
	denominator, err := scaled.SafeAdd(effective)
	if err != nil {
		return math.ZeroInt(), overflow("denominator", err)
	}
	out, err := numerator.SafeQuo(denominator)
	if err != nil {
		return math.ZeroInt(), overflow("quotient", err)
	}
	return out, nil
}

// RequiredTokenAmount returns the token amount that must accompany a base
// deposit to keep the pool ratio: floor(baseIn * tokenReserve / baseReserve).
func RequiredTokenAmount(baseIn, baseReserve, tokenReserve math.Int) (math.Int, error) {
	return mulDiv(baseIn, tokenReserve, baseReserve)
}

// SharesForDeposit returns the shares minted for a base deposit into a
// seeded pool: floor(totalShares * baseIn / baseReserve).
func SharesForDeposit(baseIn, baseReserve, totalShares math.Int) (math.Int, error) {
	return mulDiv(totalShares, baseIn, baseReserve)
}

// Redeem returns the reserves released by burning shares:
// floor(reserve * shares / totalShares) on each side.
func Redeem(shares, totalShares, baseReserve, tokenReserve math.Int) (baseOut, tokenOut math.Int, err error) {
	baseOut, err = mulDiv(baseReserve, shares, totalShares)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	tokenOut, err = mulDiv(tokenReserve, shares, totalShares)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	return baseOut, tokenOut, nil
}

// Product returns x * y, the pool invariant.
func Product(x, y math.Int) (math.Int, error) {
	k, err := x.SafeMul(y)
	if err != nil {
		return math.ZeroInt(), overflow("product", err)
	}
	return k, nil
}

func mulDiv(a, b, denom math.Int) (math.Int, error) {
	if !denom.IsPositive() {
		return math.ZeroInt(), ErrInvalidReserves
	}
	if a.IsNegative() || b.IsNegative() {
		return math.ZeroInt(), ErrNegativeAmount
	}
	p, err := a.SafeMul(b)
	if err != nil {
		return math.ZeroInt(), overflow("mulDiv", err)
	}
	q, err := p.SafeQuo(denom)
	if err != nil {
		return math.ZeroInt(), overflow("mulDiv", err)
	}
	return q, nil
}

func overflow(step string, err error) error {
	return fmt.Errorf("%w in %s: %v", ErrOverflow, step, err)
}
