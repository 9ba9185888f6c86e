// Package units converts between human-readable amounts ("1.5" ether) and
// on-ledger integers (wei), and validates the identifiers the API accepts:
// hex account addresses and token symbols.
package units

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// EtherDecimals is the precision of the native base asset.
const EtherDecimals = 18

// maxDigits is the decimal length of 2^256.
const maxDigits = 78

// symbolRegex matches token tickers: an uppercase letter followed by up to
// ten uppercase letters or digits. Example: USDC, WBTC, T1
var symbolRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,10}$`)

var (
	ErrInvalidAmount  = errors.New("units: invalid amount")
	ErrInvalidAddress = errors.New("units: invalid address")
	ErrInvalidSymbol  = errors.New("units: invalid token symbol")
)

// ParseAmount converts a decimal string with up to decimals fractional
// digits into base units. Negative values and sub-unit dust are rejected.
func ParseAmount(s string, decimals uint8) (math.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return math.ZeroInt(), fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return math.ZeroInt(), fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	if d.IsZero() {
		return math.ZeroInt(), nil
	}

	// Bound the scaled value by digit count before anything rescales the
	// coefficient: 10^exp is materialized by every comparison.
	exp := int64(d.Exponent()) + int64(decimals)
	digits := int64(d.NumDigits())
	if digits+exp > maxDigits {
		return math.ZeroInt(), fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}
	if exp < 0 && -exp > digits {
		return math.ZeroInt(), fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return math.ZeroInt(), fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	v := scaled.BigInt()
	if v.BitLen() > math.MaxBitLen {
		return math.ZeroInt(), fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}
	return math.NewIntFromBigInt(v), nil
}

// ParseEther converts an ether string into wei.
func ParseEther(s string) (math.Int, error) {
	return ParseAmount(s, EtherDecimals)
}

// FormatAmount renders base units as a decimal string with trailing zeros
// trimmed.
func FormatAmount(v math.Int, decimals uint8) string {
	if v.IsNil() {
		return "0"
	}
	return decimal.NewFromBigInt(v.BigInt(), -int32(decimals)).String()
}

// FormatEther renders wei as ether.
func FormatEther(v math.Int) string {
	return FormatAmount(v, EtherDecimals)
}

// ParseAddress validates and normalizes a 0x-prefixed hex address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// ParseSymbol validates a token ticker.
func ParseSymbol(s string) (string, error) {
	if !symbolRegex.MatchString(s) {
		return "", fmt.Errorf("%w: %q (expected 1-11 uppercase letters or digits, starting with a letter)",
			ErrInvalidSymbol, s)
	}
	return s, nil
}
