package units

import (
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

func TestParseEther_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.5", "500000000000000000"},
		{"1000", "1000000000000000000000"},
		{"0.000000000000000001", "1"},
		{" 2.25 ", "2250000000000000000"},
		{"0", "0"},
	}
	for _, tt := range tests {
		got, err := ParseEther(tt.in)
		if err != nil {
			t.Errorf("ParseEther(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseEther(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseEther_Invalid(t *testing.T) {
	tests := []string{
		"",
		"abc",
		"-1",
		"0.0000000000000000001", // below one wei
		"1e80",                  // beyond 256 bits
	}
	for _, in := range tests {
		if _, err := ParseEther(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseEther(%q): expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestParseEther_ExtremeExponents(t *testing.T) {
	tests := []string{
		"1e2000000000",
		"9.99e1999999999",
		"1e-2000000000",
		"1.5e-100000",
		"1e60",
		"2e59", // 78 digits, still above 2^256
	}
	start := time.Now()
	for _, in := range tests {
		if _, err := ParseEther(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseEther(%q): expected ErrInvalidAmount, got %v", in, err)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("rejecting extreme exponents took %s", elapsed)
	}

	got, err := ParseEther("0e2000000000")
	if err != nil || !got.IsZero() {
		t.Errorf("ParseEther(0e2000000000) = %s, %v; want 0", got, err)
	}
	got, err = ParseEther("1e59")
	if err != nil {
		t.Fatalf("ParseEther(1e59): unexpected error: %v", err)
	}
	if want := math.NewIntWithDecimal(1, 77); !got.Equal(want) {
		t.Errorf("ParseEther(1e59) = %s, want %s", got, want)
	}
	got, err = ParseEther("150e-2")
	if err != nil || !got.Equal(math.NewIntWithDecimal(15, 17)) {
		t.Errorf("ParseEther(150e-2) = %s, %v", got, err)
	}
}

func TestParseAmount_Decimals(t *testing.T) {
	got, err := ParseAmount("12.34", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(math.NewInt(1234)) {
		t.Errorf("expected 1234, got %s", got)
	}
	if _, err := ParseAmount("12.345", 2); err == nil {
		t.Error("expected error for excess precision")
	}
}

func TestFormatEther(t *testing.T) {
	v, _ := math.NewIntFromString("18016378525932666060")
	if got := FormatEther(v); got != "18.01637852593266606" {
		t.Errorf("FormatEther = %s", got)
	}
	if got := FormatEther(math.NewIntWithDecimal(110, 18)); got != "110" {
		t.Errorf("FormatEther = %s, want 110", got)
	}
	if got := FormatEther(math.Int{}); got != "0" {
		t.Errorf("FormatEther(nil) = %s, want 0", got)
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x00000000000000000000000000000000000a11ce")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != common.HexToAddress("0x00000000000000000000000000000000000A11CE") {
		t.Errorf("unexpected address: %s", addr.Hex())
	}

	for _, bad := range []string{"", "0x123", "not-an-address", "0xZZ000000000000000000000000000000000a11ce"} {
		if _, err := ParseAddress(bad); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("ParseAddress(%q): expected ErrInvalidAddress, got %v", bad, err)
		}
	}
}

func TestParseSymbol(t *testing.T) {
	for _, ok := range []string{"TKN", "USDC", "T1", "A"} {
		if _, err := ParseSymbol(ok); err != nil {
			t.Errorf("ParseSymbol(%q): unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "tkn", "1TKN", "TOO-LONG", "ABCDEFGHIJKL"} {
		if _, err := ParseSymbol(bad); !errors.Is(err, ErrInvalidSymbol) {
			t.Errorf("ParseSymbol(%q): expected ErrInvalidSymbol, got %v", bad, err)
		}
	}
}
