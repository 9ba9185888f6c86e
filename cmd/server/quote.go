package main

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
	"github.com/TsigelnikovNikita/mySwap/internal/units"
)

// runQuote prices one swap offline with the same math the pools use.
func runQuote(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	side, _ := flags.GetString("side")
	num, _ := flags.GetUint64("fee-numerator")
	den, _ := flags.GetUint64("fee-denominator")

	fee, err := cpmm.NewFee(num, den)
	if err != nil {
		return err
	}

	amounts := make(map[string]math.Int, 3)
	for _, name := range []string{"base-reserve", "token-reserve", "amount"} {
		s, _ := flags.GetString(name)
		v, err := units.ParseEther(s)
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		amounts[name] = v
	}

	base, token, in := amounts["base-reserve"], amounts["token-reserve"], amounts["amount"]
	var out math.Int
	switch side {
	case "base":
		out, err = cpmm.GetOutputAmount(in, base, token, fee)
	case "token":
		out, err = cpmm.GetOutputAmount(in, token, base, fee)
	default:
		return fmt.Errorf("--side must be base or token, got %q", side)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), units.FormatEther(out))
	return nil
}
