package exchange

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
)

// guardKey marks a context as executing inside a given pool.
type guardKey struct{ pool *Pool }

type revision struct {
	j  Journaled
	id int
}

// run executes op as one atomic, non-reentrant unit. The outermost call of
// a chain takes the group lock; calls made into other pools of the group
// from a transfer hook join its transaction instead.
func (p *Pool) run(ctx context.Context, op func(ctx context.Context) error) error {
	if ctx.Value(guardKey{p}) != nil {
		return ErrReentrantCall
	}
	tx := p.group.current(ctx)
	outer := tx == nil
	if outer {
		p.group.mu.Lock()
		defer p.group.mu.Unlock()
		tx = &txn{}
		ctx = context.WithValue(ctx, txnKey{p.group}, tx)
	}
	ctx = context.WithValue(ctx, guardKey{p}, struct{}{})

	revs := p.snapshot()
	if outer {
		// Runs last when an enclosing revert undoes this transaction.
		p.group.journal.Append(tx.publish)
	}
	if err := op(ctx); err != nil {
		for i := len(revs) - 1; i >= 0; i-- {
			revs[i].j.RevertToSnapshot(revs[i].id)
		}
		return err
	}
	for i := len(revs) - 1; i >= 0; i-- {
		revs[i].j.DiscardSnapshot(revs[i].id)
	}
	tx.touched = append(tx.touched, p)
	if outer {
		tx.publish()
	}
	return nil
}

func (p *Pool) snapshot() []revision {
	revs := []revision{{j: p.ledger, id: p.ledger.Snapshot()}}
	for _, c := range []any{p.token, p.native} {
		if j, ok := c.(Journaled); ok {
			revs = append(revs, revision{j: j, id: j.Snapshot()})
		}
	}
	return revs
}

// AddLiquidity deposits baseAmountIn (already attached to the pool) with up
// to tokenAmountDesired tokens pulled from provider, and mints shares.
//
// The first deposit sets the price: both amounts are taken in full and
// baseAmountIn shares are minted. Later deposits take only the token amount
// the current ratio requires and mint shares pro rata to the base deposit.
func (p *Pool) AddLiquidity(ctx context.Context, provider common.Address, baseAmountIn, tokenAmountDesired math.Int) (math.Int, error) {
	if !baseAmountIn.IsPositive() || tokenAmountDesired.IsNegative() {
		return math.ZeroInt(), ErrZeroAmount
	}

	minted := math.ZeroInt()
	err := p.run(ctx, func(ctx context.Context) error {
		tokenIn := tokenAmountDesired
		shares := baseAmountIn

		if p.ledger.Empty() {
			if !tokenAmountDesired.IsPositive() {
				return ErrZeroAmount
			}
		} else {
			base, token := p.ledger.GetReserves()
			required, err := cpmm.RequiredTokenAmount(baseAmountIn, base, token)
			if err != nil {
				return err
			}
			if tokenAmountDesired.LT(required) {
				return fmt.Errorf("%w: required %s, offered %s", ErrInsufficientTokenAmount, required, tokenAmountDesired)
			}
			tokenIn = required

			shares, err = cpmm.SharesForDeposit(baseAmountIn, base, p.ledger.TotalShares())
			if err != nil {
				return err
			}
			if shares.IsZero() {
				return ErrZeroShares
			}
		}

		if err := p.ledger.CreditBase(baseAmountIn); err != nil {
			return err
		}
		if err := p.ledger.CreditToken(tokenIn); err != nil {
			return err
		}
		if err := p.ledger.MintShares(provider, shares); err != nil {
			return err
		}

		if tokenIn.IsPositive() {
			if err := p.token.TransferFrom(ctx, p.addr, provider, p.addr, tokenIn); err != nil {
				return err
			}
		}
		minted = shares
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}
	return minted, nil
}

// RemoveLiquidity burns shares and pays out the provider's pro-rata part of
// both reserves.
func (p *Pool) RemoveLiquidity(ctx context.Context, provider common.Address, shares math.Int) (baseOut, tokenOut math.Int, err error) {
	if !shares.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), fmt.Errorf("%w: must burn a positive amount", ErrInsufficientShares)
	}

	baseOut, tokenOut = math.ZeroInt(), math.ZeroInt()
	err = p.run(ctx, func(ctx context.Context) error {
		held := p.ledger.SharesOf(provider)
		if shares.GT(held) {
			return fmt.Errorf("%w: %s holds %s, burn %s", ErrInsufficientShares, provider.Hex(), held, shares)
		}

		base, token := p.ledger.GetReserves()
		b, t, err := cpmm.Redeem(shares, p.ledger.TotalShares(), base, token)
		if err != nil {
			return err
		}

		if err := p.ledger.BurnShares(provider, shares); err != nil {
			return err
		}
		if err := p.ledger.DebitBase(b); err != nil {
			return err
		}
		if err := p.ledger.DebitToken(t); err != nil {
			return err
		}

		if err := p.native.Send(ctx, p.addr, provider, b); err != nil {
			return err
		}
		if err := p.token.Transfer(ctx, p.addr, provider, t); err != nil {
			return err
		}
		baseOut, tokenOut = b, t
		return nil
	})
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	return baseOut, tokenOut, nil
}

// SwapBaseForToken sells baseAmountIn (already attached to the pool) for
// at least minTokenOut tokens.
func (p *Pool) SwapBaseForToken(ctx context.Context, trader common.Address, baseAmountIn, minTokenOut math.Int) (math.Int, error) {
	if !baseAmountIn.IsPositive() {
		return math.ZeroInt(), ErrZeroAmount
	}

	out := math.ZeroInt()
	err := p.run(ctx, func(ctx context.Context) error {
		base, token := p.ledger.GetReserves()
		quoted, err := p.mm.OutputAmount(baseAmountIn, base, token)
		if err != nil {
			return err
		}
		if quoted.LT(minTokenOut) {
			return fmt.Errorf("%w: would receive %s, minimum %s", ErrSlippageExceeded, quoted, minTokenOut)
		}

		if err := p.ledger.CreditBase(baseAmountIn); err != nil {
			return err
		}
		if err := p.ledger.DebitToken(quoted); err != nil {
			return err
		}

		if err := p.token.Transfer(ctx, p.addr, trader, quoted); err != nil {
			return err
		}
		out = quoted
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}
	return out, nil
}

// SwapTokenForBase pulls tokenAmountIn from trader and pays out at least
// minBaseOut base.
func (p *Pool) SwapTokenForBase(ctx context.Context, trader common.Address, tokenAmountIn, minBaseOut math.Int) (math.Int, error) {
	if !tokenAmountIn.IsPositive() {
		return math.ZeroInt(), ErrZeroAmount
	}

	out := math.ZeroInt()
	err := p.run(ctx, func(ctx context.Context) error {
		base, token := p.ledger.GetReserves()
		quoted, err := p.mm.OutputAmount(tokenAmountIn, token, base)
		if err != nil {
			return err
		}
		if quoted.LT(minBaseOut) {
			return fmt.Errorf("%w: would receive %s, minimum %s", ErrSlippageExceeded, quoted, minBaseOut)
		}

		if err := p.ledger.CreditToken(tokenAmountIn); err != nil {
			return err
		}
		if err := p.ledger.DebitBase(quoted); err != nil {
			return err
		}

		if err := p.token.TransferFrom(ctx, p.addr, trader, p.addr, tokenAmountIn); err != nil {
			return err
		}
		if err := p.native.Send(ctx, p.addr, trader, quoted); err != nil {
			return err
		}
		out = quoted
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}
	return out, nil
}

// TransferShares moves shares between providers. Reserves and the total
// supply are unchanged.
func (p *Pool) TransferShares(ctx context.Context, from, to common.Address, shares math.Int) error {
	if !shares.IsPositive() {
		return fmt.Errorf("%w: must transfer a positive amount", ErrInsufficientShares)
	}
	return p.run(ctx, func(context.Context) error {
		return p.ledger.TransferShares(from, to, shares)
	})
}
