package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side says whether Amount is an exact input (sell) or a desired output (buy).
type Side string

const (
	SideSell Side = "sell"
	SideBuy  Side = "buy"
)

// SwapRequest is one route-planning request. Chains are optional; when both
// are set they must match, cross-chain planning is not modeled.
type SwapRequest struct {
	FromToken Token
	ToToken   Token
	Amount    decimal.Decimal
	Side      Side
	FromChain Chain
	ToChain   Chain

	// Preview is echoed back to the caller; wallet-state checks done by the
	// transport layer are skipped when set. The planner itself ignores it.
	Preview bool
}

// Validate checks the request invariants and returns the specific violated
// constraint.
func (r *SwapRequest) Validate() error {
	if r.FromToken == "" {
		return fmt.Errorf("fromToken is required")
	}
	if r.ToToken == "" {
		return fmt.Errorf("toToken is required")
	}
	if r.FromToken == r.ToToken && r.chainsMatch() {
		return fmt.Errorf("fromToken and toToken must differ")
	}
	if r.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	switch r.Side {
	case SideSell, SideBuy:
	default:
		return fmt.Errorf("side must be %q or %q", SideSell, SideBuy)
	}
	if r.FromChain != "" && r.ToChain != "" && r.FromChain != r.ToChain {
		return fmt.Errorf("cross-chain routing is not supported: %s -> %s", r.FromChain, r.ToChain)
	}
	return nil
}

func (r *SwapRequest) chainsMatch() bool {
	return r.FromChain == "" || r.ToChain == "" || r.FromChain == r.ToChain
}

// ChainScope resolves the single chain the request is pinned to, or "" when
// any chain is allowed.
func (r *SwapRequest) ChainScope() Chain {
	if r.FromChain != "" {
		return r.FromChain
	}
	return r.ToChain
}
