package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Chain identifies the network a pool lives on, e.g. "ethereum", "arbitrum".
type Chain string

// Token is a token symbol scoped to a chain, e.g. "ETH", "USDC".
type Token string

type PoolKind uint8

const (
	PoolConstantProduct PoolKind = iota
	PoolStableSwap
	PoolOrderBook
)

func (k PoolKind) String() string {
	switch k {
	case PoolConstantProduct:
		return "constant_product"
	case PoolStableSwap:
		return "stable_swap"
	case PoolOrderBook:
		return "order_book"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the kind as its string name.
func (k PoolKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// DepthLevel is one rung of an order-book depth curve: Quantity of the base
// token available at Price (quote per base). Levels are kept best-first.
type DepthLevel struct {
	Price    decimal.Decimal `json:"price" yaml:"price"`
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
}

// Pool is a single tradable pair on one chain. Pools are immutable once a
// snapshot is published; a reload replaces them wholesale.
type Pool struct {
	ID     string   `json:"id" yaml:"id"`
	Chain  Chain    `json:"chain" yaml:"chain"`
	Kind   PoolKind `json:"kind" yaml:"-"`
	TokenA Token    `json:"tokenA" yaml:"tokenA"`
	TokenB Token    `json:"tokenB" yaml:"tokenB"`

	ReserveA decimal.Decimal `json:"reserveA" yaml:"reserveA"`
	ReserveB decimal.Decimal `json:"reserveB" yaml:"reserveB"`

	// Amplification flattens the stable-swap curve; ignored for other kinds.
	Amplification decimal.Decimal `json:"amplification,omitempty" yaml:"amplification"`

	// Depth is the sell-A-for-B ladder for order-book pools, best price
	// first. The B->A direction is derived by inverting each level.
	Depth []DepthLevel `json:"depth,omitempty" yaml:"depth"`

	FeeBps    uint16    `json:"feeBps" yaml:"feeBps"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}

// HasToken reports whether t is one side of the pair.
func (p *Pool) HasToken(t Token) bool {
	return p.TokenA == t || p.TokenB == t
}

// Counterpart returns the opposite token of the pair.
func (p *Pool) Counterpart(t Token) (Token, bool) {
	switch t {
	case p.TokenA:
		return p.TokenB, true
	case p.TokenB:
		return p.TokenA, true
	default:
		return "", false
	}
}

// Reserves returns (reserveIn, reserveOut) for a trade entering with `in`.
func (p *Pool) Reserves(in Token) (decimal.Decimal, decimal.Decimal) {
	if in == p.TokenA {
		return p.ReserveA, p.ReserveB
	}
	return p.ReserveB, p.ReserveA
}

// HasLiquidity reports whether the pool can absorb any trade at all.
func (p *Pool) HasLiquidity() bool {
	if p.Kind == PoolOrderBook {
		return len(p.Depth) > 0
	}
	return p.ReserveA.Sign() > 0 && p.ReserveB.Sign() > 0
}

// SpotPrice returns the zero-size price of `in` denominated in the opposite
// token, before fees. Zero when the pool holds no liquidity.
func (p *Pool) SpotPrice(in Token) decimal.Decimal {
	switch p.Kind {
	case PoolOrderBook:
		if len(p.Depth) == 0 {
			return decimal.Zero
		}
		best := p.Depth[0].Price
		if in == p.TokenA {
			return best
		}
		if best.Sign() <= 0 {
			return decimal.Zero
		}
		return DivFloor(decimal.New(1, 0), best)
	case PoolStableSwap:
		// Stable pairs trade 1:1 at zero size.
		return decimal.New(1, 0)
	default:
		rIn, rOut := p.Reserves(in)
		if rIn.Sign() <= 0 {
			return decimal.Zero
		}
		return DivFloor(rOut, rIn)
	}
}

// Validate enforces the pool invariants checked at snapshot load time.
func (p *Pool) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pool has no id")
	}
	if p.Chain == "" {
		return fmt.Errorf("pool %s: chain is empty", p.ID)
	}
	if p.TokenA == "" || p.TokenB == "" || p.TokenA == p.TokenB {
		return fmt.Errorf("pool %s: invalid token pair %q/%q", p.ID, p.TokenA, p.TokenB)
	}
	if p.FeeBps >= 10000 {
		return fmt.Errorf("pool %s: fee %d bps out of range", p.ID, p.FeeBps)
	}
	if p.ReserveA.Sign() < 0 || p.ReserveB.Sign() < 0 {
		return fmt.Errorf("pool %s: negative reserves", p.ID)
	}
	for i, lvl := range p.Depth {
		if lvl.Price.Sign() <= 0 || lvl.Quantity.Sign() <= 0 {
			return fmt.Errorf("pool %s: depth level %d is not positive", p.ID, i)
		}
	}
	return nil
}
