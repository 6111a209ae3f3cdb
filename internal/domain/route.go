package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hop is one traversal of a single pool within a candidate path.
type Hop struct {
	Pool *Pool
	From Token
	To   Token
}

// Path is an unpriced candidate: an ordered hop sequence on one chain where
// hop i's output token is hop i+1's input token and no token repeats.
type Path struct {
	Chain Chain
	Hops  []Hop
}

// Tokens returns the full token sequence, source first.
func (p Path) Tokens() []Token {
	if len(p.Hops) == 0 {
		return nil
	}
	out := make([]Token, 0, len(p.Hops)+1)
	out = append(out, p.Hops[0].From)
	for _, h := range p.Hops {
		out = append(out, h.To)
	}
	return out
}

// HopQuote is the priced economics of one hop.
type HopQuote struct {
	Pool      *Pool           `json:"-"`
	PoolID    string          `json:"poolId"`
	Chain     Chain           `json:"chain"`
	From      Token           `json:"from"`
	To        Token           `json:"to"`
	AmountIn  decimal.Decimal `json:"amountIn"`
	AmountOut decimal.Decimal `json:"amountOut"`
	Fee       decimal.Decimal `json:"fee"`
	FeeBps    uint16          `json:"feeBps"`
	ImpactBps uint16          `json:"priceImpactBps"`
}

// PricedRoute is a candidate path with simulated economics. ExpectedOutput
// is the final hop's output for sell-side requests; for buy-side requests it
// is the forward-simulated output for the inverted required input.
type PricedRoute struct {
	Chain          Chain           `json:"chain"`
	Hops           []HopQuote      `json:"hops"`
	TokenPath      []Token         `json:"tokenPath"`
	AmountIn       decimal.Decimal `json:"amountIn"`
	ExpectedOutput decimal.Decimal `json:"expectedOutput"`
	Fees           decimal.Decimal `json:"fees"`
	SlippageBps    uint16          `json:"slippageBps"`

	// SearchOrder is the deterministic discovery index from the path search,
	// used as the final ranking tie-break.
	SearchOrder int `json:"-"`
}

// HopCount returns the number of pools traversed.
func (r *PricedRoute) HopCount() int { return len(r.Hops) }

// RouteResult is the terminal success outcome of one planning request.
type RouteResult struct {
	PlanID           string         `json:"planId"`
	Best             *PricedRoute   `json:"bestRoute"`
	Alternatives     []*PricedRoute `json:"alternativeRoutes"`
	TotalRoutesFound int            `json:"totalRoutesFound"`

	// Partial is set when the plan deadline expired before every candidate
	// was priced; the ranking covers completed candidates only.
	Partial bool `json:"partial"`

	SnapshotVersion uint64    `json:"snapshotVersion"`
	Timestamp       time.Time `json:"timestamp"`
}
