package router

import (
	"github.com/shopspring/decimal"

	"github.com/driftlabs/routeflow/internal/domain"
)

// Pricer simulates candidate paths hop-by-hop against the pinned snapshot.
// It is stateless and safe for concurrent use across pricing workers.
type Pricer struct {
	// maxImpactBps invalidates any hop whose price impact exceeds it.
	maxImpactBps uint16
}

func NewPricer(maxImpactBps uint16) *Pricer {
	return &Pricer{maxImpactBps: maxImpactBps}
}

// PriceSell simulates an exact-input trade along path. The second return is
// false when any hop cannot absorb the flow within the impact ceiling; an
// invalid path is excluded, never returned with a fabricated output.
func (pr *Pricer) PriceSell(path domain.Path, amountIn decimal.Decimal) (*domain.PricedRoute, bool) {
	if len(path.Hops) == 0 || amountIn.Sign() <= 0 {
		return nil, false
	}

	route := &domain.PricedRoute{
		Chain:     path.Chain,
		Hops:      make([]domain.HopQuote, 0, len(path.Hops)),
		TokenPath: path.Tokens(),
		AmountIn:  amountIn,
	}

	current := amountIn
	for _, hop := range path.Hops {
		outcome, ok := quotePool(hop.Pool, hop.From, current)
		if !ok || outcome.ImpactBps > pr.maxImpactBps {
			return nil, false
		}
		route.Hops = append(route.Hops, domain.HopQuote{
			Pool:      hop.Pool,
			PoolID:    hop.Pool.ID,
			Chain:     hop.Pool.Chain,
			From:      hop.From,
			To:        hop.To,
			AmountIn:  outcome.AmountIn,
			AmountOut: outcome.AmountOut,
			Fee:       outcome.Fee,
			FeeBps:    hop.Pool.FeeBps,
			ImpactBps: outcome.ImpactBps,
		})
		current = outcome.AmountOut
	}

	route.ExpectedOutput = current
	route.Fees = pr.feesInDestination(path, route.Hops)
	route.SlippageBps = compoundImpact(route.Hops)
	return route, true
}

// PriceBuy works backward from the desired output: each hop's pricing is
// inverted from destination to source to find the required input, then the
// forward economics are reported for display.
func (pr *Pricer) PriceBuy(path domain.Path, desiredOut decimal.Decimal) (*domain.PricedRoute, bool) {
	if len(path.Hops) == 0 || desiredOut.Sign() <= 0 {
		return nil, false
	}

	needed := desiredOut
	for i := len(path.Hops) - 1; i >= 0; i-- {
		hop := path.Hops[i]
		in, ok := quotePoolInverse(hop.Pool, hop.From, needed)
		if !ok {
			return nil, false
		}
		needed = in
	}

	return pr.PriceSell(path, needed)
}

// feesInDestination converts each hop's fee (taken in that hop's input
// token) into the destination token via the spot prices of the remaining
// hops, so the cumulative fee is a single comparable number.
func (pr *Pricer) feesInDestination(path domain.Path, hops []domain.HopQuote) decimal.Decimal {
	total := decimal.Zero
	for i, hq := range hops {
		converted := hq.Fee
		for j := i; j < len(path.Hops); j++ {
			spot := path.Hops[j].Pool.SpotPrice(path.Hops[j].From)
			converted = domain.MulFloor(converted, spot)
		}
		total = total.Add(converted)
	}
	return total
}

// compoundImpact folds per-hop impacts into one route-level slippage figure:
// 1 - prod(1 - impact_i).
func compoundImpact(hops []domain.HopQuote) uint16 {
	retention := one
	for _, hq := range hops {
		factor := one.Sub(domain.DivFloor(decimal.New(int64(hq.ImpactBps), 0), bpsUnit))
		retention = retention.Mul(factor)
	}
	loss := one.Sub(retention).Mul(bpsUnit).IntPart()
	if loss < 0 {
		return 0
	}
	if loss > 10000 {
		return 10000
	}
	return uint16(loss)
}
