package router

import (
	"github.com/shopspring/decimal"

	"github.com/driftlabs/routeflow/internal/domain"
)

var (
	one     = decimal.New(1, 0)
	bpsUnit = decimal.New(10000, 0)
)

// defaultAmplification flattens stable-swap curves when the pool config
// leaves the coefficient unset.
var defaultAmplification = decimal.New(100, 0)

// hopOutcome is a single-pool simulation result. All values are floored at
// the amount scale; Fee is denominated in the hop's input token.
type hopOutcome struct {
	AmountIn  decimal.Decimal
	AmountOut decimal.Decimal
	Fee       decimal.Decimal
	ImpactBps uint16
}

// quotePool simulates trading amountIn of `in` through p: fee first, then
// the kind-specific depth curve on the post-fee amount. ok is false when the
// pool cannot absorb the trade (no liquidity, depth exhausted, or the curve
// degenerates) — never a fabricated output.
func quotePool(p *domain.Pool, in domain.Token, amountIn decimal.Decimal) (hopOutcome, bool) {
	if amountIn.Sign() <= 0 || !p.HasLiquidity() {
		return hopOutcome{}, false
	}

	fee := feeAmount(amountIn, p.FeeBps)
	inAfterFee := amountIn.Sub(fee)
	if inAfterFee.Sign() <= 0 {
		return hopOutcome{}, false
	}

	var out decimal.Decimal
	var ok bool
	switch p.Kind {
	case domain.PoolStableSwap:
		out, ok = stableSwapOut(p, in, inAfterFee)
	case domain.PoolOrderBook:
		out, ok = orderBookOut(p, in, inAfterFee)
	default:
		out, ok = constantProductOut(p, in, inAfterFee)
	}
	if !ok || out.Sign() <= 0 {
		return hopOutcome{}, false
	}

	spot := p.SpotPrice(in)
	if spot.Sign() <= 0 {
		return hopOutcome{}, false
	}
	effective := domain.DivFloor(out, inAfterFee)

	return hopOutcome{
		AmountIn:  amountIn,
		AmountOut: out,
		Fee:       fee,
		ImpactBps: impactBps(spot, effective),
	}, true
}

// quotePoolInverse returns the input of `in` required to obtain desiredOut
// from p. Rounding goes against the requester: the required input is only
// ever rounded up.
func quotePoolInverse(p *domain.Pool, in domain.Token, desiredOut decimal.Decimal) (decimal.Decimal, bool) {
	if desiredOut.Sign() <= 0 || !p.HasLiquidity() {
		return decimal.Zero, false
	}

	var inAfterFee decimal.Decimal
	var ok bool
	switch p.Kind {
	case domain.PoolStableSwap:
		inAfterFee, ok = stableSwapIn(p, in, desiredOut)
	case domain.PoolOrderBook:
		inAfterFee, ok = orderBookIn(p, in, desiredOut)
	default:
		inAfterFee, ok = constantProductIn(p, in, desiredOut)
	}
	if !ok || inAfterFee.Sign() <= 0 {
		return decimal.Zero, false
	}

	// Gross the fee back up: amountIn = inAfterFee * 10000 / (10000 - fee).
	feeFactor := bpsUnit.Sub(decimal.New(int64(p.FeeBps), 0))
	if feeFactor.Sign() <= 0 {
		return decimal.Zero, false
	}
	amountIn := domain.CeilAmount(inAfterFee.Mul(bpsUnit).DivRound(feeFactor, domain.AmountScale+6))

	// The ceil can undershoot after the forward fee floor; nudge until the
	// forward simulation covers the request.
	step := decimal.New(1, -domain.AmountScale)
	for i := 0; i < 4; i++ {
		outcome, fwdOK := quotePool(p, in, amountIn)
		if fwdOK && outcome.AmountOut.Cmp(desiredOut) >= 0 {
			return amountIn, true
		}
		amountIn = amountIn.Add(step)
	}
	outcome, fwdOK := quotePool(p, in, amountIn)
	if !fwdOK || outcome.AmountOut.Cmp(desiredOut) < 0 {
		return decimal.Zero, false
	}
	return amountIn, true
}

func feeAmount(amountIn decimal.Decimal, feeBps uint16) decimal.Decimal {
	if feeBps == 0 {
		return decimal.Zero
	}
	return domain.DivFloor(amountIn.Mul(decimal.New(int64(feeBps), 0)), bpsUnit)
}

// constantProductOut applies x*y=k: out = rOut*in / (rIn+in), floored.
func constantProductOut(p *domain.Pool, in domain.Token, inAfterFee decimal.Decimal) (decimal.Decimal, bool) {
	rIn, rOut := p.Reserves(in)
	if rIn.Sign() <= 0 || rOut.Sign() <= 0 {
		return decimal.Zero, false
	}
	out := domain.DivFloor(rOut.Mul(inAfterFee), rIn.Add(inAfterFee))
	if out.Cmp(rOut) >= 0 {
		return decimal.Zero, false
	}
	return out, true
}

// constantProductIn inverts the curve: in = rIn*out / (rOut-out), ceiled.
func constantProductIn(p *domain.Pool, in domain.Token, desiredOut decimal.Decimal) (decimal.Decimal, bool) {
	rIn, rOut := p.Reserves(in)
	if rIn.Sign() <= 0 || desiredOut.Cmp(rOut) >= 0 {
		return decimal.Zero, false
	}
	denom := rOut.Sub(desiredOut)
	return domain.CeilAmount(rIn.Mul(desiredOut).DivRound(denom, domain.AmountScale+6)), true
}

// stableSwapOut models an amplified flat curve trading 1:1 at zero size:
// out = in * (1 - in/(amp*rIn)). Deliberately simpler than a full invariant
// solve; monotonic, invertible, and depth-bounded, which is all the planner
// observes.
func stableSwapOut(p *domain.Pool, in domain.Token, inAfterFee decimal.Decimal) (decimal.Decimal, bool) {
	rIn, rOut := p.Reserves(in)
	amp := p.Amplification
	if amp.Sign() <= 0 {
		amp = defaultAmplification
	}
	depth := amp.Mul(rIn)
	if depth.Sign() <= 0 {
		return decimal.Zero, false
	}
	slip := domain.DivFloor(inAfterFee, depth)
	if slip.Cmp(one) >= 0 {
		return decimal.Zero, false
	}
	out := domain.MulFloor(inAfterFee, one.Sub(slip))
	if out.Cmp(rOut) >= 0 {
		return decimal.Zero, false
	}
	return out, true
}

// stableSwapIn inverts stableSwapOut by fixed-point iteration:
// x = out + x^2/(amp*rIn). Converges quickly for trades inside the curve.
func stableSwapIn(p *domain.Pool, in domain.Token, desiredOut decimal.Decimal) (decimal.Decimal, bool) {
	rIn, rOut := p.Reserves(in)
	if desiredOut.Cmp(rOut) >= 0 {
		return decimal.Zero, false
	}
	amp := p.Amplification
	if amp.Sign() <= 0 {
		amp = defaultAmplification
	}
	depth := amp.Mul(rIn)
	if depth.Sign() <= 0 {
		return decimal.Zero, false
	}

	x := desiredOut
	for i := 0; i < 12; i++ {
		x = desiredOut.Add(x.Mul(x).DivRound(depth, domain.AmountScale+6))
		if x.Cmp(depth) >= 0 {
			// Past the curve apex: no input produces this output.
			return decimal.Zero, false
		}
	}
	return domain.CeilAmount(x), true
}

// orderBookOut walks the depth ladder. For an A->B trade levels are taken
// as declared; B->A consumes the same ladder inverted.
func orderBookOut(p *domain.Pool, in domain.Token, inAfterFee decimal.Decimal) (decimal.Decimal, bool) {
	remaining := inAfterFee
	out := decimal.Zero

	for _, lvl := range p.Depth {
		if remaining.Sign() <= 0 {
			break
		}
		if in == p.TokenA {
			// Selling A: level absorbs up to Quantity of A at Price B/A.
			take := decimal.Min(remaining, lvl.Quantity)
			out = out.Add(domain.MulFloor(take, lvl.Price))
			remaining = remaining.Sub(take)
		} else {
			// Selling B: level offers Quantity of A costing Quantity*Price B.
			levelCost := lvl.Quantity.Mul(lvl.Price)
			take := decimal.Min(remaining, levelCost)
			out = out.Add(domain.DivFloor(take, lvl.Price))
			remaining = remaining.Sub(take)
		}
	}

	// Exceeding the entire ladder invalidates the trade, never a clamp.
	if remaining.Sign() > 0 {
		return decimal.Zero, false
	}
	return out, true
}

// orderBookIn walks the ladder backwards from the desired output.
func orderBookIn(p *domain.Pool, in domain.Token, desiredOut decimal.Decimal) (decimal.Decimal, bool) {
	needed := desiredOut
	inReq := decimal.Zero

	for _, lvl := range p.Depth {
		if needed.Sign() <= 0 {
			break
		}
		if in == p.TokenA {
			// Output is B; level yields up to Quantity*Price of B.
			levelOut := lvl.Quantity.Mul(lvl.Price)
			take := decimal.Min(needed, levelOut)
			inReq = inReq.Add(take.DivRound(lvl.Price, domain.AmountScale+6))
			needed = needed.Sub(take)
		} else {
			// Output is A; level yields up to Quantity of A at Price B each.
			take := decimal.Min(needed, lvl.Quantity)
			inReq = inReq.Add(take.Mul(lvl.Price))
			needed = needed.Sub(take)
		}
	}

	if needed.Sign() > 0 {
		return decimal.Zero, false
	}
	return domain.CeilAmount(inReq), true
}

// impactBps converts the spread between spot and effective price to basis
// points, floored, capped at 10000.
func impactBps(spot, effective decimal.Decimal) uint16 {
	if effective.Cmp(spot) >= 0 || spot.Sign() <= 0 {
		return 0
	}
	diff := spot.Sub(effective)
	bps := diff.Mul(bpsUnit).DivRound(spot, 8).IntPart()
	if bps < 0 {
		return 0
	}
	if bps > 10000 {
		return 10000
	}
	return uint16(bps)
}
