package router

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/routeflow/internal/domain"
)

func newCPPool(id string, a, b domain.Token, reserveA, reserveB string, feeBps uint16) *domain.Pool {
	return &domain.Pool{
		ID:        id,
		Chain:     "ethereum",
		Kind:      domain.PoolConstantProduct,
		TokenA:    a,
		TokenB:    b,
		ReserveA:  decimal.RequireFromString(reserveA),
		ReserveB:  decimal.RequireFromString(reserveB),
		FeeBps:    feeBps,
		UpdatedAt: time.Now(),
	}
}

func newOrderBookPool(id string, a, b domain.Token, feeBps uint16, levels ...[2]string) *domain.Pool {
	p := &domain.Pool{
		ID:        id,
		Chain:     "ethereum",
		Kind:      domain.PoolOrderBook,
		TokenA:    a,
		TokenB:    b,
		FeeBps:    feeBps,
		UpdatedAt: time.Now(),
	}
	for _, lvl := range levels {
		p.Depth = append(p.Depth, domain.DepthLevel{
			Price:    decimal.RequireFromString(lvl[0]),
			Quantity: decimal.RequireFromString(lvl[1]),
		})
	}
	return p
}

func TestConstantProductQuote(t *testing.T) {
	p := newCPPool("p", "ETH", "USDC", "100", "315000", 0)

	outcome, ok := quotePool(p, "ETH", decimal.New(1, 0))
	require.True(t, ok)

	// 315000 * 1 / 101 = 3118.8118..., floored at the amount scale.
	assert.Equal(t, "3118.811881188118811881", outcome.AmountOut.StringFixed(domain.AmountScale))
	assert.True(t, outcome.Fee.IsZero())

	// Spot is 3150; the effective price lags by ~99 bps.
	assert.Equal(t, uint16(99), outcome.ImpactBps)
}

func TestQuoteTakesFeeBeforeCurve(t *testing.T) {
	p := newCPPool("p", "ETH", "USDC", "100", "315000", 30)

	outcome, ok := quotePool(p, "ETH", decimal.New(1, 0))
	require.True(t, ok)
	assert.Equal(t, "0.003", outcome.Fee.String())

	// Output must be strictly below the zero-fee quote.
	zeroFee, ok := quotePool(newCPPool("p0", "ETH", "USDC", "100", "315000", 0), "ETH", decimal.New(1, 0))
	require.True(t, ok)
	assert.True(t, outcome.AmountOut.LessThan(zeroFee.AmountOut))
}

func TestQuoteOutputMonotonicInInput(t *testing.T) {
	p := newCPPool("p", "ETH", "USDC", "100", "315000", 30)

	prev := decimal.Zero
	for _, in := range []string{"0.1", "1", "5", "20", "50"} {
		outcome, ok := quotePool(p, "ETH", decimal.RequireFromString(in))
		require.True(t, ok, "input %s", in)
		assert.True(t, outcome.AmountOut.GreaterThan(prev), "output must grow with input")
		prev = outcome.AmountOut
	}
}

func TestQuoteImpactGrowsWithSize(t *testing.T) {
	p := newCPPool("p", "ETH", "USDC", "100", "315000", 0)

	small, ok := quotePool(p, "ETH", decimal.RequireFromString("0.1"))
	require.True(t, ok)
	large, ok := quotePool(p, "ETH", decimal.RequireFromString("10"))
	require.True(t, ok)
	assert.Less(t, small.ImpactBps, large.ImpactBps)
}

func TestQuoteRejectsEmptyPool(t *testing.T) {
	p := newCPPool("p", "ETH", "USDC", "0", "0", 30)
	_, ok := quotePool(p, "ETH", decimal.New(1, 0))
	assert.False(t, ok)
}

func TestConstantProductInverseCoversDesiredOutput(t *testing.T) {
	p := newCPPool("p", "ETH", "USDC", "100", "315000", 30)
	desired := decimal.RequireFromString("3000")

	in, ok := quotePoolInverse(p, "ETH", desired)
	require.True(t, ok)

	outcome, ok := quotePool(p, "ETH", in)
	require.True(t, ok)
	assert.True(t, outcome.AmountOut.GreaterThanOrEqual(desired),
		"forward simulation of the inverted input must cover the request")

	// The inversion is tight: one scale step less must undershoot.
	step := decimal.New(1, -domain.AmountScale)
	lower, ok := quotePool(p, "ETH", in.Sub(step).Sub(step).Sub(step).Sub(step).Sub(step))
	if ok {
		assert.True(t, lower.AmountOut.LessThan(desired))
	}
}

func TestInverseRejectsOutputBeyondReserves(t *testing.T) {
	p := newCPPool("p", "ETH", "USDC", "100", "315000", 0)
	_, ok := quotePoolInverse(p, "ETH", decimal.RequireFromString("315000"))
	assert.False(t, ok)
}

func TestOrderBookLadderWalk(t *testing.T) {
	p := newOrderBookPool("ob", "WBTC", "USDC", 0,
		[2]string{"64200", "1.5"},
		[2]string{"64350", "4"},
	)

	// 2 WBTC: 1.5 at the best level, 0.5 at the next.
	outcome, ok := quotePool(p, "WBTC", decimal.New(2, 0))
	require.True(t, ok)
	assert.Equal(t, "128475", outcome.AmountOut.String())

	// Depth exhaustion invalidates the trade, it is never clamped.
	_, ok = quotePool(p, "WBTC", decimal.New(6, 0))
	assert.False(t, ok)
}

func TestOrderBookInverse(t *testing.T) {
	p := newOrderBookPool("ob", "WBTC", "USDC", 0,
		[2]string{"64200", "1.5"},
		[2]string{"64350", "4"},
	)

	in, ok := quotePoolInverse(p, "WBTC", decimal.RequireFromString("128475"))
	require.True(t, ok)
	assert.Equal(t, "2", in.String())

	// More output than the whole ladder offers is invalid.
	_, ok = quotePoolInverse(p, "WBTC", decimal.RequireFromString("1000000"))
	assert.False(t, ok)
}

func TestOrderBookInvertedSide(t *testing.T) {
	p := newOrderBookPool("ob", "WBTC", "USDC", 0, [2]string{"64200", "2"})

	// Selling USDC consumes the same ladder inverted.
	outcome, ok := quotePool(p, "USDC", decimal.RequireFromString("64200"))
	require.True(t, ok)
	assert.Equal(t, "1", outcome.AmountOut.String())
}

func TestStableSwapTradesNearParity(t *testing.T) {
	p := &domain.Pool{
		ID: "ss", Chain: "ethereum", Kind: domain.PoolStableSwap,
		TokenA: "USDC", TokenB: "DAI",
		ReserveA: decimal.New(1_000_000, 0), ReserveB: decimal.New(1_000_000, 0),
		Amplification: decimal.New(200, 0),
		UpdatedAt:     time.Now(),
	}

	outcome, ok := quotePool(p, "USDC", decimal.New(1000, 0))
	require.True(t, ok)
	assert.True(t, outcome.AmountOut.LessThan(decimal.New(1000, 0)))
	assert.True(t, outcome.AmountOut.GreaterThan(decimal.New(999, 0)))
	assert.Less(t, outcome.ImpactBps, uint16(10))

	in, ok := quotePoolInverse(p, "USDC", decimal.New(1000, 0))
	require.True(t, ok)
	fwd, ok := quotePool(p, "USDC", in)
	require.True(t, ok)
	assert.True(t, fwd.AmountOut.GreaterThanOrEqual(decimal.New(1000, 0)))
}

func TestImpactBps(t *testing.T) {
	spot := decimal.New(100, 0)

	assert.Equal(t, uint16(0), impactBps(spot, decimal.New(100, 0)))
	assert.Equal(t, uint16(0), impactBps(spot, decimal.New(105, 0)))
	assert.Equal(t, uint16(100), impactBps(spot, decimal.New(99, 0)))
	assert.Equal(t, uint16(10000), impactBps(spot, decimal.Zero))
}
