package router

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/routeflow/internal/domain"
)

func twoHopPath() domain.Path {
	ethUSDC := newCPPool("eth-usdc", "ETH", "USDC", "100", "315000", 30)
	usdcDAI := newCPPool("usdc-dai", "USDC", "DAI", "1000000", "998000", 4)
	return domain.Path{
		Chain: "ethereum",
		Hops: []domain.Hop{
			{Pool: ethUSDC, From: "ETH", To: "USDC"},
			{Pool: usdcDAI, From: "USDC", To: "DAI"},
		},
	}
}

func TestPriceSellChainsHopOutputs(t *testing.T) {
	pr := NewPricer(1500)

	route, ok := pr.PriceSell(twoHopPath(), decimal.New(1, 0))
	require.True(t, ok)
	require.Len(t, route.Hops, 2)

	// Each hop consumes exactly what the previous one produced.
	assert.True(t, route.Hops[1].AmountIn.Equal(route.Hops[0].AmountOut))
	assert.True(t, route.ExpectedOutput.Equal(route.Hops[1].AmountOut))
	assert.Equal(t, []domain.Token{"ETH", "USDC", "DAI"}, route.TokenPath)

	// Fees accumulate in destination terms and slippage compounds over hops.
	assert.True(t, route.Fees.Sign() > 0)
	assert.GreaterOrEqual(t, route.SlippageBps, route.Hops[0].ImpactBps)
}

func TestPriceSellSingleHopFeeInDestinationTerms(t *testing.T) {
	pool := newCPPool("eth-usdc", "ETH", "USDC", "100", "315000", 30)
	path := domain.Path{
		Chain: "ethereum",
		Hops:  []domain.Hop{{Pool: pool, From: "ETH", To: "USDC"}},
	}

	route, ok := NewPricer(1500).PriceSell(path, decimal.New(1, 0))
	require.True(t, ok)
	require.Len(t, route.Hops, 1)

	// 30 bps of 1 ETH is 0.003 ETH, which at the 3150 spot is 9.45 USDC.
	assert.True(t, route.Hops[0].Fee.Equal(decimal.RequireFromString("0.003")))
	assert.True(t, route.Fees.Equal(decimal.RequireFromString("9.45")))
}

func TestPriceSellEnforcesImpactCeiling(t *testing.T) {
	// A trade of 30 against 100 reserves moves the price well past 10%.
	strict := NewPricer(1000)
	_, ok := strict.PriceSell(twoHopPath(), decimal.New(30, 0))
	assert.False(t, ok)

	loose := NewPricer(9999)
	_, ok = loose.PriceSell(twoHopPath(), decimal.New(30, 0))
	assert.True(t, ok)
}

func TestPriceBuyInvertsToRequiredInput(t *testing.T) {
	pr := NewPricer(1500)
	desired := decimal.New(3000, 0)

	route, ok := pr.PriceBuy(twoHopPath(), desired)
	require.True(t, ok)

	// The reported economics are the forward simulation of the required
	// input, so they must cover the request.
	assert.True(t, route.ExpectedOutput.GreaterThanOrEqual(desired))
	assert.True(t, route.AmountIn.Sign() > 0)

	// Re-running the sell side on the derived input reproduces the route.
	replay, ok := pr.PriceSell(twoHopPath(), route.AmountIn)
	require.True(t, ok)
	assert.True(t, replay.ExpectedOutput.Equal(route.ExpectedOutput))
}

func TestPriceBuyFailsWhenDepthCannotCover(t *testing.T) {
	pr := NewPricer(10000)
	_, ok := pr.PriceBuy(twoHopPath(), decimal.New(998000, 0))
	assert.False(t, ok)
}

func TestPriceRejectsDegenerateInputs(t *testing.T) {
	pr := NewPricer(1500)

	_, ok := pr.PriceSell(domain.Path{}, decimal.New(1, 0))
	assert.False(t, ok)

	_, ok = pr.PriceSell(twoHopPath(), decimal.Zero)
	assert.False(t, ok)

	_, ok = pr.PriceBuy(twoHopPath(), decimal.New(-1, 0))
	assert.False(t, ok)
}

func TestExplainMirrorsRoute(t *testing.T) {
	pr := NewPricer(1500)
	route, ok := pr.PriceSell(twoHopPath(), decimal.New(1, 0))
	require.True(t, ok)

	exp := Explain(route)
	require.NotNil(t, exp)
	require.Len(t, exp.Hops, 2)

	assert.Equal(t, 1, exp.Hops[0].Step)
	assert.Equal(t, "eth-usdc", exp.Hops[0].PoolID)
	assert.Equal(t, "constant_product", exp.Hops[0].PoolKind)
	assert.True(t, exp.ExpectedOutput.Equal(route.ExpectedOutput))
	assert.Contains(t, exp.Summary, "ETH -> USDC -> DAI")

	assert.Nil(t, Explain(nil))
}

func TestClassifyImpact(t *testing.T) {
	assert.Equal(t, ImpactNegligible, ClassifyImpact(0))
	assert.Equal(t, ImpactLow, ClassifyImpact(10))
	assert.Equal(t, ImpactModerate, ClassifyImpact(50))
	assert.Equal(t, ImpactHigh, ClassifyImpact(150))
	assert.Equal(t, ImpactSevere, ClassifyImpact(500))
	assert.Empty(t, ImpactWarning(5))
	assert.NotEmpty(t, ImpactWarning(200))
}
