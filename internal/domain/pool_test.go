package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cpPool(id string, reserveA, reserveB string, feeBps uint16) *Pool {
	return &Pool{
		ID:        id,
		Chain:     "ethereum",
		Kind:      PoolConstantProduct,
		TokenA:    "ETH",
		TokenB:    "USDC",
		ReserveA:  decimal.RequireFromString(reserveA),
		ReserveB:  decimal.RequireFromString(reserveB),
		FeeBps:    feeBps,
		UpdatedAt: time.Now(),
	}
}

func TestPoolReservesOrientation(t *testing.T) {
	p := cpPool("p1", "100", "315000", 30)

	rIn, rOut := p.Reserves("ETH")
	assert.True(t, rIn.Equal(p.ReserveA))
	assert.True(t, rOut.Equal(p.ReserveB))

	rIn, rOut = p.Reserves("USDC")
	assert.True(t, rIn.Equal(p.ReserveB))
	assert.True(t, rOut.Equal(p.ReserveA))
}

func TestPoolSpotPrice(t *testing.T) {
	p := cpPool("p1", "100", "315000", 30)

	// Selling ETH: 315000/100 = 3150 USDC per ETH.
	assert.Equal(t, "3150", p.SpotPrice("ETH").String())

	// Order book spot is the best level.
	ob := &Pool{
		ID: "ob1", Chain: "ethereum", Kind: PoolOrderBook,
		TokenA: "WBTC", TokenB: "USDC", FeeBps: 10,
		Depth: []DepthLevel{
			{Price: decimal.RequireFromString("64200"), Quantity: decimal.NewFromInt(2)},
			{Price: decimal.RequireFromString("64500"), Quantity: decimal.NewFromInt(5)},
		},
		UpdatedAt: time.Now(),
	}
	assert.Equal(t, "64200", ob.SpotPrice("WBTC").String())
}

func TestPoolValidate(t *testing.T) {
	require.NoError(t, cpPool("ok", "1", "1", 30).Validate())

	bad := cpPool("fee", "1", "1", 10000)
	assert.Error(t, bad.Validate())

	neg := cpPool("neg", "1", "1", 30)
	neg.ReserveA = decimal.NewFromInt(-1)
	assert.Error(t, neg.Validate())

	noID := cpPool("", "1", "1", 30)
	assert.Error(t, noID.Validate())
}

func TestSwapRequestValidate(t *testing.T) {
	base := func() *SwapRequest {
		return &SwapRequest{
			FromToken: "ETH",
			ToToken:   "USDC",
			Amount:    decimal.NewFromInt(1),
			Side:      SideSell,
		}
	}

	require.NoError(t, base().Validate())

	sameToken := base()
	sameToken.ToToken = "ETH"
	assert.Error(t, sameToken.Validate())

	zero := base()
	zero.Amount = decimal.Zero
	assert.Error(t, zero.Validate())

	badSide := base()
	badSide.Side = "short"
	assert.Error(t, badSide.Validate())

	crossChain := base()
	crossChain.FromChain = "ethereum"
	crossChain.ToChain = "base"
	assert.ErrorContains(t, crossChain.Validate(), "cross-chain")

	// Pinning only one side is allowed.
	pinned := base()
	pinned.FromChain = "ethereum"
	require.NoError(t, pinned.Validate())
	assert.Equal(t, Chain("ethereum"), pinned.ChainScope())
}
