package liquidity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/routeflow/internal/common"
	"github.com/driftlabs/routeflow/internal/domain"
	"github.com/driftlabs/routeflow/internal/metrics"
)

type stubSource struct {
	name string
	data SourceData
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context) (SourceData, error) {
	return s.data, s.err
}

func testPool(id string, chain domain.Chain, a, b domain.Token, reserveA, reserveB string) *domain.Pool {
	return &domain.Pool{
		ID:        id,
		Chain:     chain,
		Kind:      domain.PoolConstantProduct,
		TokenA:    a,
		TokenB:    b,
		ReserveA:  decimal.RequireFromString(reserveA),
		ReserveB:  decimal.RequireFromString(reserveB),
		FeeBps:    30,
		UpdatedAt: time.Now(),
	}
}

func TestReloadMergesSources(t *testing.T) {
	store := NewStore(
		&stubSource{name: "a", data: SourceData{
			Pools: []*domain.Pool{
				testPool("eth-usdc", "ethereum", "ETH", "USDC", "100", "315000"),
			},
		}},
		&stubSource{name: "b", data: SourceData{
			Pools: []*domain.Pool{
				testPool("usdc-dai", "ethereum", "USDC", "DAI", "1000", "1000"),
			},
			Prices: []SpotPrice{
				{Base: "ETH", Quote: "USDC", Price: decimal.RequireFromString("3150")},
			},
		}},
	)

	require.NoError(t, store.Reload(context.Background()))

	snap := store.Current()
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, 2, snap.PoolCount())
	assert.Equal(t, []domain.Chain{"ethereum"}, snap.Chains())

	price, ok := snap.SpotPrice("ETH", "USDC")
	require.True(t, ok)
	assert.Equal(t, "3150", price.String())

	// Inverted lookup derives from the same observation.
	inv, ok := snap.SpotPrice("USDC", "ETH")
	require.True(t, ok)
	assert.True(t, inv.LessThan(decimal.New(1, 0)))
}

func TestReloadSurvivesPartialSourceFailure(t *testing.T) {
	healthy := &stubSource{name: "healthy", data: SourceData{
		Pools: []*domain.Pool{
			testPool("eth-usdc", "ethereum", "ETH", "USDC", "100", "315000"),
		},
	}}
	broken := &stubSource{name: "broken", err: context.DeadlineExceeded}

	store := NewStore(healthy, broken)
	require.NoError(t, store.Reload(context.Background()))

	snap := store.Current()
	assert.Equal(t, 1, snap.PoolCount())
	assert.Equal(t, uint64(1), snap.Version)
}

func TestReloadKeepsPreviousSnapshotWhenAllSourcesFail(t *testing.T) {
	src := &stubSource{name: "flaky", data: SourceData{
		Pools: []*domain.Pool{
			testPool("eth-usdc", "ethereum", "ETH", "USDC", "100", "315000"),
		},
	}}
	store := NewStore(src)
	require.NoError(t, store.Reload(context.Background()))
	before := store.Current()

	src.err = context.DeadlineExceeded
	err := store.Reload(context.Background())
	assert.ErrorIs(t, err, common.ErrSourceUnavailable)

	// The active snapshot is untouched: same pointer, same version.
	assert.Same(t, before, store.Current())
	assert.Equal(t, uint64(1), store.Current().Version)
}

func TestReloadDropsInvalidPoolsAndDedupsByID(t *testing.T) {
	stale := testPool("eth-usdc", "ethereum", "ETH", "USDC", "50", "160000")
	fresh := testPool("eth-usdc", "ethereum", "ETH", "USDC", "100", "315000")
	invalid := testPool("bad", "ethereum", "ETH", "ETH", "1", "1")

	snap := NewSnapshot(1, SourceData{Pools: []*domain.Pool{stale, invalid, fresh}})

	pools := snap.ChainPools("ethereum")
	require.Len(t, pools, 1)
	assert.True(t, pools[0].ReserveA.Equal(fresh.ReserveA), "later source should win on duplicate IDs")
}

func TestSnapshotDedupFollowsRelocatedPool(t *testing.T) {
	stale := testPool("eth-usdc", "ethereum", "ETH", "USDC", "50", "160000")
	moved := testPool("eth-usdc", "base", "ETH", "USDC", "100", "315000")
	oldPair := testPool("usdc-dai", "ethereum", "USDC", "DAI", "1000", "1000")
	newPair := testPool("usdc-dai", "ethereum", "USDC", "USDT", "2000", "2000")

	snap := NewSnapshot(1, SourceData{Pools: []*domain.Pool{stale, oldPair, moved, newPair}})

	// A replacement that changed chains leaves nothing behind on the old one.
	require.Len(t, snap.ChainPools("base"), 1)
	_, ok := snap.MarketDepth("ethereum", "ETH", "USDC")
	assert.False(t, ok)
	pool, ok := snap.MarketDepth("base", "ETH", "USDC")
	require.True(t, ok)
	assert.True(t, pool.ReserveA.Equal(moved.ReserveA))

	// Same for a replacement that changed its token pair.
	assert.Empty(t, snap.PairPools("ethereum", "USDC", "DAI"))
	require.Len(t, snap.PairPools("ethereum", "USDC", "USDT"), 1)
}

func TestReloadZeroesPoolCountForVanishedChains(t *testing.T) {
	src := &stubSource{name: "a", data: SourceData{Pools: []*domain.Pool{
		testPool("eth-usdc", "ethereum", "ETH", "USDC", "100", "315000"),
	}}}
	store := NewStore(src)
	require.NoError(t, store.Reload(context.Background()))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PoolCount.WithLabelValues("ethereum")))

	src.data = SourceData{Pools: []*domain.Pool{
		testPool("base-eth-usdc", "base", "ETH", "USDC", "100", "315000"),
	}}
	require.NoError(t, store.Reload(context.Background()))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.PoolCount.WithLabelValues("ethereum")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PoolCount.WithLabelValues("base")))
}

func TestMarketDepthPicksDeepestPool(t *testing.T) {
	shallow := testPool("a-shallow", "ethereum", "ETH", "USDC", "10", "31500")
	deep := testPool("b-deep", "ethereum", "ETH", "USDC", "100", "315000")

	snap := NewSnapshot(1, SourceData{Pools: []*domain.Pool{shallow, deep}})

	pool, ok := snap.MarketDepth("ethereum", "ETH", "USDC")
	require.True(t, ok)
	assert.Equal(t, "b-deep", pool.ID)

	// Token order in the query must not matter.
	same, ok := snap.MarketDepth("ethereum", "USDC", "ETH")
	require.True(t, ok)
	assert.Equal(t, pool.ID, same.ID)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liquidity.yaml")
	doc := `
chains:
  - chain: ethereum
    pools:
      - id: eth-usdc
        kind: constant_product
        tokenA: ETH
        tokenB: USDC
        reserveA: "100"
        reserveB: "315000"
        feeBps: 30
      - id: wbtc-usdc-ob
        kind: order_book
        tokenA: WBTC
        tokenB: USDC
        feeBps: 10
        depth:
          - price: "64200"
            quantity: "2"
prices:
  - base: ETH
    quote: USDC
    price: "3150"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	data, err := NewFileSource(path).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Pools, 2)
	require.Len(t, data.Prices, 1)

	assert.Equal(t, domain.PoolConstantProduct, data.Pools[0].Kind)
	assert.Equal(t, domain.PoolOrderBook, data.Pools[1].Kind)
	assert.Equal(t, uint16(10), data.Pools[1].FeeBps)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileSourceRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liquidity.yaml")
	doc := `
chains:
  - chain: ethereum
    pools:
      - id: p1
        kind: concentrated
        tokenA: ETH
        tokenB: USDC
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := NewFileSource(path).Fetch(context.Background())
	assert.ErrorContains(t, err, "unknown pool kind")
}
