package liquidity

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/driftlabs/routeflow/internal/common"
	"github.com/driftlabs/routeflow/internal/config"
	"github.com/driftlabs/routeflow/internal/domain"
	"github.com/driftlabs/routeflow/internal/metrics"
)

const LIQUIDITY_SERVICE = "liquidity.Store"

type pairKey struct {
	base  domain.Token
	quote domain.Token
}

type poolPairKey struct {
	chain domain.Chain
	a     domain.Token
	b     domain.Token
}

func makePoolPairKey(chain domain.Chain, t0, t1 domain.Token) poolPairKey {
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	return poolPairKey{chain: chain, a: t0, b: t1}
}

// Snapshot is an immutable, versioned view of all pool and price data.
// Requests pin the snapshot they started with; a reload never mutates one.
type Snapshot struct {
	Version  uint64
	LoadedAt time.Time

	poolsByChain map[domain.Chain][]*domain.Pool
	pairPools    map[poolPairKey][]*domain.Pool
	prices       map[pairKey]decimal.Decimal
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		LoadedAt:     time.Now(),
		poolsByChain: map[domain.Chain][]*domain.Pool{},
		pairPools:    map[poolPairKey][]*domain.Pool{},
		prices:       map[pairKey]decimal.Decimal{},
	}
}

// Age returns how long ago the snapshot was published.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.LoadedAt)
}

// Chains returns all chains present, sorted.
func (s *Snapshot) Chains() []domain.Chain {
	out := make([]domain.Chain, 0, len(s.poolsByChain))
	for c := range s.poolsByChain {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ChainPools returns all pools for a chain, sorted by pool ID. Unknown
// chains yield an empty slice, never an error.
func (s *Snapshot) ChainPools(chain domain.Chain) []*domain.Pool {
	return s.poolsByChain[chain]
}

// PairPools returns the pools directly connecting two tokens on a chain,
// sorted by pool ID.
func (s *Snapshot) PairPools(chain domain.Chain, t0, t1 domain.Token) []*domain.Pool {
	return s.pairPools[makePoolPairKey(chain, t0, t1)]
}

// PoolCount returns the total pool count across chains.
func (s *Snapshot) PoolCount() int {
	n := 0
	for _, pools := range s.poolsByChain {
		n += len(pools)
	}
	return n
}

// SpotPrice returns the best-known price of base denominated in quote.
// Resolution order: direct source price, inverted source price, then the
// deepest pool trading the pair (scanning chains in sorted order). The
// second return is false when nothing covers the pair.
func (s *Snapshot) SpotPrice(base, quote domain.Token) (decimal.Decimal, bool) {
	if p, ok := s.prices[pairKey{base, quote}]; ok {
		return p, true
	}
	if p, ok := s.prices[pairKey{quote, base}]; ok && p.Sign() > 0 {
		return domain.DivFloor(decimal.New(1, 0), p), true
	}
	for _, chain := range s.Chains() {
		if pool, ok := s.MarketDepth(chain, base, quote); ok {
			price := pool.SpotPrice(base)
			if price.Sign() > 0 {
				return price, true
			}
		}
	}
	return decimal.Zero, false
}

// MarketDepth returns the depth descriptor (the pool itself) for a pair on
// a chain. With several pools for the pair the deepest one wins, ties broken
// by pool ID.
func (s *Snapshot) MarketDepth(chain domain.Chain, t0, t1 domain.Token) (*domain.Pool, bool) {
	pools := s.pairPools[makePoolPairKey(chain, t0, t1)]
	if len(pools) == 0 {
		return nil, false
	}
	best := pools[0]
	bestDepth := poolDepthScore(best)
	for _, p := range pools[1:] {
		if d := poolDepthScore(p); d.GreaterThan(bestDepth) {
			best, bestDepth = p, d
		}
	}
	return best, true
}

func poolDepthScore(p *domain.Pool) decimal.Decimal {
	if p.Kind == domain.PoolOrderBook {
		total := decimal.Zero
		for _, lvl := range p.Depth {
			total = total.Add(lvl.Quantity)
		}
		return total
	}
	return p.ReserveA.Add(p.ReserveB)
}

// Store owns the active snapshot. Reads are lock-free via an atomic pointer;
// Reload is the single writer and swaps the snapshot wholesale, so readers
// that grabbed the previous version keep a consistent view until they drop it.
type Store struct {
	mu sync.Mutex // serializes reloads

	snapshot atomic.Value // *Snapshot
	version  atomic.Uint64

	sources []Source
	conf    *config.LiquidityConfig

	stopRefresher chan struct{}
	refresherOnce sync.Once
}

// NewStore builds a store over explicit sources. The active snapshot starts
// empty until the first Reload.
func NewStore(sources ...Source) *Store {
	s := &Store{sources: sources, stopRefresher: make(chan struct{})}
	s.snapshot.Store(emptySnapshot())
	return s
}

func (s *Store) ID() string {
	return LIQUIDITY_SERVICE
}

func (s *Store) Configure(c container.IContainer) error {
	s.conf = c.GetConfig(config.LIQUIDITY_CONFIG_KEY).(*config.LiquidityConfig)

	s.sources = []Source{NewFileSource(s.conf.SourcesPath)}
	for _, url := range s.conf.FeedURLs {
		s.sources = append(s.sources, NewFeedSource(url, s.conf.FeedTimeout))
	}

	s.stopRefresher = make(chan struct{})
	s.snapshot.Store(emptySnapshot())
	return nil
}

func (s *Store) Start() error {
	if err := s.Reload(context.Background()); err != nil {
		// Degrade to the empty snapshot; planning yields NoRouteFound until
		// a source recovers.
		log.Error().Err(err).Msg("[liquidity] initial reload failed")
	}
	if s.conf != nil && s.conf.RefreshInterval > 0 {
		go s.refresher(s.conf.RefreshInterval)
	}
	return nil
}

func (s *Store) Stop() error {
	s.refresherOnce.Do(func() { close(s.stopRefresher) })
	return nil
}

func (s *Store) refresher(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopRefresher:
			return
		case <-ticker.C:
			if err := s.Reload(context.Background()); err != nil {
				log.Warn().Err(err).Msg("[liquidity] background reload failed")
			}
		}
	}
}

// Current returns the active snapshot. Callers hold the returned pointer for
// the duration of their request; it is never mutated.
func (s *Store) Current() *Snapshot {
	return s.snapshot.Load().(*Snapshot)
}

// EnsureFresh triggers a best-effort reload when the active snapshot is
// older than threshold. Reload failures degrade to the existing snapshot.
func (s *Store) EnsureFresh(ctx context.Context, threshold time.Duration) {
	if threshold <= 0 || s.Current().Age() <= threshold {
		return
	}
	if err := s.Reload(ctx); err != nil {
		log.Warn().Err(err).Msg("[liquidity] staleness reload failed, keeping previous snapshot")
	}
}

type fetchResult struct {
	data SourceData
	err  error
}

// Reload re-reads every source concurrently and atomically publishes a new
// snapshot from the sources that succeeded. Readers of the previous snapshot
// are never blocked. Only when every source fails does the previous snapshot
// stay active and an error return.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]fetchResult, len(s.sources))
	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			data, err := src.Fetch(ctx)
			results[i] = fetchResult{data: data, err: err}
		}(i, src)
	}
	wg.Wait()

	var merged SourceData
	succeeded := 0
	for i, res := range results {
		if res.err != nil {
			metrics.SourceFailures.WithLabelValues(s.sources[i].Name()).Inc()
			log.Warn().Err(res.err).Str("source", s.sources[i].Name()).
				Msg("[liquidity] source failed, continuing with remaining sources")
			continue
		}
		succeeded++
		merged.Pools = append(merged.Pools, res.data.Pools...)
		merged.Prices = append(merged.Prices, res.data.Prices...)
	}

	if succeeded == 0 && len(s.sources) > 0 {
		metrics.SnapshotReloadFailures.Inc()
		return fmt.Errorf("%w: all %d sources failed", common.ErrSourceUnavailable, len(s.sources))
	}

	snap := NewSnapshot(s.version.Add(1), merged)
	s.snapshot.Store(snap)

	metrics.SnapshotReloads.Inc()
	metrics.SnapshotVersion.Set(float64(snap.Version))
	metrics.PoolCount.Reset() // chains absent from the new snapshot must not keep old counts
	for chain, pools := range snap.poolsByChain {
		metrics.PoolCount.WithLabelValues(string(chain)).Set(float64(len(pools)))
	}
	log.Info().
		Uint64("version", snap.Version).
		Int("pools", snap.PoolCount()).
		Int("prices", len(snap.prices)).
		Int("sources_ok", succeeded).
		Int("sources_total", len(s.sources)).
		Msg("[liquidity] snapshot published")
	return nil
}

// NewSnapshot indexes merged source data into an immutable snapshot.
// Invalid pools are dropped, duplicate IDs resolve to the later source, and
// all pool lists are sorted by ID so downstream iteration is deterministic.
func NewSnapshot(version uint64, data SourceData) *Snapshot {
	snap := emptySnapshot()
	snap.Version = version

	// Later sources win on duplicate IDs, including replacements that moved
	// the pool to a different chain or pair.
	byID := make(map[string]*domain.Pool, len(data.Pools))
	for _, pool := range data.Pools {
		if err := pool.Validate(); err != nil {
			log.Warn().Err(err).Str("pool", pool.ID).Msg("[liquidity] dropping invalid pool")
			continue
		}
		byID[pool.ID] = pool
	}
	for _, pool := range byID {
		snap.addPool(pool)
	}

	for chain := range snap.poolsByChain {
		pools := snap.poolsByChain[chain]
		sort.Slice(pools, func(i, j int) bool { return pools[i].ID < pools[j].ID })
	}
	for key := range snap.pairPools {
		pools := snap.pairPools[key]
		sort.Slice(pools, func(i, j int) bool { return pools[i].ID < pools[j].ID })
	}

	for _, pr := range data.Prices {
		snap.prices[pairKey{pr.Base, pr.Quote}] = pr.Price
	}

	return snap
}

func (s *Snapshot) addPool(pool *domain.Pool) {
	s.poolsByChain[pool.Chain] = append(s.poolsByChain[pool.Chain], pool)
	key := makePoolPairKey(pool.Chain, pool.TokenA, pool.TokenB)
	s.pairPools[key] = append(s.pairPools[key], pool)
}
