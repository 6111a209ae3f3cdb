package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/driftlabs/routeflow/internal/common"
	"github.com/driftlabs/routeflow/internal/config"
	"github.com/driftlabs/routeflow/internal/domain"
	"github.com/driftlabs/routeflow/internal/liquidity"
	"github.com/driftlabs/routeflow/internal/metrics"
)

const PLANNER_SERVICE = "router.Planner"

// Planner is the single entry point for route planning: it pins a snapshot,
// searches candidate paths, prices them concurrently, and ranks the
// survivors. One Plan call never observes two different snapshots.
type Planner struct {
	conf    *config.PlannerConfig
	liqConf *config.LiquidityConfig
	store   *liquidity.Store
	pricer  *Pricer

	mu          sync.Mutex
	cachedIndex *Index // rebuilt when the snapshot version moves
}

func NewPlanner(store *liquidity.Store, conf *config.PlannerConfig) *Planner {
	return &Planner{
		conf:   conf,
		store:  store,
		pricer: NewPricer(uint16(conf.MaxImpactBps)),
	}
}

func (p *Planner) ID() string {
	return PLANNER_SERVICE
}

func (p *Planner) Configure(c container.IContainer) error {
	p.conf = c.GetConfig(config.PLANNER_CONFIG_KEY).(*config.PlannerConfig)
	p.liqConf = c.GetConfig(config.LIQUIDITY_CONFIG_KEY).(*config.LiquidityConfig)
	p.store = c.Instance(liquidity.LIQUIDITY_SERVICE).(*liquidity.Store)
	p.pricer = NewPricer(uint16(p.conf.MaxImpactBps))
	return nil
}

func (p *Planner) Start() error {
	return nil
}

func (p *Planner) Stop() error {
	return nil
}

// Store exposes the underlying liquidity store for read-only handlers.
func (p *Planner) Store() *liquidity.Store {
	return p.store
}

// Plan runs one request through the full pipeline: validate, pin snapshot,
// search, price, rank. Errors map onto the planning taxonomy in
// internal/common.
func (p *Planner) Plan(ctx context.Context, req *domain.SwapRequest) (*domain.RouteResult, error) {
	start := time.Now()
	side := string(req.Side)
	if side == "" {
		side = string(domain.SideSell)
	}

	result, err := p.plan(ctx, req)

	status := "success"
	if err != nil {
		status = planStatus(err)
	}
	metrics.PlanRequests.WithLabelValues(side, status).Inc()
	metrics.PlanDuration.WithLabelValues(side).Observe(time.Since(start).Seconds())
	return result, err
}

func (p *Planner) plan(ctx context.Context, req *domain.SwapRequest) (*domain.RouteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err)
	}

	if p.liqConf != nil {
		p.store.EnsureFresh(ctx, p.liqConf.StalenessThreshold)
	}
	snap := p.store.Current()
	if snap.PoolCount() == 0 {
		return nil, fmt.Errorf("%w: no liquidity snapshot available", common.ErrSourceUnavailable)
	}

	idx := p.indexFor(snap)

	searchStart := time.Now()
	paths := FindPaths(idx, req.FromToken, req.ToToken, req.ChainScope(), p.conf.MaxHops)
	metrics.SearchDuration.Observe(time.Since(searchStart).Seconds())
	metrics.CandidatesFound.Observe(float64(len(paths)))
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no path from %s to %s within %d hops",
			common.ErrNoRouteFound, req.FromToken, req.ToToken, p.conf.MaxHops)
	}

	deadline := ctx
	if p.conf.PlanDeadline > 0 {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(ctx, p.conf.PlanDeadline)
		defer cancel()
	}

	pricingStart := time.Now()
	routes, partial, err := p.priceAll(deadline, snap, req, paths)
	metrics.PricingDuration.Observe(time.Since(pricingStart).Seconds())
	if err != nil {
		return nil, err
	}
	metrics.CandidatesPriced.Observe(float64(len(routes)))
	if len(routes) == 0 {
		return nil, fmt.Errorf("%w: %d candidate path(s) found but none survived pricing",
			common.ErrNoRouteFound, len(paths))
	}

	ranked := Rank(routes, req.Side, p.conf.MaxAlternatives)

	if partial {
		metrics.PartialResults.Inc()
	}
	metrics.PriceImpact.
		WithLabelValues(string(ClassifyImpact(ranked.Best.SlippageBps))).
		Observe(float64(ranked.Best.SlippageBps))

	return &domain.RouteResult{
		PlanID:           uuid.NewString(),
		Best:             ranked.Best,
		Alternatives:     ranked.Alternatives,
		TotalRoutesFound: ranked.Total,
		Partial:          partial,
		SnapshotVersion:  snap.Version,
		Timestamp:        time.Now().UTC(),
	}, nil
}

// indexFor returns the graph index for snap, rebuilding only when the
// snapshot version changed since the last plan.
func (p *Planner) indexFor(snap *liquidity.Snapshot) *Index {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cachedIndex != nil && p.cachedIndex.Snapshot() == snap {
		return p.cachedIndex
	}
	p.cachedIndex = BuildIndex(snap)
	return p.cachedIndex
}

// priceAll prices candidates on a bounded worker pool. Candidates not
// priced before ctx expires are dropped and partial is reported; a worker
// panic fails the whole plan as an internal error.
func (p *Planner) priceAll(
	ctx context.Context,
	snap *liquidity.Snapshot,
	req *domain.SwapRequest,
	paths []domain.Path,
) ([]*domain.PricedRoute, bool, error) {
	workers := p.conf.PricingConcurrency
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	priced := make([]*domain.PricedRoute, len(paths))
	panics := make(chan error, len(paths))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p.priceOne(snap, req, paths[i], i, priced, panics)
			}
		}()
	}

	partial := false
dispatch:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			partial = true
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	close(panics)

	if err := <-panics; err != nil {
		return nil, false, err
	}

	routes := make([]*domain.PricedRoute, 0, len(paths))
	for i, r := range priced {
		if r == nil {
			continue
		}
		r.SearchOrder = i
		routes = append(routes, r)
	}
	return routes, partial, nil
}

func (p *Planner) priceOne(
	snap *liquidity.Snapshot,
	req *domain.SwapRequest,
	path domain.Path,
	i int,
	priced []*domain.PricedRoute,
	panics chan<- error,
) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Uint64("snapshotVersion", snap.Version).
				Str("fromToken", string(req.FromToken)).
				Str("toToken", string(req.ToToken)).
				Str("amount", req.Amount.String()).
				Int("candidate", i).
				Msg("[planner] pricing worker panicked")
			panics <- fmt.Errorf("%w: pricing candidate %d panicked", common.ErrInternal, i)
		}
	}()

	var route *domain.PricedRoute
	var ok bool
	if req.Side == domain.SideBuy {
		route, ok = p.pricer.PriceBuy(path, req.Amount)
	} else {
		route, ok = p.pricer.PriceSell(path, req.Amount)
	}
	if ok {
		priced[i] = route
	}
}

func planStatus(err error) string {
	switch {
	case common.IsInvalidRequest(err):
		return "invalid_request"
	case common.IsNoRouteFound(err):
		return "no_route"
	case common.IsSourceUnavailable(err):
		return "source_unavailable"
	default:
		return "internal_error"
	}
}
