package router

import (
	"sort"

	"github.com/driftlabs/routeflow/internal/domain"
)

// DefaultMaxAlternatives caps alternativeRoutes when no policy override is
// given.
const DefaultMaxAlternatives = 4

// Ranked is the ordered outcome of ranking: the best route plus capped
// alternatives, with the uncapped valid-route count preserved.
type Ranked struct {
	Best         *domain.PricedRoute
	Alternatives []*domain.PricedRoute
	Total        int
}

// Rank orders priced routes for the given trade side: sell ranks by
// expectedOutput descending, buy by required input ascending. Ties fall
// through to fewer hops, lower slippage, then search discovery order, so
// the ordering is fully deterministic for a fixed snapshot and policy.
func Rank(routes []*domain.PricedRoute, side domain.Side, maxAlternatives int) Ranked {
	if maxAlternatives < 0 {
		maxAlternatives = DefaultMaxAlternatives
	}
	if len(routes) == 0 {
		return Ranked{}
	}

	ordered := make([]*domain.PricedRoute, len(routes))
	copy(ordered, routes)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if side == domain.SideBuy {
			if cmp := a.AmountIn.Cmp(b.AmountIn); cmp != 0 {
				return cmp < 0
			}
		} else if cmp := a.ExpectedOutput.Cmp(b.ExpectedOutput); cmp != 0 {
			return cmp > 0
		}
		if a.HopCount() != b.HopCount() {
			return a.HopCount() < b.HopCount()
		}
		if a.SlippageBps != b.SlippageBps {
			return a.SlippageBps < b.SlippageBps
		}
		return a.SearchOrder < b.SearchOrder
	})

	alternatives := ordered[1:]
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	return Ranked{
		Best:         ordered[0],
		Alternatives: alternatives,
		Total:        len(routes),
	}
}
