package router

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/driftlabs/routeflow/internal/domain"
)

// HopExplanation breaks one hop of a priced route into display fields.
type HopExplanation struct {
	Step      int             `json:"step"`
	PoolID    string          `json:"poolId"`
	PoolKind  string          `json:"poolKind"`
	From      domain.Token    `json:"from"`
	To        domain.Token    `json:"to"`
	AmountIn  decimal.Decimal `json:"amountIn"`
	AmountOut decimal.Decimal `json:"amountOut"`
	Fee       decimal.Decimal `json:"fee"`
	FeeBps    uint16          `json:"feeBps"`
	ImpactBps uint16          `json:"impactBps"`
	Severity  ImpactSeverity  `json:"severity"`
	Warning   string          `json:"warning,omitempty"`
}

// RouteExplanation is the human-facing breakdown of a priced route. It is
// derived purely from the route: explaining never re-prices.
type RouteExplanation struct {
	Summary        string           `json:"summary"`
	Chain          domain.Chain     `json:"chain"`
	TokenPath      []domain.Token   `json:"tokenPath"`
	AmountIn       decimal.Decimal  `json:"amountIn"`
	ExpectedOutput decimal.Decimal  `json:"expectedOutput"`
	TotalFees      decimal.Decimal  `json:"totalFees"`
	SlippageBps    uint16           `json:"slippageBps"`
	Severity       ImpactSeverity   `json:"severity"`
	Warning        string           `json:"warning,omitempty"`
	Hops           []HopExplanation `json:"hops"`
}

// Explain renders route into its step-by-step breakdown.
func Explain(route *domain.PricedRoute) *RouteExplanation {
	if route == nil {
		return nil
	}

	hops := make([]HopExplanation, 0, len(route.Hops))
	for i, hq := range route.Hops {
		kind := ""
		if hq.Pool != nil {
			kind = hq.Pool.Kind.String()
		}
		hops = append(hops, HopExplanation{
			Step:      i + 1,
			PoolID:    hq.PoolID,
			PoolKind:  kind,
			From:      hq.From,
			To:        hq.To,
			AmountIn:  hq.AmountIn,
			AmountOut: hq.AmountOut,
			Fee:       hq.Fee,
			FeeBps:    hq.FeeBps,
			ImpactBps: hq.ImpactBps,
			Severity:  ClassifyImpact(hq.ImpactBps),
			Warning:   ImpactWarning(hq.ImpactBps),
		})
	}

	return &RouteExplanation{
		Summary:        Summarize(route),
		Chain:          route.Chain,
		TokenPath:      route.TokenPath,
		AmountIn:       route.AmountIn,
		ExpectedOutput: route.ExpectedOutput,
		TotalFees:      route.Fees,
		SlippageBps:    route.SlippageBps,
		Severity:       ClassifyImpact(route.SlippageBps),
		Warning:        ImpactWarning(route.SlippageBps),
		Hops:           hops,
	}
}

// Summarize renders a route as a one-line description.
func Summarize(route *domain.PricedRoute) string {
	if route == nil || len(route.TokenPath) == 0 {
		return ""
	}
	path := make([]string, 0, len(route.TokenPath))
	for _, t := range route.TokenPath {
		path = append(path, string(t))
	}
	return fmt.Sprintf("swap %s %s for %s %s via %d hop(s): %s",
		route.AmountIn.String(), path[0],
		route.ExpectedOutput.String(), path[len(path)-1],
		route.HopCount(), strings.Join(path, " -> "))
}
