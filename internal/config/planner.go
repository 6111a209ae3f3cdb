package config

import (
	"errors"
	"runtime"
	"time"

	"github.com/driftlabs/routeflow/internal/common"
)

type PlannerConfig struct {
	// MaxHops bounds path search depth. Default: 3.
	MaxHops int

	// MaxImpactBps invalidates any hop whose price impact exceeds the
	// ceiling. Default: 1500 (15%).
	MaxImpactBps int

	// MaxAlternatives caps alternativeRoutes in a result. Default: 4.
	MaxAlternatives int

	// PricingConcurrency bounds the candidate pricing worker pool.
	// Default: number of available execution units.
	PricingConcurrency int

	// PlanDeadline is the overall per-request budget; candidates not priced
	// in time are dropped and the result is flagged partial.
	PlanDeadline time.Duration
}

func (c *PlannerConfig) Key() string {
	return PLANNER_CONFIG_KEY
}

func (c *PlannerConfig) Load() error {
	c.MaxHops = common.GetEnvOrDefaultInt("PLANNER_MAX_HOPS", 3)
	c.MaxImpactBps = common.GetEnvOrDefaultInt("PLANNER_MAX_IMPACT_BPS", 1500)
	c.MaxAlternatives = common.GetEnvOrDefaultInt("PLANNER_MAX_ALTERNATIVES", 4)
	c.PricingConcurrency = common.GetEnvOrDefaultInt("PLANNER_PRICING_CONCURRENCY", runtime.NumCPU())
	c.PlanDeadline = time.Duration(common.GetEnvOrDefaultInt("PLANNER_DEADLINE_MS", 2000)) * time.Millisecond
	return c.Validate()
}

func (c *PlannerConfig) Validate() error {
	if c.MaxHops < 1 {
		return errors.New("PLANNER_MAX_HOPS must be >= 1")
	}
	if c.MaxImpactBps <= 0 || c.MaxImpactBps >= 10000 {
		return errors.New("PLANNER_MAX_IMPACT_BPS must be in (0, 10000)")
	}
	if c.MaxAlternatives < 0 {
		return errors.New("PLANNER_MAX_ALTERNATIVES must be >= 0")
	}
	if c.PricingConcurrency < 1 {
		c.PricingConcurrency = 1
	}
	if c.PlanDeadline <= 0 {
		return errors.New("PLANNER_DEADLINE_MS must be positive")
	}
	return nil
}
