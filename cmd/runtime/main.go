package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/driftlabs/routeflow/internal/common"
	"github.com/driftlabs/routeflow/internal/config"
	"github.com/driftlabs/routeflow/internal/http"
	"github.com/driftlabs/routeflow/internal/liquidity"
	"github.com/driftlabs/routeflow/internal/services/router"
)

// @title RouteFlow API
// @version 1.0
// @description Route planning and liquidity aggregation API for optimal token swaps across declared liquidity sources.
// @description
// @description ## - Features
// @description - **Multi-Source Aggregation**: Merges file-declared pools with HTTP price feeds into one immutable snapshot
// @description - **Smart Routing**: Direct and multi-hop routing up to a configurable hop limit
// @description - **Price Impact Analysis**: Per-hop impact calculation with severity warnings
// @description - **Exact-In / Exact-Out**: Sell side quotes output, buy side inverts to the required input
// @description - **Deterministic Results**: Identical request + snapshot always yields the same plan
// @description
// @description ## - Usage Tips
// @description - Amounts are decimal strings in whole token units (e.g. "1.5" ETH)
// @description - Quotes carry a snapshotVersion; re-quote when it moves
// @description - Rate limit: 10 requests/second (burst: 20)
// @host localhost:8080
// @BasePath /
// @schemes http
// @tag.name quote
// @tag.description Get optimal swap routes with ranked alternatives and price impact analysis
// @tag.name pools
// @tag.description Inspect the active liquidity snapshot: pools, spot prices, market depth

func main() {
	// Runtime tuning (GOGC, GOMAXPROCS, GOMEMLIMIT)
	common.InitRuntime()

	// load env
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using process environment")
	}

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.PlannerConfig{},
		&config.LiquidityConfig{},
	)

	// di container
	dic, err := container.New(
		conf,

		&liquidity.Store{},
		&router.Planner{},
		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	// Run() blocks until SIGINT/SIGTERM
	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
