package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/driftlabs/routeflow/internal/domain"
	"github.com/driftlabs/routeflow/internal/http/httputil"
	"github.com/driftlabs/routeflow/internal/liquidity"
)

type PoolHandler struct {
	store *liquidity.Store
}

func NewPoolHandler(store *liquidity.Store) *PoolHandler {
	return &PoolHandler{store: store}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
	pub.GET("/chain/:chain", h.listChainPools)
	pub.GET("/price", h.getSpotPrice)
	pub.GET("/depth", h.getDepth)
	admin.POST("/reload", h.reload)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

// PoolStatsResponse summarizes the active liquidity snapshot
type PoolStatsResponse struct {
	// Total number of pools in the active snapshot
	PoolCount int `json:"poolCount" example:"128"`

	// Snapshot version, monotonically increasing per reload
	SnapshotVersion uint64 `json:"snapshotVersion" example:"42"`

	// Snapshot age in milliseconds
	AgeMs int64 `json:"ageMs" example:"1500"`

	// Chains covered by the snapshot
	Chains []domain.Chain `json:"chains"`
}

func (h *PoolHandler) getStats(c *gin.Context) {
	snap := h.store.Current()
	httputil.Success(c, PoolStatsResponse{
		PoolCount:       snap.PoolCount(),
		SnapshotVersion: snap.Version,
		AgeMs:           snap.Age().Milliseconds(),
		Chains:          snap.Chains(),
	})
}

// PoolListResponse is one page of pools on a chain
type PoolListResponse struct {
	Pools []*domain.Pool `json:"pools"`
	Total int            `json:"total" example:"128"`
	Page  int            `json:"page" example:"1"`
	Limit int            `json:"limit" example:"100"`
	Pages int            `json:"pages" example:"2"`
}

// listChainPools godoc
// @Summary List pools on a chain
// @Tags pools
// @Produce json
// @Param chain path string true "Chain name"
// @Param page query int false "Page (1-indexed)" default(1)
// @Param limit query int false "Page size (max 500)" default(100)
// @Success 200 {object} httputil.Response{data=PoolListResponse}
// @Router /api/v1/pools/chain/{chain} [get]
func (h *PoolHandler) listChainPools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	pools := h.store.Current().ChainPools(domain.Chain(c.Param("chain")))
	total := len(pools)
	pages := (total + limit - 1) / limit

	startIdx := (page - 1) * limit
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + limit
	if endIdx > total {
		endIdx = total
	}

	httputil.Success(c, PoolListResponse{
		Pools: pools[startIdx:endIdx],
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

// SpotPriceResponse is the mid price of a pair without fees or slippage
type SpotPriceResponse struct {
	Base  string          `json:"base" example:"ETH"`
	Quote string          `json:"quote" example:"USDC"`
	Price decimal.Decimal `json:"price" example:"3150.25"`
}

// getSpotPrice godoc
// @Summary Get the spot price of a token pair
// @Tags pools
// @Produce json
// @Param base query string true "Base token symbol"
// @Param quote query string true "Quote token symbol"
// @Success 200 {object} httputil.Response{data=SpotPriceResponse}
// @Failure 404 {object} httputil.Response
// @Router /api/v1/pools/price [get]
func (h *PoolHandler) getSpotPrice(c *gin.Context) {
	base := c.Query("base")
	quote := c.Query("quote")
	if base == "" || quote == "" {
		httputil.BadRequest(c, "base and quote are required")
		return
	}

	price, ok := h.store.Current().SpotPrice(domain.Token(base), domain.Token(quote))
	if !ok {
		httputil.NotFound(c, "no price available for pair")
		return
	}
	httputil.Success(c, SpotPriceResponse{Base: base, Quote: quote, Price: price})
}

// DepthResponse is the deepest pool serving a pair on a chain
type DepthResponse struct {
	Chain domain.Chain `json:"chain" example:"ethereum"`
	Pool  *domain.Pool `json:"pool"`
}

// getDepth godoc
// @Summary Get the deepest pool for a pair
// @Tags pools
// @Produce json
// @Param chain query string true "Chain name"
// @Param tokenA query string true "First token symbol"
// @Param tokenB query string true "Second token symbol"
// @Success 200 {object} httputil.Response{data=DepthResponse}
// @Failure 404 {object} httputil.Response
// @Router /api/v1/pools/depth [get]
func (h *PoolHandler) getDepth(c *gin.Context) {
	chain := domain.Chain(c.Query("chain"))
	tokenA := c.Query("tokenA")
	tokenB := c.Query("tokenB")
	if chain == "" || tokenA == "" || tokenB == "" {
		httputil.BadRequest(c, "chain, tokenA and tokenB are required")
		return
	}

	pool, ok := h.store.Current().MarketDepth(chain, domain.Token(tokenA), domain.Token(tokenB))
	if !ok {
		httputil.NotFound(c, "no pool serves this pair")
		return
	}
	httputil.Success(c, DepthResponse{Chain: chain, Pool: pool})
}

// reload godoc
// @Summary Force a liquidity snapshot reload
// @Tags pools
// @Produce json
// @Success 200 {object} httputil.Response{data=PoolStatsResponse}
// @Failure 503 {object} httputil.Response
// @Router /api/v1/admin/pools/reload [post]
func (h *PoolHandler) reload(c *gin.Context) {
	if err := h.store.Reload(c.Request.Context()); err != nil {
		httputil.ServiceUnavailable(c, err.Error())
		return
	}
	snap := h.store.Current()
	httputil.Success(c, PoolStatsResponse{
		PoolCount:       snap.PoolCount(),
		SnapshotVersion: snap.Version,
		AgeMs:           snap.Age().Milliseconds(),
		Chains:          snap.Chains(),
	})
}
