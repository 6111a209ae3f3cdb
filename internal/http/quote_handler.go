package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/driftlabs/routeflow/internal/domain"
	"github.com/driftlabs/routeflow/internal/http/httputil"
	"github.com/driftlabs/routeflow/internal/services/router"
)

type QuoteHandler struct {
	planner *router.Planner
}

func NewQuoteHandler(planner *router.Planner) *QuoteHandler {
	return &QuoteHandler{planner: planner}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest represents the parameters for requesting a route plan
type QuoteRequest struct {
	// Source token symbol
	FromToken string `form:"fromToken" binding:"required" example:"ETH"`

	// Destination token symbol
	ToToken string `form:"toToken" binding:"required" example:"USDC"`

	// Trade amount as a decimal string. For side=sell it is the exact input;
	// for side=buy it is the desired output.
	Amount string `form:"amount" binding:"required" example:"1.5"`

	// Trade side, "sell" (exact input) or "buy" (exact output). Default: sell.
	Side string `form:"side" enums:"sell,buy" example:"sell"`

	// Optional chain pin for the source token
	FromChain string `form:"fromChain" example:"ethereum"`

	// Optional chain pin for the destination token
	ToChain string `form:"toChain" example:"ethereum"`

	// When true the response includes a step-by-step breakdown of the best
	// route
	Preview bool `form:"preview" example:"true"`
}

// QuoteResponse is the planned route with the best route's economics
// mirrored at the top level and a one-line explanation per returned route.
type QuoteResponse struct {
	*domain.RouteResult

	ExpectedOutput decimal.Decimal `json:"expectedOutput"`
	Fees           decimal.Decimal `json:"fees"`
	SlippageBps    uint16          `json:"slippageBps"`

	// Explanations covers bestRoute first, then alternativeRoutes in order.
	Explanations []string `json:"explanations"`

	Preview bool `json:"preview"`

	// Explanation is the full per-hop breakdown of the best route, present
	// only when preview was requested.
	Explanation *router.RouteExplanation `json:"explanation,omitempty"`
}

// getQuote godoc
// @Summary Get an optimal swap route
// @Description Plans the best route between two tokens over the current liquidity snapshot, with ranked alternatives.
// @Tags quote
// @Produce json
// @Param fromToken query string true "Source token symbol"
// @Param toToken query string true "Destination token symbol"
// @Param amount query string true "Trade amount (decimal string)"
// @Param side query string false "sell or buy" default(sell)
// @Param fromChain query string false "Chain pin for the source token"
// @Param toChain query string false "Chain pin for the destination token"
// @Param preview query bool false "Include a step-by-step breakdown"
// @Success 200 {object} httputil.Response{data=QuoteResponse}
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Failure 503 {object} httputil.Response
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httputil.BadRequest(c, "amount must be a decimal number")
		return
	}

	side := domain.Side(req.Side)
	if req.Side == "" {
		side = domain.SideSell
	}

	swap := &domain.SwapRequest{
		FromToken: domain.Token(req.FromToken),
		ToToken:   domain.Token(req.ToToken),
		Amount:    amount,
		Side:      side,
		FromChain: domain.Chain(req.FromChain),
		ToChain:   domain.Chain(req.ToChain),
		Preview:   req.Preview,
	}

	result, err := h.planner.Plan(c.Request.Context(), swap)
	if err != nil {
		httputil.HandlePlanError(c, err)
		return
	}

	explanations := make([]string, 0, 1+len(result.Alternatives))
	explanations = append(explanations, router.Summarize(result.Best))
	for _, alt := range result.Alternatives {
		explanations = append(explanations, router.Summarize(alt))
	}

	resp := QuoteResponse{
		RouteResult:    result,
		ExpectedOutput: result.Best.ExpectedOutput,
		Fees:           result.Best.Fees,
		SlippageBps:    result.Best.SlippageBps,
		Explanations:   explanations,
		Preview:        req.Preview,
	}
	if req.Preview {
		resp.Explanation = router.Explain(result.Best)
	}
	httputil.Success(c, resp)
}
