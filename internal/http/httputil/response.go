package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driftlabs/routeflow/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

func BadRequest(c *gin.Context, err string) {
	Error(c, http.StatusBadRequest, err)
}

func NotFound(c *gin.Context, err string) {
	Error(c, http.StatusNotFound, err)
}

func InternalError(c *gin.Context, err string) {
	Error(c, http.StatusInternalServerError, err)
}

func ServiceUnavailable(c *gin.Context, err string) {
	Error(c, http.StatusServiceUnavailable, err)
}

// HandlePlanError maps a planner error onto its HTTP status: invalid
// requests are 400, a missing route is 404, an empty snapshot is 503, and
// anything else is 500.
func HandlePlanError(c *gin.Context, err error) {
	switch {
	case common.IsInvalidRequest(err):
		BadRequest(c, err.Error())
	case common.IsNoRouteFound(err):
		NotFound(c, err.Error())
	case common.IsSourceUnavailable(err):
		ServiceUnavailable(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}
