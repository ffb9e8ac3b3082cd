package errorstate

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/algorave/errorstack/api/rest/pagination"
	"codeberg.org/algorave/errorstack/internal/errors"
	"codeberg.org/algorave/errorstack/internal/history"
)

// returns the current error, or 204 when nothing is shown
func GetErrorHandler(state State) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := state.Current()
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}

		c.JSON(http.StatusOK, rec)
	}
}

// dismisses the current error
func ClearErrorHandler(state State) gin.HandlerFunc {
	return func(c *gin.Context) {
		state.Clear()
		c.Status(http.StatusNoContent)
	}
}

// runs a client-reported failure through the parser chain
func ReportHandler(chain Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid report", err)
			return
		}

		if req.Status == 0 && req.Message == "" {
			errors.BadRequest(c, "either status or message is required", nil)
			return
		}

		// the outcome of this report, not whatever is current by now
		rec, err := chain.Parse(req.raw())
		if err != nil {
			errors.InternalError(c, "failed to parse reported error", err)
			return
		}

		c.JSON(http.StatusAccepted, StateResponse{Error: rec})
	}
}

// lists stored outcomes, newest first
func HistoryHandler(store History) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			errors.Unavailable(c, "error history is not enabled")
			return
		}

		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		params := pagination.DefaultParams(limit, offset, history.DefaultListLimit, history.MaxListLimit)

		ctx := c.Request.Context()

		entries, err := store.List(ctx, params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list error history", err)
			return
		}

		total, err := store.Count(ctx)
		if err != nil {
			errors.InternalError(c, "failed to count error history", err)
			return
		}

		c.JSON(http.StatusOK, HistoryResponse{
			Events:     entries,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}
