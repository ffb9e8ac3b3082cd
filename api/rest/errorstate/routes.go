package errorstate

import (
	"github.com/gin-gonic/gin"
)

// history may be nil when no database is configured
func RegisterRoutes(router *gin.RouterGroup, chain Parser, state State, history History) {
	router.GET("/error", GetErrorHandler(state))
	router.DELETE("/error", ClearErrorHandler(state))
	router.POST("/errors/report", ReportHandler(chain))
	router.GET("/errors/history", HistoryHandler(history))
}
