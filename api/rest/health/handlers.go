package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	serviceName = "errorstack"
	version     = "1.0.0"
)

// returns the server health status
func Handler(stats Stats) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		}

		if stats != nil {
			resp.Classifiers = stats.ClassifierCount()
			resp.Clients = stats.ClientCount()
		}

		c.JSON(http.StatusOK, resp)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}

func RegisterRoutes(router gin.IRoutes, stats Stats) {
	router.GET("/health", Handler(stats))
	router.GET("/ping", PingHandler)
}
