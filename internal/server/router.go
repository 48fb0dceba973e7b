// Package server assembles the gin engine from the domain handlers.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm-backend/internal/customers"
	"crm-backend/internal/documents"
	"crm-backend/internal/reconcile"
	"crm-backend/internal/shared/config"
	"crm-backend/internal/shared/metrics"
	"crm-backend/internal/shared/server/middleware"
	"crm-backend/internal/shared/server/respond"
)

// Deps carries the handlers the router mounts.
type Deps struct {
	Config    config.Config
	Customers *customers.Handler
	Documents *documents.Handler
	Reconcile *reconcile.Handler
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.AccessToken(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.Customers.RegisterRoutes(api)
	deps.Documents.RegisterRoutes(api)
	deps.Reconcile.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8787"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
