// Package api stellt die Templates lesend über HTTP bereit.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"report-templates/services"
)

// HealthCheck prüft die Erreichbarkeit der Datenbank.
type HealthCheck func(ctx context.Context) error

// Server bündelt die Abhängigkeiten der HTTP-Handler.
type Server struct {
	Service  *services.TemplateService
	Health   HealthCheck
	Gatherer prometheus.Gatherer
	APIKey   string
	Logger   *zap.Logger
}

// Router baut die gin-Engine mit allen Routen.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.GET("/healthz", s.healthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))

	rg := router.Group("/templates")
	rg.Use(apiKeyAuthMiddleware(s.APIKey))
	rg.GET("", s.findTemplates)
	rg.GET("/:uuid", s.getTemplate)
	return router
}

func apiKeyAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}
