package main

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/platform/middleware"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type routeRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type routerOptions struct {
	AllowedOrigins []string
	// JWTSecret enables bearer authentication on /api/v1 when non-empty.
	JWTSecret string
}

func newRouter(db pinger, opts routerOptions, modules ...routeRegistrar) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	if len(opts.AllowedOrigins) > 0 {
		corsCfg := cors.Config{
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}
		if slices.Contains(opts.AllowedOrigins, "*") {
			corsCfg.AllowAllOrigins = true
		} else {
			corsCfg.AllowOrigins = opts.AllowedOrigins
		}
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	if opts.JWTSecret != "" {
		apiV1.Use(middleware.BearerAuth(opts.JWTSecret))
	}
	for _, m := range modules {
		m.RegisterRoutes(apiV1)
	}
	return router
}
