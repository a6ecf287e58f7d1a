package middleware

import (
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

// Metrics instruments every route and serves Prometheus metrics at
// /metrics on the same engine.
func Metrics(engine *gin.Engine, subsystem string) *ginprometheus.Prometheus {
	p := ginprometheus.NewPrometheus(subsystem)
	p.Use(engine)
	return p
}
