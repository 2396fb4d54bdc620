package http

import (
	"embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/govoice/internal/pipeline"
	"github.com/obiente/translate/govoice/internal/ws"
)

//go:embed web/index.html
var web embed.FS

// Service is what the router reports on and hands to the socket.
type Service interface {
	ws.Pipeline
	Health() pipeline.Health
	Status() pipeline.Status
}

func NewRouter(svc Service) http.Handler {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	page, _ := web.ReadFile("web/index.html")
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Health())
	})
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Status())
	})

	wss := ws.NewServer(svc)
	r.GET("/ws", func(c *gin.Context) {
		wss.Handle(c.Writer, c.Request)
	})
	return r
}

// requestLogger logs each request; health probes only at debug.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		case c.Request.URL.Path == "/health" || c.Request.URL.Path == "/status":
			ev = log.Debug()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client", c.ClientIP()).
			Msg("request")
	}
}
