// Package server exposes the gateway's REST surface: connection lifecycle,
// order submission and portfolio readback.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ibgate/ibgate/internal/services"
	"github.com/ibgate/ibgate/internal/session"
	"github.com/ibgate/ibgate/pkg/ratelimit"
)

var log = logrus.WithField("component", "http")

// Config holds the server's own settings (the venue endpoint lives with the
// session manager). TradeBurst 0 disables submission throttling.
type Config struct {
	CORSOrigin  string
	TradeBurst  int
	TradeRefill int
}

// Server wires the session manager and services to the gin router.
type Server struct {
	cfg       Config
	sessions  *session.Manager
	trading   *services.TradingService
	portfolio *services.PortfolioService
	limiter   *ratelimit.TokenBucket
}

// New creates the HTTP server facade.
func New(cfg Config, sessions *session.Manager, trading *services.TradingService, portfolio *services.PortfolioService) *Server {
	s := &Server{cfg: cfg, sessions: sessions, trading: trading, portfolio: portfolio}
	if cfg.TradeBurst > 0 {
		s.limiter = ratelimit.NewTokenBucket(cfg.TradeBurst, cfg.TradeRefill)
	}
	return s
}

// Router builds the gin handler tree.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	if s.cfg.CORSOrigin != "" {
		r.Use(cors(s.cfg.CORSOrigin))
	}

	r.GET("/", s.wrap(s.handleRoot))
	r.POST("/connect", s.wrap(s.handleConnect))
	r.POST("/disconnect", s.wrap(s.handleDisconnect))
	r.GET("/connection", s.wrap(s.handleConnectionStatus))

	trading := r.Group("/trading")
	trading.POST("/trade", s.throttle(), s.wrap(s.handleTrade))

	r.GET("/portfolio", s.wrap(s.handlePortfolio))

	account := r.Group("/account")
	account.GET("/summary", s.wrap(s.handleAccountSummary))

	return r
}

// throttle rejects order submissions once the token bucket is exhausted so
// one misbehaving caller cannot push the session past the venue's message
// rate.
func (s *Server) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			log.Warn("order submission throttled")
			writeError(c.Writer, http.StatusTooManyRequests, "order rate limit exceeded, retry shortly")
			c.Abort()
			return
		}
		c.Next()
	}
}

// wrap adapts net/http handlers to gin. None of the routes carry path
// params, so nothing else is bridged.
func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c.Writer, c.Request)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Trading gateway is running",
	})
}
