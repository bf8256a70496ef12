// Package web serves the browser front of the pharmacy finder: the page,
// the /api/direction proxy routes and a health probe.
package web

import (
	"context"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dsg/pharmacy-finder/internal/finder"
	"github.com/dsg/pharmacy-finder/library/log"
	"github.com/dsg/pharmacy-finder/library/pharmacy"
	"github.com/dsg/pharmacy-finder/library/postcode"
)

const (
	shutdownTimeout       = 10 * time.Second
	defaultResolveTimeout = 30 * time.Second
)

// Backend is what the web front needs from the pharmacy backend.
type Backend interface {
	finder.Searcher
	finder.DirectionLookup
}

// Option customises a Server.
type Option func(*Server)

// WithLogger overrides the server logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		if title != "" {
			s.title = title
		}
	}
}

// WithPostcodeScriptURL sets the address picker script injected in the page.
func WithPostcodeScriptURL(scriptURL string) Option {
	return func(s *Server) {
		if scriptURL != "" {
			s.scriptURL = scriptURL
		}
	}
}

// WithAllowedOrigins enables CORS for the given origins. `*` allows any.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithRateLimit limits /api requests per client IP. perSecond <= 0 disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		s.ratePerSecond = perSecond
		s.rateBurst = burst
	}
}

// WithOrdering selects how overlapping searches are applied, on the server
// rendered page and in the page script.
func WithOrdering(ordering finder.Ordering) Option {
	return func(s *Server) {
		s.ordering = ordering
	}
}

// WithDirectHosts sets hosts whose direction URLs are opened as-is.
func WithDirectHosts(hosts []string) Option {
	return func(s *Server) {
		if len(hosts) != 0 {
			s.directHosts = hosts
		}
	}
}

// WithResolveTimeout bounds one shared direction lookup. d <= 0 keeps the
// default.
func WithResolveTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.resolveTimeout = d
		}
	}
}

// Server is the gin based web front.
type Server struct {
	backend Backend
	logger  logSDK.Logger
	engine  *gin.Engine
	page    *template.Template

	title          string
	scriptURL      string
	allowedOrigins []string
	ratePerSecond  float64
	rateBurst      int
	ordering       finder.Ordering
	directHosts    []string
	resolveTimeout time.Duration

	// resolves of the same id by concurrent clicks share one backend call
	resolveGroup singleflight.Group
	// resolveWaiting counts requests joined to a resolveGroup call
	resolveWaiting atomic.Int32
}

// NewServer builds the web front on top of backend.
func NewServer(backend Backend, opts ...Option) (*Server, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}

	s := &Server{
		backend:     backend,
		logger:      log.Logger.Named("web"),
		title:       defaultTitle,
		scriptURL:   postcode.DefaultScriptURL,
		ordering:    finder.LatestIssuedWins,
		directHosts: pharmacy.DefaultDirectHosts,

		resolveTimeout: defaultResolveTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	page, err := template.New("page").Parse(pageHTML)
	if err != nil {
		return nil, errors.Wrap(err, "parse page template")
	}
	s.page = page

	corsMw, err := s.corsMiddleware()
	if err != nil {
		return nil, errors.Wrap(err, "setup cors")
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		gmw.NewLoggerMiddleware(
			gmw.WithLogger(s.logger.Named("gin")),
		),
	)
	if corsMw != nil {
		engine.Use(corsMw)
	}

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})
	engine.GET("/", s.servePage)

	api := engine.Group("/api/direction")
	if s.ratePerSecond > 0 {
		api.Use(newIPRateLimiter(s.ratePerSecond, s.rateBurst).RateLimit())
	}
	api.POST("/search", s.searchHandler)
	api.GET("/:encodedId", s.resolveHandler)

	s.engine = engine
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening on http", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen and serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down http server")
		return errors.Wrap(httpSrv.Shutdown(shutdownCtx), "shutdown")
	})

	return g.Wait()
}

// corsMiddleware returns nil when no origin is configured; the page is
// then same-origin only.
func (s *Server) corsMiddleware() (gin.HandlerFunc, error) {
	origins := make([]string, 0, len(s.allowedOrigins))
	allowAll := false
	for _, origin := range s.allowedOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if !allowAll && len(origins) == 0 {
		return nil, nil
	}

	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       24 * time.Hour,
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid cors config")
	}

	return cors.New(cfg), nil
}
