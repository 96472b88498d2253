package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
	"github.com/gin-gonic/gin"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 5 * time.Second

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	storage        Storage
	listenAddr     string
	staticDir      string
	generalHandler func(http.Handler) http.Handler
	now            func() time.Time
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress  string
	StaticDir      string
	Debug          bool
	Storage        Storage
	GeneralHandler func(http.Handler) http.Handler
	// NowHandler is optional and defaults to time.Now
	NowHandler func() time.Time
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Storage) {
		return nil, errors.New("storage is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	tpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	if args.Debug {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.SetHTMLTemplate(tpl)

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		respondError(c, "recovery", fmt.Errorf("panic: %v", recovered))
	}))
	router.Use(requestIDMiddleware(), requestLogger())

	s := &server{
		router:         router,
		storage:        args.Storage,
		listenAddr:     args.ListenAddress,
		staticDir:      args.StaticDir,
		generalHandler: args.GeneralHandler,
		now:            args.NowHandler,
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	{
		api.GET("/metrics", s.handleGetMetrics)
		api.GET("/metrics/summary", s.handleGetMetricsSummary)
		api.GET("/notifications", s.handleGetNotifications)
		api.GET("/health", s.handleHealth)
	}

	if s.staticDir != "" {
		log.Info("serving static files", "dir", s.staticDir)
		s.router.Static("/static", s.staticDir)
	}

	s.router.NoRoute(func(c *gin.Context) {
		respondError(c, "no route", errNotFound)
	})
}

// Start binds the listen address and serves connections in the background
func (s *server) Start() error {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("%w while listening on %s", err, s.listenAddr)
	}
	s.listenAddr = ln.Addr().String()

	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.generalHandler(s.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()

	return nil
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server and releases the store
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()
	return s.storage.Close()
}

// --- Handlers ---

func (s *server) handleIndex(c *gin.Context) {
	ctx := c.Request.Context()

	metrics, err := s.storage.ListMetrics(ctx, common.ListFilter{}, common.PageRequest{})
	if err != nil {
		respondError(c, "index metrics", err)
		return
	}
	notifications, err := s.storage.ListNotifications(ctx, common.ListFilter{}, common.PageRequest{})
	if err != nil {
		respondError(c, "index notifications", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"generatedAt":   formatTimestamp(s.now()),
		"metrics":       newMetricResponses(metrics.Records),
		"notifications": newNotificationResponses(notifications.Records),
	})
}

func (s *server) handleGetMetrics(c *gin.Context) {
	q := parseListQuery(c)

	page, err := s.storage.ListMetrics(c.Request.Context(), q.filter, q.page)
	if err != nil {
		respondError(c, "list metrics", err)
		return
	}

	c.JSON(http.StatusOK, metricsListResponse{
		Data:       newMetricResponses(page.Records),
		Pagination: newPagination(q.page, page.Total),
	})
}

func (s *server) handleGetNotifications(c *gin.Context) {
	q := parseListQuery(c)

	page, err := s.storage.ListNotifications(c.Request.Context(), q.filter, q.page)
	if err != nil {
		respondError(c, "list notifications", err)
		return
	}

	c.JSON(http.StatusOK, notificationsListResponse{
		Data:       newNotificationResponses(page.Records),
		Pagination: newPagination(q.page, page.Total),
	})
}

func (s *server) handleGetMetricsSummary(c *gin.Context) {
	days := parseSummaryDays(c.Query("days"))
	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)

	summary, err := s.storage.SummarizeMetrics(c.Request.Context(), since)
	if err != nil {
		respondError(c, "metrics summary", err)
		return
	}

	c.JSON(http.StatusOK, newSummaryResponse(days, summary))
}

func (s *server) handleHealth(c *gin.Context) {
	timestamp := formatTimestamp(s.now())

	stats, err := s.storage.Stats(c.Request.Context())
	if err != nil {
		log.Warn("health check failed", "request id", requestID(c), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": timestamp,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "healthy",
		"database":            "connected",
		"uptime":              stats.UptimeSeconds,
		"metrics_count":       stats.MetricsCount,
		"notifications_count": stats.NotificationsCount,
		"timestamp":           timestamp,
	})
}
