// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"league-predictor/config"
	"league-predictor/controllers"
	"league-predictor/logger"
	"league-predictor/metrics"
	"league-predictor/middleware"
	"league-predictor/models"
	"league-predictor/services"
	"league-predictor/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("league-predictor: %v", err)
	}
}

func newApp() *cli.App {
	serveFlags := []cli.Flag{
		&cli.IntFlag{Name: "port", Usage: "HTTP port (overrides PORT)"},
		&cli.StringFlag{Name: "env", Usage: "environment name (overrides ENV)"},
	}
	return &cli.App{
		Name:   "league-predictor",
		Usage:  "drag-and-drop league table predictor",
		Flags:  serveFlags,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP service (default)",
				Flags:  serveFlags,
				Action: serve,
			},
			newTableCommand(),
		},
	}
}

// serve loads configuration, wires the service and blocks until SIGINT/SIGTERM.
func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("env") {
		cfg.Env = c.String("env")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.InitLogger(cfg.LogDir); err != nil {
		return err
	}
	logger.SetLogLevel(cfg.Env)
	defer logger.Sync()

	league, err := models.LoadLeague(cfg.LeagueConfig)
	if err != nil {
		return err
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	router, svc, hub := buildApp(cfg, league, reg)
	defer hub.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	svc.StartReaper(ctx, cfg.WidgetReapInterval, cfg.WidgetIdleTTL)

	var handler http.Handler = router
	if cfg.XRayEnabled {
		logger.Info.Printf("[serve] X-Ray tracing enabled as %q", cfg.ServiceName)
		handler = xray.Handler(xray.NewFixedSegmentNamer(cfg.ServiceName), router)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("[serve] Listening on %s (env=%s, teams=%d)", cfg.Addr(), cfg.Env, league.RankCount())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info.Println("[serve] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildApp wires metrics, the widget registry, the websocket hub and the router.
func buildApp(cfg *config.Config, league *models.League, reg *prometheus.Registry) (*gin.Engine, *services.PredictionService, *websocket.Hub) {
	collector := metrics.New(reg)
	svc := services.NewPredictionService(league, collector.ObserveBoardEvent)
	collector.RegisterActiveWidgets(reg, svc.ActiveWidgets)

	hubCfg := websocket.HubConfig{
		AllowedOrigins:    cfg.AllowedOrigins,
		MessagesPerSecond: cfg.WSMessagesPerSecond,
		MessageBurst:      cfg.WSMessageBurst,
		Metrics:           collector,
	}
	if cfg.CloudWatchEnabled {
		publisher, err := websocket.NewCloudWatchPublisher(cfg.CloudWatchNamespace, cfg.ServiceName)
		if err != nil {
			logger.Warn.Printf("[buildApp] CloudWatch disabled: %v", err)
		} else {
			hubCfg.ConnectionObserver = publisher
		}
	}
	hub := websocket.NewHub(svc, hubCfg)
	svc.SetInUse(hub.InUse)

	controllers.SetConfig(cfg.ApplicationURL, cfg.WebsocketURL, cfg.LogoPath)
	pc := controllers.NewPredictionController(svc, hub, collector)
	return setupRouter(cfg, pc, hub, reg), svc, hub
}

func setupRouter(cfg *config.Config, pc *controllers.PredictionController, hub *websocket.Hub, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("predictor", store))

	templatesGlob := filepath.Join(cfg.TemplatesDir, "*.html")
	logger.Debug.Printf("[setupRouter] Templates path: %s", templatesGlob)
	router.LoadHTMLGlob(templatesGlob)
	router.Static("/static", cfg.StaticDir)

	// no widget needed
	router.GET("/health", controllers.Health)
	router.GET("/logo", controllers.Logo)
	router.GET("/qrcode", controllers.GetQRCode)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	widget := router.Group("/", middleware.WidgetSession())
	{
		widget.GET("/", pc.Index)
		widget.GET("/updates", controllers.Updates(hub))
	}

	api := router.Group("/api", middleware.WidgetSession())
	{
		api.GET("/league", pc.League)
		api.GET("/board", pc.Board)
		api.POST("/drag", pc.Drag)
		api.POST("/click", pc.Click)
		api.POST("/place", pc.Place)
		api.POST("/unplace", pc.Unplace)
		api.POST("/reset", pc.Reset)
		api.POST("/shuffle", pc.Shuffle)
	}
	return router
}
