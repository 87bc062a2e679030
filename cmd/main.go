package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rasaroots/internal/api"
	"rasaroots/internal/catalog"
	"rasaroots/internal/config"
	"rasaroots/internal/database"
	"rasaroots/internal/live"
	"rasaroots/internal/logging"
	"rasaroots/internal/monitoring"
	"rasaroots/internal/preferences"
	"rasaroots/internal/recommend"
	"rasaroots/internal/scorer"
	"rasaroots/internal/supervisor"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", -1, "Metrics server port, 0 disables (overrides config)")
	configFile  = flag.String("config", "", "Path to configuration file")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("rasaroots exited")
	}
}

func run() error {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort >= 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})
	gin.SetMode(gin.ReleaseMode)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	logging.Info().Int("dishes", cat.Len()).Int("festivals", len(cat.Festivals())).Msg("catalog loaded")

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	prefs, err := preferences.Open(cfg.Preferences.Path)
	if err != nil {
		return err
	}
	defer prefs.Close()

	monitor := monitoring.NewMonitor()

	names := make([]string, 0, cat.Len())
	for _, d := range cat.Dishes() {
		names = append(names, d.Name)
	}
	sc, err := scorer.New(cfg.Scorer, names, monitor)
	if err != nil {
		return err
	}

	opts := []recommend.Option{
		recommend.WithMonitor(monitor),
		recommend.WithLocation(loc),
	}
	if sc != nil {
		opts = append(opts, recommend.WithScorer(sc))
		logging.Info().Str("type", cfg.Scorer.Type).Msg("scorer enabled")
	}
	facade := recommend.New(cat, opts...)

	hub := live.NewHub(facade, cfg.Live.PollInterval)

	server := api.NewServer(api.Options{
		Facade:            facade,
		Feedback:          db,
		Preferences:       prefs,
		Monitor:           monitor,
		Live:              hub.Handle,
		Auth:              cfg.Auth,
		RateLimit:         cfg.Server.RateLimit,
		RateBurst:         cfg.Server.RateBurst,
		PreferenceTimeout: cfg.Preferences.Timeout,
	})

	tree := supervisor.NewTree(logging.Logger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService("api-server", &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}, cfg.Server.ShutdownTimeout))
	if cfg.Server.MetricsPort > 0 {
		tree.AddAPIService(supervisor.NewHTTPServerService("metrics-server", &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
			Handler: metricsRouter(),
		}, cfg.Server.ShutdownTimeout))
	}
	tree.AddBackgroundService(supervisor.NewFuncService("live-hub", hub.Serve))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Int("port", cfg.Server.Port).
		Int("metrics_port", cfg.Server.MetricsPort).
		Str("timezone", loc.String()).
		Msg("starting rasaroots")

	err = tree.Serve(ctx)
	logging.Info().Msg("shutting down")
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("services did not stop in time")
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func metricsRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
