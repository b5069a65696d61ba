package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ibgate/ibgate/internal/gateway/server"
	"github.com/ibgate/ibgate/internal/metrics"
	"github.com/ibgate/ibgate/internal/services"
	"github.com/ibgate/ibgate/internal/session"
	"github.com/ibgate/ibgate/internal/venue"
	"github.com/ibgate/ibgate/internal/venue/paper"
	"github.com/ibgate/ibgate/internal/venue/tws"
	"github.com/ibgate/ibgate/pkg/config"
	"github.com/ibgate/ibgate/pkg/logger"
	"github.com/ibgate/ibgate/pkg/shutdown"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	var configPath = flag.String("config", os.Getenv("GATEWAY_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.OutputFile,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	log := logrus.WithField("component", "main")

	var v venue.Venue
	if cfg.DryRun {
		log.Warn("dry-run mode: using the paper venue, no orders reach the brokerage")
		v = paper.New(100_000)
	} else {
		twsCfg := tws.DefaultConfig()
		twsCfg.AckTimeout = cfg.AckTimeout.Std()
		v = tws.NewClient(twsCfg)
	}

	sessions := session.NewManager(v, cfg.Endpoint.Host, cfg.Endpoint.Port, cfg.Endpoint.ClientID)
	trading := services.NewTradingService(sessions)
	portfolio := services.NewPortfolioService(sessions)

	srv := server.New(server.Config{
		CORSOrigin:  cfg.CORSOrigin,
		TradeBurst:  cfg.TradeBurst,
		TradeRefill: cfg.TradeRefill,
	}, sessions, trading, portfolio)
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shut := shutdown.NewManager()
	shut.OnShutdown(sessions.Shutdown)

	debugCtx, debugCancel := context.WithCancel(context.Background())
	defer debugCancel()
	if cfg.DebugListen != "" {
		if _, err := metrics.StartAsync(debugCtx, cfg.DebugListen); err != nil {
			log.Errorf("debug listener: %v", err)
		} else {
			log.Infof("debug vars/pprof on %s", cfg.DebugListen)
		}
	}

	go func() {
		log.Infof("gateway listening on %s (venue %s:%d)", cfg.Listen, cfg.Endpoint.Host, cfg.Endpoint.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server error: %v", err)
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-stopCh
	log.Infof("received %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	shut.Shutdown(ctx)

	log.Info("gateway stopped")
}
