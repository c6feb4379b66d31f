// Command safeharbor-api serves crisis analysis over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"safeharbor/internal/platform/config"
	"safeharbor/internal/platform/logger"
	"safeharbor/internal/platform/metrics"
	phttp "safeharbor/internal/platform/net/http"

	"safeharbor/internal/services/api"
)

func main() {
	// .env first so LOG_* and CORE_* below see it
	if err := config.LoadDotenv(); err != nil {
		logger.Get().Fatal().Err(err).Msg("load .env")
	}

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads CORE_API_PORT and timeouts)
	srv := phttp.NewServer(apiCfg)

	err := api.Mount(srv.Router(), api.Options{
		Config:  root,
		Logger:  l,
		Metrics: metrics.New(metrics.Options{Runtime: true}),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("api mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
