package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	httpadapter "github.com/spigell/assessor/internal/adapters/http"
	"github.com/spigell/assessor/internal/logger"
	"github.com/spigell/assessor/internal/services/delivery"
	"github.com/spigell/assessor/internal/services/provisioning"
	"github.com/spigell/assessor/internal/services/submission"
	"github.com/spigell/assessor/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the candidate assessment HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8000)")
	serveCmd.Flags().String("store", "", "record store backend: postgres or memory")
	serveCmd.Flags().Bool("migrate", false, "apply database migrations before serving")

	viper.BindPFlag("http.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("store", serveCmd.Flags().Lookup("store"))
	viper.BindPFlag("database.migrate", serveCmd.Flags().Lookup("migrate"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the assessor", zap.String("version", version), zap.String("store", config.Store))

	st, err := openStores(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the record store", zap.Error(err))
	}
	defer st.close()

	directory, err := newDirectory(config.HR, logger)
	if err != nil {
		logger.Fatal("configuring the hr directory client", zap.Error(err))
	}

	scorer, err := newScorer(ctx, config.Scoring, logger)
	if err != nil {
		logger.Fatal("configuring the scoring engine", zap.Error(err))
	}

	var draining atomic.Bool
	opts := httpadapter.Options{
		RequestTimeout: config.HTTP.RequestTimeout,
		Health:         healthCheck(draining.Load, st.ping),
	}
	if config.HTTP.Debug {
		logger.Warn("debug endpoints are enabled")
		opts.Inspector = directory
	}

	api := httpadapter.New(
		provisioning.New(directory, st.records, logger.With(zap.String("component", "provisioning"))),
		delivery.New(st.bank, logger.With(zap.String("component", "delivery"))),
		submission.New(st.records, scorer, logger.With(zap.String("component", "submission"))),
		logger.With(zap.String("component", "http")),
		opts,
	)

	srv := &http.Server{
		Addr:              config.HTTP.Listen,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("listening", zap.String("address", config.HTTP.Listen))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}
	stop()

	logger.Info("shutting down", zap.Duration("drain_delay", config.HTTP.DrainDelay))
	draining.Store(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.HTTP.DrainDelay+config.HTTP.ShutdownGrace)
	defer cancel()

	if err := utils.WaitFor(shutdownCtx, config.HTTP.DrainDelay); err != nil {
		logger.Warn("drain interrupted", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("stopped")
}
