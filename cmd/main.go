// Package main runs the economy API server together with the loan accrual scheduler.
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-economy/cmd/httpserver"
	"github.com/go-petr/pet-economy/db"
	"github.com/go-petr/pet-economy/internal/accrualservice"
	"github.com/go-petr/pet-economy/internal/identity"
	"github.com/go-petr/pet-economy/internal/ledgerrepo"
	"github.com/go-petr/pet-economy/internal/middleware"
	"github.com/go-petr/pet-economy/internal/notify"
	"github.com/go-petr/pet-economy/internal/proposalrepo"
	"github.com/go-petr/pet-economy/internal/proposalservice"
	"github.com/go-petr/pet-economy/pkg/configpkg"
	"github.com/go-petr/pet-economy/pkg/dbpkg"

	_ "github.com/lib/pq"
)

const (
	notifyQueueSize = 256
	shutdownTimeout = 10 * time.Second
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer conn.Close()

	if err := db.Migrate(conn, config.MigrationURL, &logger); err != nil {
		logger.Fatal().Err(err).Msg("cannot migrate database")
	}

	names, err := identity.ParseStatic(config.DisplayNames)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot parse display names")
	}

	sink := newSink(config, logger)
	dispatcher := notify.NewDispatcher(sink, notifyQueueSize, logger)
	dispatcher.Start()

	proposals, closeProposals := newProposalRepo(config, logger)
	defer closeProposals()

	services := httpserver.NewServices(httpserver.Deps{
		Store:     ledgerrepo.New(conn),
		Names:     names,
		Notifier:  dispatcher,
		Proposals: proposals,
	}, config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	if _, err := services.Accounts.EnsureBank(ctx, config.BankSeedBalance); err != nil {
		logger.Fatal().Err(err).Msg("cannot create bank account")
	}

	scheduler := accrualservice.NewScheduler(services.Accrual, config.AccrualInterval, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("cannot start accrual scheduler")
	}

	server, err := httpserver.New(services, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("address", config.ServerAddress).Msg("ECONOMY API SERVER HAS STARTED")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("cannot start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("accrual scheduler shutdown failed")
	}

	dispatcher.Stop()

	if c, ok := sink.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close notification sink")
		}
	}
}

func newSink(config configpkg.Config, logger zerolog.Logger) notify.Sink {
	var brokers []string

	for _, b := range config.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	if len(brokers) == 0 {
		logger.Info().Msg("no kafka brokers configured, notifications go to the log")
		return notify.NewLogSink(logger)
	}

	return notify.NewKafkaSink(brokers, config.NotifyTopic)
}

func newProposalRepo(config configpkg.Config, logger zerolog.Logger) (proposalservice.Repo, func()) {
	if config.RedisAddr == "" {
		logger.Info().Msg("no redis configured, proposals are kept in memory")
		return proposalrepo.NewRepoMemory(), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})

	return proposalrepo.NewRepoRedis(client), func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close redis client")
		}
	}
}
