package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/riskibarqy/fantasy-survivor/internal/config"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringrule"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/standing"
	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-survivor/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-survivor/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

// NewHTTPServer wires postgres repositories, read caches, the usecase
// services, external clients, and the router into a ready http.Server. The
// returned *sqlx.DB belongs to the caller and must be closed on shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, *sqlx.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := postgres.BootstrapSeed(seedCtx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	var (
		seasonRepo   season.Repository      = postgres.NewSeasonRepository(db)
		episodeRepo  episode.Repository     = postgres.NewEpisodeRepository(db)
		castawayRepo castaway.Repository    = postgres.NewCastawayRepository(db)
		ruleRepo     scoringrule.Repository = postgres.NewScoringRuleRepository(db)
		standingRepo standing.Repository    = postgres.NewStandingRepository(db)
	)
	leagueRepo := postgres.NewLeagueRepository(db)
	rosterRepo := postgres.NewRosterRepository(db)
	pickRepo := postgres.NewPickRepository(db)
	eventRepo := postgres.NewScoringEventRepository(db)
	dispatchRepo := postgres.NewJobDispatchRepository(db)

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		seasonRepo = cacherepo.NewSeasonRepository(seasonRepo, store)
		episodeRepo = cacherepo.NewEpisodeRepository(episodeRepo, store)
		castawayRepo = cacherepo.NewCastawayRepository(castawayRepo, store)
		ruleRepo = cacherepo.NewScoringRuleRepository(ruleRepo, store)
		standingRepo = cacherepo.NewStandingRepository(standingRepo, store)
	}

	idGen := idgen.NewRandomGenerator()

	seasonSvc := usecase.NewSeasonService(seasonRepo, idGen)
	episodeSvc := usecase.NewEpisodeService(seasonRepo, episodeRepo, idGen)
	castawaySvc := usecase.NewCastawayService(seasonRepo, castawayRepo, idGen, logger)
	ruleSvc := usecase.NewRuleService(seasonRepo, ruleRepo, idGen)
	leagueSvc := usecase.NewLeagueService(seasonRepo, leagueRepo, idGen, logger)
	rosterSvc := usecase.NewRosterService(leagueRepo, castawayRepo, rosterRepo, idGen)
	pickSvc := usecase.NewPickService(leagueRepo, episodeRepo, castawayRepo, rosterRepo, pickRepo, idGen, logger)
	pickLockSvc := usecase.NewPickLockService(leagueRepo, episodeRepo, castawayRepo, rosterRepo, pickRepo, idGen, logger)
	pickLockSvc.SetWorkerCount(cfg.LockWorkerCount)

	leaderboardCache := basecache.NewStore(cfg.CacheTTL)
	scoringSvc := usecase.NewScoringService(episodeRepo, castawayRepo, ruleRepo, eventRepo, pickRepo, leaderboardCache, idGen, logger)
	standingsSvc := usecase.NewStandingsService(leagueRepo, pickRepo, eventRepo, standingRepo)
	scoringSvc.SetStandingsRefresher(standingsSvc)
	dashboardSvc := usecase.NewDashboardService(leagueRepo, episodeRepo, rosterRepo, pickRepo, standingsSvc)

	var queue usecase.JobQueue
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}
	orchestrator := usecase.NewJobOrchestratorService(seasonRepo, episodeRepo, queue, dispatchRepo, usecase.JobOrchestratorConfig{
		Horizon:        cfg.JobOrchestrateHorizon,
		SweepDelay:     cfg.JobLockSweepDelay,
		StandingsDelay: cfg.JobStandingsRefreshDelay,
	}, logger)

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectURL,
		cfg.AnubisAdminKey,
		anubis.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		seasonSvc,
		episodeSvc,
		castawaySvc,
		ruleSvc,
		leagueSvc,
		rosterSvc,
		pickSvc,
		pickLockSvc,
		scoringSvc,
		standingsSvc,
		dashboardSvc,
		orchestrator,
		logger,
	)
	router := httpapi.NewRouter(handler, anubisClient, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
