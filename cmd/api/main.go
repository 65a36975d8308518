package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruiting-platform/internal/applications"
	"recruiting-platform/internal/auth"
	"recruiting-platform/internal/cep"
	"recruiting-platform/internal/common/aws"
	"recruiting-platform/internal/common/config"
	"recruiting-platform/internal/common/database"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/common/observability"
	"recruiting-platform/internal/dashboard"
	"recruiting-platform/internal/httpapi"
	"recruiting-platform/internal/jobs"
	"recruiting-platform/internal/notify"
	"recruiting-platform/internal/pipeline"
	"recruiting-platform/internal/resumes"
	"recruiting-platform/internal/search"
	"recruiting-platform/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.WithFields(map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting recruiting API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database clients. The service role client carries the privileged
	// credentials used for pipeline stage writes.
	var pg, servicePg *database.PostgresClient
	if err := retryWithBackoff(ctx, log, "postgres", func() error {
		var connErr error
		if pg, connErr = database.NewPostgres(cfg.Database.Postgres); connErr != nil {
			return connErr
		}
		return pg.Ping(ctx)
	}); err != nil {
		log.WithError(err).Error("Could not connect to postgres")
		os.Exit(1)
	}
	defer pg.Close()

	if err := retryWithBackoff(ctx, log, "postgres-service", func() error {
		var connErr error
		if servicePg, connErr = database.NewServicePostgres(cfg.Database.Postgres); connErr != nil {
			return connErr
		}
		return servicePg.Ping(ctx)
	}); err != nil {
		log.WithError(err).Error("Could not connect to postgres with service role")
		os.Exit(1)
	}
	defer servicePg.Close()

	var redisClient *database.RedisClient
	if err := retryWithBackoff(ctx, log, "redis", func() error {
		var connErr error
		if redisClient, connErr = database.NewRedis(cfg.Database.Redis); connErr != nil {
			return connErr
		}
		return redisClient.Ping(ctx)
	}); err != nil {
		log.WithError(err).Error("Could not connect to redis")
		os.Exit(1)
	}
	defer redisClient.Close()

	// Search is optional; the board falls back to database listings when the
	// index is unreachable at startup.
	var searchSvc *search.Service
	if len(cfg.Database.Elasticsearch.Addresses) > 0 || cfg.Database.Elasticsearch.URL != "" {
		esClient, esErr := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if esErr == nil {
			esErr = esClient.Ping()
		}
		if esErr != nil {
			log.WithError(esErr).Warn("Elasticsearch unavailable, search disabled")
		} else {
			searchSvc = search.NewService(esClient, cfg.Database.Elasticsearch.JobsIndex, log)
		}
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.WithError(err).Error("Failed to set up metrics")
		os.Exit(1)
	}

	// Stores. Stage updates run through the service role client.
	jobStore := postgres.NewJobStore(pg, log)
	profileStore := postgres.NewProfileStore(pg, log)
	categoryStore := postgres.NewCategoryStore(pg, log)
	applicationStore := postgres.NewApplicationStore(pg, log)
	serviceApplicationStore := postgres.NewApplicationStore(servicePg, log)
	statsStore := postgres.NewStatsStore(pg, log)

	mailer, alerts := buildNotifiers(ctx, cfg, log)

	var jobIndexer jobs.Indexer
	if searchSvc != nil {
		jobIndexer = searchSvc
	}

	jobSvc := jobs.NewService(jobStore, jobIndexer, log)
	authSvc := auth.NewService(profileStore, redisClient,
		time.Duration(cfg.Auth.SessionTTL)*time.Second, cfg.Auth.BcryptCost, log)
	applicationSvc := applications.NewService(jobStore, profileStore, applicationStore, log)
	pipelineSvc := pipeline.NewService(serviceApplicationStore, mailer, alerts,
		pipeline.Config{AllowedTransitions: cfg.Pipeline.AllowedTransitions}, obs, log)
	dashboardSvc := dashboard.NewService(statsStore, redisClient, log)

	s3Client, err := aws.NewS3Client(ctx, cfg.Storage.S3.Region)
	if err != nil {
		log.WithError(err).Error("Failed to create S3 client")
		os.Exit(1)
	}
	resumeSvc := resumes.NewService(s3Client, cfg.Storage.S3.ResumesBucket,
		time.Duration(cfg.Storage.S3.PresignTTL)*time.Second, log)

	server := httpapi.NewServer(httpapi.Deps{
		Auth:           authSvc,
		Profiles:       profileStore,
		Jobs:           jobSvc,
		Categories:     categoryStore,
		Applications:   applicationSvc,
		Board:          applicationStore,
		Pipeline:       pipelineSvc,
		Search:         searchService(searchSvc),
		Resumes:        resumeSvc,
		Dashboard:      dashboardSvc,
		CEP:            cep.NewClient(log),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         log,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      server.Router(),
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}

	metricsServer := &http.Server{
		Addr:    cfg.HTTP.MetricsAddress,
		Handler: promhttp.Handler(),
	}

	go func() {
		log.WithFields(map[string]interface{}{"address": cfg.HTTP.MetricsAddress}).Info("Metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Metrics server failed")
		}
	}()

	go func() {
		log.WithFields(map[string]interface{}{"address": cfg.HTTP.Address}).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Metrics server shutdown error")
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Metrics provider shutdown error")
	}

	log.Info("Shutdown complete")
}

// buildNotifiers chooses between real SES delivery and simulation, and wires
// the optional SNS admin alert topic.
func buildNotifiers(ctx context.Context, cfg *config.Config, log logger.Logger) (notify.Mailer, pipeline.AlertPublisher) {
	var mailer notify.Mailer = notify.NewSimulationMailer(log)
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			log.WithError(err).Warn("SES unavailable, falling back to simulated email")
		} else {
			mailer = notify.NewSESMailer(sesClient, cfg.Notifications.Email.FromEmail,
				cfg.Notifications.Email.FromName, log)
		}
	}

	var alerts pipeline.AlertPublisher
	if cfg.Notifications.AdminAlerts.Enabled && cfg.Notifications.AdminAlerts.TopicARN != "" {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			log.WithError(err).Warn("SNS unavailable, admin alerts disabled")
		} else {
			alerts = notify.NewAdminNotifier(snsClient, cfg.Notifications.AdminAlerts.TopicARN, log)
		}
	}
	return mailer, alerts
}

// searchService avoids handing the HTTP layer a typed nil.
func searchService(svc *search.Service) httpapi.SearchService {
	if svc == nil {
		return nil
	}
	return svc
}

// retryWithBackoff retries client initialization with exponential backoff.
func retryWithBackoff(ctx context.Context, log logger.Logger, name string, connect func() error) error {
	const maxAttempts = 5
	backoff := time.Second

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = connect(); err == nil {
			return nil
		}

		log.WithError(err).WithFields(map[string]interface{}{
			"client":  name,
			"attempt": attempt,
		}).Warn("Client connection failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%s: giving up after %d attempts: %w", name, maxAttempts, err)
}
