package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-studio/internal/api"
	"github.com/ignite/campaign-studio/internal/archive"
	"github.com/ignite/campaign-studio/internal/cache"
	"github.com/ignite/campaign-studio/internal/config"
	"github.com/ignite/campaign-studio/internal/instrument"
	"github.com/ignite/campaign-studio/internal/pkg/distlock"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
	"github.com/ignite/campaign-studio/internal/repository/postgres"
	jobsvc "github.com/ignite/campaign-studio/internal/service/job"
	"github.com/ignite/campaign-studio/internal/service/segment"
	"github.com/ignite/campaign-studio/internal/service/suppression"
	"github.com/ignite/campaign-studio/internal/service/template"
	"github.com/ignite/campaign-studio/internal/smtpconf"
	"github.com/ignite/campaign-studio/internal/tracking"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

// extractHost returns the host part of a DSN for logging without credentials.
func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Child loggers copy the level when created, so configure first.
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.ShouldRedact())

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatalf("Failed to connect to database at %s: %v", extractHost(cfg.Database.URL), err)
	}
	logger.Info("database connected", "host", extractHost(cfg.Database.URL))

	// Redis is optional: without it snapshots are read straight from
	// Postgres and job control falls back to advisory locks.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			opts = &redis.Options{Addr: cfg.Redis.URL}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unavailable, continuing without cache", "error", err.Error())
			redisClient.Close()
			redisClient = nil
		} else {
			logger.Info("redis connected")
			defer redisClient.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var snapshots jobsvc.SnapshotCache
	if redisClient != nil {
		snapshots = cache.NewSnapshotCache(redisClient, cfg.Redis.SnapshotTTL())
	}
	locker := distlock.NewLocker(redisClient, db, cfg.Redis.LockTTL())
	jobService := jobsvc.NewService(postgres.NewJobRepo(db), snapshots, locker)

	var archiver template.Archiver
	if cfg.Archive.Enabled {
		a, err := archive.FromConfig(ctx, cfg.Archive)
		if err != nil {
			logger.Warn("template archive disabled", "error", err.Error())
		} else {
			archiver = a
		}
	}
	templateService := template.NewService(postgres.NewTemplateRepo(db), instrument.NewEditor(nil), archiver)

	suppressionService := suppression.NewService(postgres.NewSuppressionRepo(db))
	processor := tracking.NewProcessor(postgres.NewTrackingRepo(db), suppressionService)

	var sink tracking.Sink = tracking.NewDirectSink(processor)
	var publisher *tracking.Publisher
	var consumer *tracking.Consumer
	if cfg.Tracking.UseQueue() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Tracking.SQSRegion))
		if err != nil {
			logger.Warn("tracking queue unavailable, recording inline", "error", err.Error())
		} else {
			sqsClient := sqs.NewFromConfig(awsCfg)
			publisher = tracking.NewPublisher(sqsClient, cfg.Tracking.SQSQueueURL)
			sink = publisher
			consumer = tracking.NewConsumer(sqsClient, cfg.Tracking.SQSQueueURL, processor)
			consumer.Start(ctx)
		}
	}

	handlers := api.NewHandlers(api.Deps{
		Jobs:         jobService,
		SMTP:         postgres.NewSMTPConfigRepo(db),
		Tester:       smtpconf.NewTester(cfg.SMTPTest.Timeout(), cfg.SMTPTest.HeloName),
		Templates:    templateService,
		Segments:     segment.NewService(postgres.NewSegmentRepo(db)),
		Suppressions: suppressionService,
		Tracking:     tracking.NewHandler(sink),
		Health:       api.NewHealthChecker(db, redisClient),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, cfg.Server.Port),
		Handler:      api.SetupRoutes(handlers, cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err.Error())
	}

	if publisher != nil {
		if err := publisher.Close(shutdownCtx); err != nil {
			logger.Warn("tracking events still in flight at shutdown", "error", err.Error())
		}
	}
	cancel()
	if consumer != nil {
		consumer.Stop()
	}
	logger.Info("server stopped")
}
