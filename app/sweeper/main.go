package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/notably/notes-api/app/api/handlers"
	"github.com/notably/notes-api/app/sweeper/consumers/v1/release"
	"github.com/notably/notes-api/app/sweeper/sweep"
	"github.com/notably/notes-api/platform/attach"
	"github.com/notably/notes-api/platform/env"
	"github.com/notably/notes-api/platform/logger"
	"github.com/notably/notes-api/sys"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"gocloud.dev/blob"
	"gocloud.dev/pubsub/awssnssqs"

	_ "github.com/go-sql-driver/mysql"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

func main() {
	log, err := logger.New("Notes-Sweeper")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer func(log *zap.SugaredLogger) {
		_ = log.Sync()
	}(log)

	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =======================================================================================================
	// Setup max procs
	if _, err := maxprocs.Set(); err != nil {
		return fmt.Errorf("maxprocs: %w", err)
	}
	log.Infow("startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	// =======================================================================================================
	// Setup configs
	var cfg sys.Config
	cfg.Http.Port = env.OrDefault(log, "HTTP_PORT", "8081")
	cfg.Database.ConnectionURL = env.OrDefault(log, "DATABASE_CONNECTION_URL", "root:admin@localhost:3306/notes")
	cfg.Database.PingTimeout = env.DurationDefault(log, "DATABASE_PING_TIMEOUT", "2s")
	cfg.Database.OperationTimeout = env.DurationDefault(log, "DATABASE_OPERATION_TIMEOUT", "5s")
	cfg.Blob.BucketURL = env.OrDefault(log, "BLOB_BUCKET_URL", "file:///var/lib/notes/attachments")
	cfg.Blob.OperationTimeout = env.DurationDefault(log, "BLOB_OPERATION_TIMEOUT", "30s")
	cfg.Messaging.TopicName = env.Must(log, "MESSAGING_TOPIC_NAME")
	cfg.Messaging.MaxWorkers = env.IntDefault(log, "MESSAGING_MAX_WORKERS", "1")
	cfg.Messaging.WaitTime = env.DurationDefault(log, "MESSAGING_WAIT_TIME", "10s")
	cfg.Messaging.ShutdownTimeout = env.DurationDefault(log, "MESSAGING_SHUTDOWN_TIMEOUT", "10s")
	cfg.Sweep.Interval = env.DurationDefault(log, "SWEEP_INTERVAL", "1h")
	cfg.Sweep.GraceAge = env.DurationDefault(log, "SWEEP_GRACE_AGE", "1h")
	cfg.NewRelic.AppName = env.OrDefault(log, "NEW_RELIC_APP_NAME", "notes-sweeper")
	cfg.NewRelic.Licence = env.OrDefault(log, "NEW_RELIC_LICENCE", "")
	cfg.NewRelic.Enabled = env.BoolDefault(log, "NEW_RELIC_ENABLED", "f")
	cfg.NewRelic.ConnectionTimeout = env.DurationDefault(log, "NEW_RELIC_CONNECTION_TIMEOUT", "10s")
	cfg.NewRelic.ShutdownTimeout = env.DurationDefault(log, "NEW_RELIC_SHUTDOWN_TIMEOUT", "10s")

	// =======================================================================================================
	// Setup static resources

	// mysql
	var db *sql.DB
	if err := func() error {
		mysqlDb, err := sql.Open("mysql", cfg.Database.ConnectionURL)
		if err != nil {
			return fmt.Errorf("error to connect to database: %w", err)
		}
		dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.Database.PingTimeout)
		defer dbCancel()
		if err := mysqlDb.PingContext(dbCtx); err != nil {
			return fmt.Errorf("could not connect to database: %w", err)
		}
		db = mysqlDb
		return nil
	}(); err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("could not close db conn gracefully: %s", err)
		}
	}()

	// attachment bucket
	bucket, err := blob.OpenBucket(context.Background(), cfg.Blob.BucketURL)
	if err != nil {
		return fmt.Errorf("could not open attachment bucket: %w", err)
	}
	defer func() {
		if err := bucket.Close(); err != nil {
			log.Errorf("could not close attachment bucket gracefully: %s", err)
		}
	}()
	attachments := attach.NewBucketStore(bucket)

	// =======================================================================================================
	// NR

	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.NewRelic.AppName),
		newrelic.ConfigLicense(cfg.NewRelic.Licence),
		newrelic.ConfigEnabled(cfg.NewRelic.Enabled),
	)
	if err != nil {
		return err
	}
	if err := nrApp.WaitForConnection(cfg.NewRelic.ConnectionTimeout); err != nil {
		return err
	}
	defer nrApp.Shutdown(cfg.NewRelic.ShutdownTimeout)

	// =======================================================================================================
	// Messaging configuration

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return err
	}

	sqsCli := sqs.NewFromConfig(awsCfg)

	subscription := awssnssqs.OpenSubscriptionV2(
		context.Background(),
		sqsCli,
		cfg.Messaging.TopicName,
		&awssnssqs.SubscriptionOptions{
			Raw:      true,
			WaitTime: cfg.Messaging.WaitTime,
		})

	defer func() {
		stdCtx, stdCancel := context.WithTimeout(context.Background(), cfg.Messaging.ShutdownTimeout)
		defer stdCancel()

		if err := subscription.Shutdown(stdCtx); err != nil {
			log.Errorf("could not stop subscription gracefully: %s", err)
		}
	}()

	// =======================================================================================================
	// Router configuration

	router := gin.New()
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/v1/healthcheck"},
	}), gin.Recovery(), nrgin.Middleware(nrApp))

	handlers.MapDefaults(router)

	// =======================================================================================================
	// App start and shutdown

	svr := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Http.Port),
		Handler: router,
	}

	go func() {
		log.Info("started healthcheck http server")
		if err := svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("error in server http server: %s", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	withCancel, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	go func() {
		sig := <-shutdown
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)
		cancelFunc()
	}()

	sweeper := sweep.Sweeper{
		Log:         log,
		DB:          db,
		Attachments: attachments,
		Interval:    cfg.Sweep.Interval,
		GraceAge:    cfg.Sweep.GraceAge,
		DBTimeout:   cfg.Database.OperationTimeout,
	}
	go sweeper.Run(withCancel)

	if err := release.Consume(withCancel, log, subscription, attachments, cfg.Messaging.MaxWorkers); err != nil {
		return fmt.Errorf("listener error: %w", err)
	}

	return nil
}
