package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/artifact"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/blob"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/executor"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/httpclient"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/queue"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/resolver"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/stages"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/store"
)

// App is the fully wired worker process: one Store, one Blob adapter, one
// Executor, and the Queue Consumer that drives it.
type App struct {
	config   *Config
	db       *store.DB
	consumer *queue.Consumer
	registry *logger.Registry
	logs     logger.Factory
	log      logger.Log
}

// New wires the worker's components from config.
func New(config *Config) (*App, error) {
	registry := logger.NewRegistry(config.LogLevels)
	logFactory := logger.MakeFactory(registry)
	log := logFactory("app")

	db, err := store.Open(config.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	blobStore, err := buildBlobStore(config)
	if err != nil {
		return nil, err
	}

	env := resolver.Env{
		DefaultExternalOCREndpoint: config.DefaultExternalOCREndpoint,
		DefaultExternalOCRAPIKey:   config.DefaultExternalOCRAPIKey,
		AIAPIURL:                   config.AIAPIURL,
		AIAPIKey:                   config.AIAPIKey,
	}

	recorder := artifact.NewRecorder(blobStore, db, config.S3Bucket)

	handlers := map[models.StageKind]stages.Handler{
		models.StageKindOCR:    &stages.OCRHandler{Recorder: recorder, OCRClient: httpclient.NewOCRClient(), Env: env},
		models.StageKindParse:  &stages.ParseHandler{Recorder: recorder},
		models.StageKindAI:     &stages.AIHandler{Recorder: recorder, AIClient: httpclient.NewAIClient(logFactory("ai-client")), Env: env},
		models.StageKindReport: &stages.ReportHandler{Recorder: recorder},
	}

	exec := &executor.Executor{
		Store:      db,
		Blob:       blobStore,
		Bucket:     config.S3Bucket,
		Handlers:   handlers,
		LogFactory: logFactory,
	}

	redisClient := goredis.NewClient(&goredis.Options{Addr: stripRedisScheme(config.RedisURL)})
	consumer := queue.New(redisClient, exec, logFactory("queue"), queue.Config{
		Concurrency:   config.WorkerConcurrency,
		ProcessOneJob: config.ProcessOneJob,
	})

	return &App{config: config, db: db, consumer: consumer, registry: registry, logs: logFactory, log: log}, nil
}

func buildBlobStore(config *Config) (blob.Store, error) {
	if config.LocalS3Dir != "" {
		return blob.NewLocalStore(config.LocalS3Dir), nil
	}
	return blob.NewS3Store(blob.S3StoreConfig{Region: config.S3Region})
}

// stripRedisScheme accepts both a bare host:port and a redis:// URL for
// REDIS_URL, since operators commonly set either form.
func stripRedisScheme(redisURL string) string {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return redisURL
	}
	return opt.Addr
}

// Run starts the queue consumer and blocks until ctx is cancelled
// (typically by SIGTERM/SIGINT) or, in PROCESS_ONE_JOB mode, after the
// first job completes. It also installs a SIGHUP handler that reloads
// ENV_FILE and reapplies WORKER_CONCURRENCY without dropping in-flight
// jobs.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-hup:
				n, err := ReloadWorkerConcurrency(a.config.EnvFile)
				if err != nil {
					a.log.WithError(err).Warn("SIGHUP reload failed")
					continue
				}
				a.consumer.SetConcurrency(n)
				a.log.WithField("worker_concurrency", n).Info("reloaded configuration on SIGHUP")
			case <-ctx.Done():
				return
			}
		}
	}()

	a.consumer.Run(ctx, a.config.ProcessOneJob)
	// Stop the SIGHUP goroutine too, so a PROCESS_ONE_JOB run returns.
	cancel()
	<-done
	return a.db.Close()
}
