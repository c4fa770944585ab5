// Package app wires the storage adapter, external clients, store, stage
// handlers, job executor, and queue consumer into one running worker
// process. Configuration comes almost entirely from the process
// environment, with only an --env-file flag for local overrides.
package app

import (
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
)

// Config is the worker's process configuration, loaded once at startup
// from the environment and partially reloadable on SIGHUP.
type Config struct {
	DatabaseURL string
	RedisURL    string
	S3Bucket    string
	LocalS3Dir  string
	S3Region    string

	WorkerConcurrency int
	ProcessOneJob     bool
	MetricsPort       int

	AIAPIURL                   string
	AIAPIKey                   string
	DefaultExternalOCREndpoint string
	DefaultExternalOCRAPIKey   string

	EnvFile   string
	LogLevels logger.LevelConfig
}

const (
	defaultWorkerConcurrency = 4
	defaultMetricsPort       = 9100
)

// ConfigFromEnv parses flags (only --env-file is exposed as a flag; every
// other value is read from the process environment, matching how this
// worker is actually deployed) then binds the named environment variables
// through viper, optionally overlaying ENV_FILE via godotenv first for
// local/dev runs.
func ConfigFromEnv(args []string) (*Config, error) {
	fs := flag.NewFlagSet("docworker", flag.ContinueOnError)
	envFile := fs.String("env-file", "", "optional .env file to load before reading process configuration")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parsing flags")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	v.SetDefault("METRICS_PORT", defaultMetricsPort)

	resolvedEnvFile := *envFile
	if resolvedEnvFile == "" {
		resolvedEnvFile = v.GetString("ENV_FILE")
	}
	if resolvedEnvFile != "" {
		if err := godotenv.Overload(resolvedEnvFile); err != nil {
			return nil, errors.Wrapf(err, "loading env file %q", resolvedEnvFile)
		}
	}

	return &Config{
		DatabaseURL:                v.GetString("DATABASE_URL"),
		RedisURL:                   v.GetString("REDIS_URL"),
		S3Bucket:                   v.GetString("S3_BUCKET"),
		LocalS3Dir:                 v.GetString("LOCAL_S3_DIR"),
		S3Region:                   v.GetString("S3_REGION"),
		WorkerConcurrency:          v.GetInt("WORKER_CONCURRENCY"),
		ProcessOneJob:              v.GetBool("PROCESS_ONE_JOB"),
		MetricsPort:                v.GetInt("METRICS_PORT"),
		AIAPIURL:                   v.GetString("AI_API_URL"),
		AIAPIKey:                   v.GetString("AI_API_KEY"),
		DefaultExternalOCREndpoint: v.GetString("DEFAULT_EXTERNAL_OCR_ENDPOINT"),
		DefaultExternalOCRAPIKey:   v.GetString("DEFAULT_EXTERNAL_OCR_API_KEY"),
		EnvFile:                    resolvedEnvFile,
		LogLevels:                  logger.LevelConfig(v.GetString("LOG_LEVELS")),
	}, nil
}

// ReloadWorkerConcurrency re-reads ENV_FILE (if set) and WORKER_CONCURRENCY
// from the process environment, for the SIGHUP reload path.
// It never touches any other field: only the worker pool's admission
// bound changes on reload, in-flight jobs are untouched.
func ReloadWorkerConcurrency(envFile string) (int, error) {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			return 0, errors.Wrapf(err, "reloading env file %q", envFile)
		}
	}
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	n := v.GetInt("WORKER_CONCURRENCY")
	if n < 1 {
		n = 1
	}
	return n, nil
}
