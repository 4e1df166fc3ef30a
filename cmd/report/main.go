package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/clients"
	"github.com/farxc/envelopa-irregularidades/internal/db"
	"github.com/farxc/envelopa-irregularidades/internal/env"
	"github.com/farxc/envelopa-irregularidades/internal/export"
	"github.com/farxc/envelopa-irregularidades/internal/logger"
	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/joho/godotenv"
)

type config struct {
	db dbConfig
	s3 clients.S3Config
}

type dbConfig struct {
	driver       string
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type options struct {
	format   string
	xlsxPath string
	upload   bool
	isolate  bool
	logLevel string
	timeout  time.Duration
}

// uploader is the part of the S3 client the CLI needs.
type uploader interface {
	UploadXLSX(ctx context.Context, fileName string, data []byte) (string, error)
	TemporaryURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func main() {
	os.Exit(run())
}

func run() int {
	const component = "Main"
	var appLogger = &logger.Logger{MinLevel: logger.LevelInfo, Output: os.Stderr}

	// .env is read before the flags so it can provide their defaults.
	envErr := godotenv.Load()

	var opts options
	flag.StringVar(&opts.format, "format", "table", "Output format: table, json")
	flag.StringVar(&opts.xlsxPath, "xlsx", "", "Write the report workbook to this path")
	flag.BoolVar(&opts.upload, "upload", false, "Upload the report workbook to S3-compatible storage")
	flag.BoolVar(&opts.isolate, "isolate", env.GetBool("REPORT_ISOLATE_FAILURES", false), "Keep the sections that succeeded when another one fails")
	flag.StringVar(&opts.logLevel, "loglevel", env.GetString("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Give up on the database after this long")
	flag.Parse()

	appLogger.SetLogLevel(logger.ParseLevel(opts.logLevel))
	if envErr != nil {
		appLogger.Debug(component, "No .env file loaded: %v", envErr)
	}

	if opts.format != "table" && opts.format != "json" {
		appLogger.Error(component, "Unknown output format: format=%s", opts.format)
		return 2
	}

	startingTime := time.Now()

	cfg := config{
		db: dbConfig{
			driver:       env.GetString("DB_DRIVER", db.DriverPQ),
			addr:         env.GetString("DB_ADDR", databaseDSN()),
			maxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 2),
			maxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 1),
			maxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "1m"),
		},
		s3: clients.S3Config{
			Endpoint:        env.GetString("S3_ENDPOINT", ""),
			AccessKeyID:     env.GetString("S3_ACCESS_KEY", ""),
			SecretAccessKey: env.GetString("S3_SECRET_KEY", ""),
			Bucket:          env.GetString("S3_BUCKET", ""),
			UseSSL:          env.GetBool("S3_USE_SSL", false),
			Region:          env.GetString("S3_REGION", ""),
			Prefix:          env.GetString("S3_PREFIX", "irregularidades/"),
		},
	}

	database, err := db.Open(
		cfg.db.driver,
		cfg.db.addr,
		cfg.db.maxOpenConns,
		cfg.db.maxIdleConns,
		cfg.db.maxIdleTime)

	if err != nil {
		appLogger.Error(component, "Invalid database configuration: error=%v", err)
		return 2
	}
	defer database.Close()

	var up uploader
	if opts.upload {
		s3, err := clients.NewS3Client(cfg.s3)
		if err != nil {
			appLogger.Error(component, "Upload requested but storage is not configured: error=%v", err)
			return 2
		}
		up = s3
	}

	var genOpts []report.Option
	if opts.isolate {
		genOpts = append(genOpts, report.WithIsolatedSections())
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	monitor := NewMonitor()
	monitor.Start(400*time.Millisecond, appLogger)

	rep := report.NewGenerator(database, appLogger, genOpts...).Run(ctx)

	stats := monitor.Stop()
	appLogger.Debug(component, "Report finished: peakGoroutines=%d peakMemoryMB=%d", stats.PeakGoroutines, stats.PeakMemoryMB)

	code := deliver(ctx, rep, opts, os.Stdout, up, appLogger)

	appLogger.Info(component, "Completed: duration=%.2f seconds exitCode=%d", time.Since(startingTime).Seconds(), code)
	return code
}

// deliver prints the report, writes and uploads the workbook when asked and
// returns the process exit code. A failed report always exits 1, after its
// zeroed summary and message have been printed.
func deliver(ctx context.Context, rep report.Report, opts options, w io.Writer, up uploader, appLogger *logger.Logger) int {
	const component = "Output"
	code := 0

	var err error
	switch opts.format {
	case "json":
		err = renderJSON(w, rep)
	default:
		err = renderTable(w, rep)
	}
	if err != nil {
		appLogger.Error(component, "Failed to print report: error=%v", err)
		code = 1
	}

	if opts.xlsxPath != "" || up != nil {
		data, err := export.Bytes(rep)
		if err != nil {
			appLogger.Error(component, "Failed to build workbook: error=%v", err)
			return 1
		}

		if opts.xlsxPath != "" {
			if err := os.WriteFile(opts.xlsxPath, data, 0o644); err != nil {
				appLogger.Error(component, "Failed to write workbook: path=%s error=%v", opts.xlsxPath, err)
				code = 1
			} else {
				appLogger.Info(component, "Workbook written: path=%s", opts.xlsxPath)
			}
		}

		if up != nil {
			if err := upload(ctx, up, rep, data, appLogger); err != nil {
				appLogger.Error(component, "Failed to upload workbook: error=%v", err)
				code = 1
			}
		}
	}

	if rep.Failed {
		return 1
	}
	return code
}

func upload(ctx context.Context, up uploader, rep report.Report, data []byte, appLogger *logger.Logger) error {
	const component = "Upload"

	key, err := up.UploadXLSX(ctx, export.FileName(rep), data)
	if err != nil {
		return err
	}

	url, err := up.TemporaryURL(ctx, key, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("workbook uploaded to %s but link could not be signed: %w", key, err)
	}

	appLogger.Info(component, "Workbook uploaded: key=%s url=%s", key, url)
	return nil
}

// databaseDSN builds the connection string from the discrete DB_* settings.
func databaseDSN() string {
	return db.ConnectionInfo{
		Host:     env.GetString("DB_HOST", "localhost"),
		Port:     env.GetInt("DB_PORT", 5432),
		User:     env.GetString("DB_USER", "admin"),
		Password: env.GetString("DB_PASSWORD", ""),
		DBName:   env.GetString("DB_NAME", "envelopa"),
		SSLMode:  env.GetString("DB_SSLMODE", "disable"),
	}.DSN()
}
