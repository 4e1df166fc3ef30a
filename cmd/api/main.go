package main

import (
	"context"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/cache"
	"github.com/farxc/envelopa-irregularidades/internal/clients"
	"github.com/farxc/envelopa-irregularidades/internal/db"
	"github.com/farxc/envelopa-irregularidades/internal/env"
	"github.com/farxc/envelopa-irregularidades/internal/logger"
	"github.com/farxc/envelopa-irregularidades/internal/metrics"
	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/joho/godotenv"
)

var appLogger = &logger.Logger{MinLevel: logger.LevelInfo}

func main() {
	if err := godotenv.Load(); err != nil {
		appLogger.Debug(component, "No .env file loaded: %v", err)
	}

	cfg := config{
		addr:     env.GetString("ADDR", ":8080"),
		logLevel: env.GetString("LOG_LEVEL", "info"),
		isolate:  env.GetBool("REPORT_ISOLATE_FAILURES", false),
		db: dbConfig{
			driver:       env.GetString("DB_DRIVER", db.DriverPQ),
			addr:         env.GetString("DB_ADDR", databaseDSN()),
			maxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 25),
			maxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 25),
			maxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		cache: cacheConfig{
			ttl:           env.GetDuration("REPORT_CACHE_TTL", cache.DefaultTTL),
			redisAddr:     env.GetString("REDIS_ADDR", ""),
			redisPassword: env.GetString("REDIS_PASSWORD", ""),
			redisDB:       env.GetInt("REDIS_DB", 0),
			redisPrefix:   env.GetString("REDIS_PREFIX", "envelopa:"),
		},
	}
	appLogger.SetLogLevel(logger.ParseLevel(cfg.logLevel))

	database, err := db.New(
		cfg.db.driver,
		cfg.db.addr,
		cfg.db.maxOpenConns,
		cfg.db.maxIdleConns,
		cfg.db.maxIdleTime)

	if err != nil {
		appLogger.Fatal(component, "Failed to connect to database: %v", err)
	}
	defer database.Close()
	appLogger.Info(component, "Database connection pool established (%s)", cfg.db.driver)

	collector, err := metrics.New()
	if err != nil {
		appLogger.Fatal(component, "Failed to set up metrics: %v", err)
	}

	var opts []report.Option
	opts = append(opts, report.WithObserver(collector))
	if cfg.isolate {
		opts = append(opts, report.WithIsolatedSections())
	}
	generator := report.NewGenerator(database, appLogger, opts...)

	reportStore := reportCache(cfg.cache)
	if c, ok := reportStore.(cache.Cleaner); ok {
		janitor := cache.NewJanitor(func(removed int) {
			if removed > 0 {
				appLogger.Debug(component, "Dropped %d expired cached reports", removed)
			}
		})
		janitor.Register(c)
		janitor.Start(cfg.cache.ttl)
		defer janitor.Stop()
	}

	app := &application{
		config:  cfg,
		reports: report.NewCachedSource(generator, reportStore, appLogger, collector),
		db:      database,
		metrics: collector,
		logger:  appLogger,
	}

	mux := app.mount()

	if err := app.run(mux); err != nil {
		appLogger.Fatal(component, "Server stopped: %v", err)
	}
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

// reportCache shares the report window through Redis when REDIS_ADDR is set
// and falls back to process memory otherwise.
func reportCache(cfg cacheConfig) cache.Cache[report.Report] {
	if cfg.redisAddr == "" {
		appLogger.Info(component, "Caching reports in memory for %s", cfg.ttl)
		return cache.NewTTLCache[report.Report](cfg.ttl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := clients.NewRedisClient(ctx, clients.RedisConfig{
		Addr:       cfg.redisAddr,
		Password:   cfg.redisPassword,
		DB:         cfg.redisDB,
		MaxRetries: 2,
		Timeout:    3 * time.Second,
	})
	if err != nil {
		appLogger.Warn(component, "Redis unavailable, caching reports in memory: %v", err)
		return cache.NewTTLCache[report.Report](cfg.ttl)
	}

	appLogger.Info(component, "Caching reports in redis at %s for %s", cfg.redisAddr, cfg.ttl)
	return cache.NewRedisCache[report.Report](rdb, cfg.redisPrefix, cfg.ttl, appLogger)
}
