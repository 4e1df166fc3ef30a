package main

import (
	"context"
	"net/http"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/logger"
	"github.com/farxc/envelopa-irregularidades/internal/metrics"
	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const component = "API"

type pinger interface {
	PingContext(ctx context.Context) error
}

type application struct {
	config  config
	reports report.Source
	db      pinger
	metrics *metrics.Collector
	logger  *logger.Logger
}

type config struct {
	addr     string
	logLevel string
	isolate  bool
	db       dbConfig
	cache    cacheConfig
}

type dbConfig struct {
	driver       string
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type cacheConfig struct {
	ttl           time.Duration
	redisAddr     string
	redisPassword string
	redisDB       int
	redisPrefix   string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	if app.metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/irregularities", func(r chi.Router) {
			r.Get("/", app.handleGetReport)
			r.Get("/summary", app.handleGetSummary)
			r.Get("/unlinked-payments", app.handleGetUnlinkedPayments)
			r.Get("/invalid-tax-ids", app.handleGetInvalidTaxIDs)
			r.Get("/overpaid-contracts", app.handleGetOverpaidContracts)
			r.Get("/oversettled-commitments", app.handleGetOversettledCommitments)
			r.Get("/chronology", app.handleGetChronology)
			r.Route("/charts", func(r chi.Router) {
				r.Get("/overpaid-contracts", app.handleGetOverpaidScatter)
				r.Get("/oversettled-commitments", app.handleGetOversettledBars)
			})
			r.Get("/export.xlsx", app.handleExportWorkbook)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.logger.Info(component, "Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
