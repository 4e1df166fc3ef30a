package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/cnpj"
	"github.com/farxc/envelopa-irregularidades/internal/logger"
	"github.com/farxc/envelopa-irregularidades/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const component = "ReportGenerator"

// ErrDataSource marks reports that could not be computed because the
// database was unreachable or a query failed.
var ErrDataSource = errors.New("data source failure")

// Connector hands out one dedicated connection per run. *sqlx.DB satisfies it.
type Connector interface {
	Connx(ctx context.Context) (*sqlx.Conn, error)
}

// Source is anything that can produce a report: the Generator itself or a
// cached wrapper around it.
type Source interface {
	Run(ctx context.Context) Report
}

// Observer is notified after every run.
type Observer interface {
	ReportGenerated(rep Report, elapsed time.Duration)
}

type Option func(*Generator)

// WithIsolatedSections keeps the sections that succeeded when another one
// fails. The report is still marked as failed and SectionErrors says which
// sections are missing.
func WithIsolatedSections() Option {
	return func(g *Generator) { g.isolate = true }
}

func WithObserver(o Observer) Option {
	return func(g *Generator) { g.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

type Generator struct {
	source   Connector
	logger   *logger.Logger
	isolate  bool
	observer Observer
	now      func() time.Time
}

func NewGenerator(source Connector, appLogger *logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		source: source,
		logger: appLogger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type section struct {
	name Section
	run  func(ctx context.Context, irr irregularityFinder, rep *Report) error
}

type irregularityFinder interface {
	FindUnlinkedPayments(ctx context.Context) ([]store.UnlinkedPayment, error)
	FindInvalidTaxIDs(ctx context.Context) ([]store.InvalidTaxID, error)
	FindOverpaidContracts(ctx context.Context) ([]store.OverpaidContract, error)
	FindOversettledCommitments(ctx context.Context) ([]store.OversettledCommitment, error)
	FindPaymentsBeforeCommitment(ctx context.Context) ([]store.PaymentBeforeCommitment, error)
	FindSettlementsBeforeCommitment(ctx context.Context) ([]store.SettlementBeforeCommitment, error)
}

var sections = []section{
	{SectionUnlinkedPayments, func(ctx context.Context, irr irregularityFinder, rep *Report) error {
		rows, err := irr.FindUnlinkedPayments(ctx)
		if err != nil {
			return err
		}
		rep.UnlinkedPayments = rows
		return nil
	}},
	{SectionInvalidTaxIDs, func(ctx context.Context, irr irregularityFinder, rep *Report) error {
		rows, err := irr.FindInvalidTaxIDs(ctx)
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].NormalizedDocument = cnpj.Normalize(rows[i].Document)
		}
		rep.InvalidTaxIDs = rows
		return nil
	}},
	{SectionOverpaidContracts, func(ctx context.Context, irr irregularityFinder, rep *Report) error {
		rows, err := irr.FindOverpaidContracts(ctx)
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].OverageAmount = rows[i].PaidAmount - rows[i].ContractedAmount
		}
		rep.OverpaidContracts = rows
		return nil
	}},
	{SectionOversettledCommitments, func(ctx context.Context, irr irregularityFinder, rep *Report) error {
		rows, err := irr.FindOversettledCommitments(ctx)
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].ExcessPercentage = ExcessPercentage(rows[i])
		}
		rep.OversettledCommitments = rows
		return nil
	}},
	{SectionChronology, func(ctx context.Context, irr irregularityFinder, rep *Report) error {
		payments, err := irr.FindPaymentsBeforeCommitment(ctx)
		if err != nil {
			return err
		}
		settlements, err := irr.FindSettlementsBeforeCommitment(ctx)
		if err != nil {
			return err
		}
		rep.Chronology = Chronology{
			PaymentsBeforeCommitment:    payments,
			SettlementsBeforeCommitment: settlements,
		}
		return nil
	}},
}

// Run computes every section over one dedicated connection, released before
// Run returns. It never returns partial data silently: on failure the report
// is marked Failed and, unless sections are isolated, every set is empty.
func (g *Generator) Run(ctx context.Context) Report {
	started := g.now()
	rep := g.generate(ctx, started)
	elapsed := g.now().Sub(started)

	if rep.Failed {
		g.logger.Error(component, "Report %s failed after %s: %s", rep.ID, elapsed, rep.Error)
	} else {
		s := rep.Summary()
		g.logger.Info(component, "Report %s generated in %s: %d unlinked payments, %d invalid tax ids, %d overpaid contracts, %d oversettled commitments, %d chronology errors",
			rep.ID, elapsed, s.UnlinkedPayments, s.InvalidTaxIDs, s.OverpaidContracts, s.OversettledCommitments, s.ChronologyErrors)
	}

	if g.observer != nil {
		g.observer.ReportGenerated(rep, elapsed)
	}
	return rep
}

func (g *Generator) generate(ctx context.Context, started time.Time) Report {
	id := uuid.NewString()
	rep := emptyReport(id, started)

	conn, err := g.source.Connx(ctx)
	if err != nil {
		return failed(rep, fmt.Errorf("%w: failed to acquire connection: %w", ErrDataSource, err))
	}
	defer conn.Close()

	irr := store.NewStorage(conn).Irregularities
	for _, s := range sections {
		g.logger.Debug(component, "Running section %s", s.name)

		if err := s.run(ctx, irr, &rep); err != nil {
			sectionErr := fmt.Errorf("%w: %s: %w", ErrDataSource, s.name, err)
			if !g.isolate {
				return failed(emptyReport(id, started), sectionErr)
			}

			g.logger.Warn(component, "Section %s failed: %v", s.name, err)
			if rep.SectionErrors == nil {
				rep.SectionErrors = make(map[Section]string)
			}
			rep.SectionErrors[s.name] = err.Error()
			rep = failed(rep, sectionErr)
		}
	}

	return rep
}

func failed(rep Report, err error) Report {
	rep.Failed = true
	if rep.Error == "" {
		rep.Error = err.Error()
	}
	return rep
}
