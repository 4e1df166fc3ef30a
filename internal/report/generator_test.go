package report_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/logger"
	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/farxc/envelopa-irregularidades/internal/store"
	"github.com/farxc/envelopa-irregularidades/internal/store/storetest"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	date = storetest.Date
	id   = storetest.ID
	doc  = storetest.Doc
)

// dataset has exactly one finding in every category.
func dataset() storetest.Fixture {
	return storetest.Fixture{
		Contracts: []store.Contract{
			{ID: 1, Amount: 100},
			{ID: 2, Amount: 1000},
		},
		Commitments: []store.Commitment{
			{ID: 10, ContractID: id(1), Amount: 200, CommitmentDate: date("2024-03-10")},
			{ID: 20, ContractID: id(2), Amount: 1000, CommitmentDate: date("2024-03-10")},
		},
		Payments: []store.Payment{
			{ID: 1, CommitmentID: id(10), Amount: 150, PaymentDate: date("2024-03-09")},
			{ID: 2, CommitmentID: id(20), Amount: 500, PaymentDate: date("2024-03-10")},
			{ID: 3, CommitmentID: id(99), Amount: 42, PaymentDate: date("2024-03-12")},
		},
		Liquidations: []store.Liquidation{
			{ID: 100, CommitmentID: 10, Amount: 100, IssueDate: date("2024-03-11")},
			{ID: 200, CommitmentID: 20, Amount: 500, IssueDate: date("2024-03-10")},
		},
		Suppliers: []store.Supplier{
			{ID: 1, Name: "Papelaria Central", Document: doc("12.345.678/0001-99")},
			{ID: 2, Name: "Obras Rapidas", Document: doc("12.345")},
		},
		Entities: []store.Entity{
			{ID: 7, Name: "Prefeitura", CNPJ: doc("98.765.432/0001-10")},
		},
	}
}

func quietLogger() *logger.Logger {
	return logger.New(logger.LevelDebug, &bytes.Buffer{})
}

type recordingObserver struct {
	reports []report.Report
}

func (o *recordingObserver) ReportGenerated(rep report.Report, _ time.Duration) {
	o.reports = append(o.reports, rep)
}

func TestGeneratorRunFindsEveryCategory(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.Seed(t, db, dataset())

	obs := &recordingObserver{}
	rep := report.NewGenerator(db, quietLogger(), report.WithObserver(obs)).Run(context.Background())

	require.False(t, rep.Failed, rep.Error)
	assert.NotEmpty(t, rep.ID)
	assert.Nil(t, rep.SectionErrors)

	require.Len(t, rep.UnlinkedPayments, 1)
	assert.Equal(t, int64(3), rep.UnlinkedPayments[0].PaymentID)

	require.Len(t, rep.InvalidTaxIDs, 1)
	assert.Equal(t, "12345", rep.InvalidTaxIDs[0].NormalizedDocument)

	require.Len(t, rep.OverpaidContracts, 1)
	assert.Equal(t, int64(1), rep.OverpaidContracts[0].ContractID)
	assert.InDelta(t, 50, rep.OverpaidContracts[0].OverageAmount, 1e-9)
	require.NotNil(t, rep.OverpaidContracts[0].OveragePercentage)
	assert.InDelta(t, 50, *rep.OverpaidContracts[0].OveragePercentage, 1e-9)

	require.Len(t, rep.OversettledCommitments, 1)
	assert.Equal(t, int64(10), rep.OversettledCommitments[0].CommitmentID)
	assert.InDelta(t, 50, rep.OversettledCommitments[0].Difference, 1e-9)
	assert.InDelta(t, 50, rep.OversettledCommitments[0].ExcessPercentage, 1e-9)

	require.Len(t, rep.Chronology.PaymentsBeforeCommitment, 1)
	assert.Equal(t, int64(1), rep.Chronology.PaymentsBeforeCommitment[0].PaymentID)
	assert.Empty(t, rep.Chronology.SettlementsBeforeCommitment)

	s := rep.Summary()
	assert.Equal(t, report.Summary{
		UnlinkedPayments:           1,
		OverpaidContracts:          1,
		InvalidTaxIDs:              1,
		OversettledCommitments:     1,
		ChronologyErrors:           1,
		PaymentsBeforeCommitment:   1,
		TotalOversettledDifference: 50,
	}, s)

	require.Len(t, obs.reports, 1)
	assert.Equal(t, rep.ID, obs.reports[0].ID)
}

func TestGeneratorRunOnEmptyDataset(t *testing.T) {
	db := storetest.NewDB(t)

	rep := report.NewGenerator(db, quietLogger()).Run(context.Background())

	require.False(t, rep.Failed)
	assertAllEmpty(t, rep)
}

func TestGeneratorRunGivesEachRunItsOwnID(t *testing.T) {
	db := storetest.NewDB(t)
	gen := report.NewGenerator(db, quietLogger())

	first := gen.Run(context.Background())
	second := gen.Run(context.Background())

	assert.NotEqual(t, first.ID, second.ID)
}

func TestGeneratorRunOnClosedDatabaseFails(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.Seed(t, db, dataset())
	require.NoError(t, db.Close())

	var out bytes.Buffer
	rep := report.NewGenerator(db, logger.New(logger.LevelInfo, &out)).Run(context.Background())

	assert.True(t, rep.Failed)
	assert.Contains(t, rep.Error, report.ErrDataSource.Error())
	assertAllEmpty(t, rep)
	assert.Equal(t, 0, rep.Summary().ChronologyErrors)
	assert.Contains(t, out.String(), "[ERROR] [ReportGenerator]")
}

func TestGeneratorRunDiscardsPartialResultsByDefault(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.Seed(t, db, dataset())
	_, err := db.Exec(`DROP TABLE contrato`)
	require.NoError(t, err)

	rep := report.NewGenerator(db, quietLogger()).Run(context.Background())

	assert.True(t, rep.Failed)
	assert.Contains(t, rep.Error, "overpaid_contracts")
	assert.Contains(t, rep.Error, "failed to query overpaid contracts")
	assertAllEmpty(t, rep)
	assert.Nil(t, rep.SectionErrors)
}

func TestGeneratorRunWithIsolatedSections(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.Seed(t, db, dataset())
	_, err := db.Exec(`DROP TABLE contrato`)
	require.NoError(t, err)

	rep := report.NewGenerator(db, quietLogger(), report.WithIsolatedSections()).Run(context.Background())

	assert.True(t, rep.Failed)
	require.Len(t, rep.SectionErrors, 1)
	assert.Contains(t, rep.SectionErrors[report.SectionOverpaidContracts], "failed to query overpaid contracts")

	assert.Empty(t, rep.OverpaidContracts)
	assert.NotNil(t, rep.OverpaidContracts)
	assert.Len(t, rep.UnlinkedPayments, 1)
	assert.Len(t, rep.InvalidTaxIDs, 1)
	assert.Len(t, rep.OversettledCommitments, 1)
	assert.Len(t, rep.Chronology.PaymentsBeforeCommitment, 1)
}

type failingConnector struct{}

func (failingConnector) Connx(context.Context) (*sqlx.Conn, error) {
	return nil, errors.New("connection refused")
}

func TestGeneratorRunWhenConnectionCannotBeAcquired(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	rep := report.NewGenerator(failingConnector{}, quietLogger(), report.WithClock(func() time.Time { return fixed })).
		Run(context.Background())

	assert.True(t, rep.Failed)
	assert.Equal(t, fixed, rep.GeneratedAt)
	assert.Contains(t, rep.Error, "connection refused")
	assertAllEmpty(t, rep)
}

func TestReportCount(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.Seed(t, db, dataset())

	rep := report.NewGenerator(db, quietLogger()).Run(context.Background())
	require.False(t, rep.Failed)

	for _, s := range report.Sections {
		assert.Equal(t, 1, rep.Count(s), s)
	}
}

func assertAllEmpty(t *testing.T, rep report.Report) {
	t.Helper()

	assert.NotNil(t, rep.UnlinkedPayments)
	assert.Empty(t, rep.UnlinkedPayments)
	assert.NotNil(t, rep.InvalidTaxIDs)
	assert.Empty(t, rep.InvalidTaxIDs)
	assert.NotNil(t, rep.OverpaidContracts)
	assert.Empty(t, rep.OverpaidContracts)
	assert.NotNil(t, rep.OversettledCommitments)
	assert.Empty(t, rep.OversettledCommitments)
	assert.NotNil(t, rep.Chronology.PaymentsBeforeCommitment)
	assert.Empty(t, rep.Chronology.PaymentsBeforeCommitment)
	assert.NotNil(t, rep.Chronology.SettlementsBeforeCommitment)
	assert.Empty(t, rep.Chronology.SettlementsBeforeCommitment)
}
