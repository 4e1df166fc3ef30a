package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// GenericQueryer is satisfied by *sqlx.DB, *sqlx.Conn and *sqlx.Tx, so the
// same store can run on a pool or on a single dedicated connection.
type GenericQueryer interface {
	sqlx.QueryerContext
}

type Storage struct {
	Irregularities interface {
		FindUnlinkedPayments(ctx context.Context) ([]UnlinkedPayment, error)
		FindInvalidTaxIDs(ctx context.Context) ([]InvalidTaxID, error)
		FindOverpaidContracts(ctx context.Context) ([]OverpaidContract, error)
		FindOversettledCommitments(ctx context.Context) ([]OversettledCommitment, error)
		FindPaymentsBeforeCommitment(ctx context.Context) ([]PaymentBeforeCommitment, error)
		FindSettlementsBeforeCommitment(ctx context.Context) ([]SettlementBeforeCommitment, error)
	}
}

func NewStorage(db GenericQueryer) *Storage {
	return &Storage{
		Irregularities: &IrregularityStore{db: db},
	}
}
