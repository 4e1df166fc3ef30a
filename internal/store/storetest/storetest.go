// Package storetest builds throwaway SQLite copies of the spending dataset for tests.
package storetest

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Fixture struct {
	Contracts    []store.Contract
	Commitments  []store.Commitment
	Payments     []store.Payment
	Liquidations []store.Liquidation
	Suppliers    []store.Supplier
	Entities     []store.Entity
}

// NewDB returns a migrated, empty dataset living in t.TempDir().
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "dataset.db") + "?_time_format=sqlite"
	require.NoError(t, runMigrations(dsn))

	db, err := sqlx.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

// runMigrations uses its own handle because closing the migrator closes the database.
func runMigrations(dsn string) error {
	migrateDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func Seed(t testing.TB, db *sqlx.DB, f Fixture) {
	t.Helper()

	inserts := []struct {
		query string
		rows  func() []any
	}{
		{`INSERT INTO contrato (id_contrato, valor) VALUES (:id_contrato, :valor)`, func() []any { return toAny(f.Contracts) }},
		{`INSERT INTO empenho (id_empenho, id_contrato, valor, data_empenho) VALUES (:id_empenho, :id_contrato, :valor, :data_empenho)`, func() []any { return toAny(f.Commitments) }},
		{`INSERT INTO pagamento (id_pagamento, id_empenho, valor, datapagamentoempenho) VALUES (:id_pagamento, :id_empenho, :valor, :datapagamentoempenho)`, func() []any { return toAny(f.Payments) }},
		{`INSERT INTO liquidacao_nota_fiscal (id_liquidacao_empenhonotafiscal, id_empenho, valor, data_emissao) VALUES (:id_liquidacao_empenhonotafiscal, :id_empenho, :valor, :data_emissao)`, func() []any { return toAny(f.Liquidations) }},
		{`INSERT INTO fornecedor (id_fornecedor, nome, documento) VALUES (:id_fornecedor, :nome, :documento)`, func() []any { return toAny(f.Suppliers) }},
		{`INSERT INTO entidade (id_entidade, nome, cnpj) VALUES (:id_entidade, :nome, :cnpj)`, func() []any { return toAny(f.Entities) }},
	}

	for _, ins := range inserts {
		for _, row := range ins.rows() {
			_, err := db.NamedExec(ins.query, row)
			require.NoError(t, err, "seed %s", ins.query)
		}
	}
}

func toAny[T any](rows []T) []any {
	out := make([]any, len(rows))
	for i := range rows {
		out[i] = rows[i]
	}
	return out
}

// Date parses a YYYY-MM-DD literal as UTC midnight.
func Date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ID(v int64) *int64 { return &v }

func Doc(s string) *string { return &s }
