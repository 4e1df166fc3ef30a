package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type IrregularityStore struct {
	db GenericQueryer
}

func NewIrregularityStore(db GenericQueryer) *IrregularityStore {
	return &IrregularityStore{db: db}
}

/*
All queries are read-only and written in the SQL subset shared by PostgreSQL
and SQLite. Amount arithmetic multiplies by 100.0 before dividing so integer
affinity never truncates the percentage.
*/

func (is *IrregularityStore) FindUnlinkedPayments(ctx context.Context) ([]UnlinkedPayment, error) {
	query := `
	SELECT
		p.id_pagamento,
		p.id_empenho AS id_empenho_inexistente,
		p.valor
	FROM
		pagamento p
	LEFT JOIN
		empenho e ON p.id_empenho = e.id_empenho
	WHERE
		e.id_empenho IS NULL
	ORDER BY
		p.id_pagamento;
	`

	result := []UnlinkedPayment{}
	if err := sqlx.SelectContext(ctx, is.db, &result, query); err != nil {
		return nil, fmt.Errorf("failed to query unlinked payments: %w", err)
	}
	return result, nil
}

func (is *IrregularityStore) FindInvalidTaxIDs(ctx context.Context) ([]InvalidTaxID, error) {
	suppliersQuery := `
	SELECT
		id_fornecedor AS id,
		COALESCE(nome, '') AS nome,
		documento,
		'Fornecedor' AS tipo
	FROM
		fornecedor
	WHERE
		LENGTH(REPLACE(REPLACE(REPLACE(TRIM(documento), '.', ''), '/', ''), '-', '')) != 14
	ORDER BY
		id_fornecedor;
	`

	entitiesQuery := `
	SELECT
		id_entidade AS id,
		COALESCE(nome, '') AS nome,
		cnpj AS documento,
		'Entidade' AS tipo
	FROM
		entidade
	WHERE
		LENGTH(REPLACE(REPLACE(REPLACE(TRIM(cnpj), '.', ''), '/', ''), '-', '')) != 14
	ORDER BY
		id_entidade;
	`

	suppliers := []InvalidTaxID{}
	if err := sqlx.SelectContext(ctx, is.db, &suppliers, suppliersQuery); err != nil {
		return nil, fmt.Errorf("failed to query supplier tax ids: %w", err)
	}

	entities := []InvalidTaxID{}
	if err := sqlx.SelectContext(ctx, is.db, &entities, entitiesQuery); err != nil {
		return nil, fmt.Errorf("failed to query entity tax ids: %w", err)
	}

	return append(suppliers, entities...), nil
}

func (is *IrregularityStore) FindOverpaidContracts(ctx context.Context) ([]OverpaidContract, error) {
	query := `
	SELECT
		c.id_contrato,
		c.valor AS valor_contratado,
		COALESCE(SUM(p.valor), 0) AS valor_pago,
		ROUND((COALESCE(SUM(p.valor), 0) - c.valor) * 100.0 / NULLIF(c.valor, 0), 2) AS porcentagem_excesso
	FROM
		contrato c
	LEFT JOIN
		empenho e ON e.id_contrato = c.id_contrato
	LEFT JOIN
		pagamento p ON p.id_empenho = e.id_empenho
	GROUP BY
		c.id_contrato,
		c.valor
	HAVING
		COALESCE(SUM(p.valor), 0) > c.valor
	ORDER BY
		c.id_contrato;
	`

	result := []OverpaidContract{}
	if err := sqlx.SelectContext(ctx, is.db, &result, query); err != nil {
		return nil, fmt.Errorf("failed to query overpaid contracts: %w", err)
	}
	return result, nil
}

func (is *IrregularityStore) FindOversettledCommitments(ctx context.Context) ([]OversettledCommitment, error) {
	query := `
	WITH res_liquidacao AS (
		SELECT
			id_empenho,
			SUM(valor) AS total_liquidado
		FROM
			liquidacao_nota_fiscal
		GROUP BY
			id_empenho
	),

	res_pagamento AS (
		SELECT
			id_empenho,
			SUM(valor) AS total_pago
		FROM
			pagamento
		GROUP BY
			id_empenho
	)

	SELECT
		e.id_empenho,
		COALESCE(l.total_liquidado, 0) AS total_liquidado,
		COALESCE(p.total_pago, 0) AS total_pago,
		(COALESCE(p.total_pago, 0) - COALESCE(l.total_liquidado, 0)) AS diferenca
	FROM
		empenho e
	LEFT JOIN
		res_liquidacao l ON e.id_empenho = l.id_empenho
	LEFT JOIN
		res_pagamento p ON e.id_empenho = p.id_empenho
	WHERE
		COALESCE(p.total_pago, 0) > COALESCE(l.total_liquidado, 0)
	ORDER BY
		e.id_empenho;
	`

	result := []OversettledCommitment{}
	if err := sqlx.SelectContext(ctx, is.db, &result, query); err != nil {
		return nil, fmt.Errorf("failed to query oversettled commitments: %w", err)
	}
	return result, nil
}

func (is *IrregularityStore) FindPaymentsBeforeCommitment(ctx context.Context) ([]PaymentBeforeCommitment, error) {
	query := `
	SELECT
		e.id_empenho,
		p.id_pagamento,
		p.datapagamentoempenho,
		e.data_empenho
	FROM
		pagamento p
	JOIN
		empenho e ON e.id_empenho = p.id_empenho
	WHERE
		p.datapagamentoempenho < e.data_empenho
	ORDER BY
		e.id_empenho,
		p.id_pagamento;
	`

	result := []PaymentBeforeCommitment{}
	if err := sqlx.SelectContext(ctx, is.db, &result, query); err != nil {
		return nil, fmt.Errorf("failed to query payments before commitment: %w", err)
	}
	return result, nil
}

func (is *IrregularityStore) FindSettlementsBeforeCommitment(ctx context.Context) ([]SettlementBeforeCommitment, error) {
	query := `
	SELECT
		e.id_empenho,
		lnf.id_liquidacao_empenhonotafiscal,
		lnf.data_emissao,
		e.data_empenho
	FROM
		liquidacao_nota_fiscal lnf
	JOIN
		empenho e ON e.id_empenho = lnf.id_empenho
	WHERE
		lnf.data_emissao < e.data_empenho
	ORDER BY
		e.id_empenho,
		lnf.id_liquidacao_empenhonotafiscal;
	`

	result := []SettlementBeforeCommitment{}
	if err := sqlx.SelectContext(ctx, is.db, &result, query); err != nil {
		return nil, fmt.Errorf("failed to query settlements before commitment: %w", err)
	}
	return result, nil
}
