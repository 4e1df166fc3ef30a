package store

import (
	"time"
)

// Payment represents the 'pagamento' table.
type Payment struct {
	ID           int64     `db:"id_pagamento"`
	CommitmentID *int64    `db:"id_empenho"`
	Amount       float64   `db:"valor"`
	PaymentDate  time.Time `db:"datapagamentoempenho"`
}

// Commitment represents the 'empenho' table.
type Commitment struct {
	ID             int64     `db:"id_empenho"`
	ContractID     *int64    `db:"id_contrato"`
	Amount         float64   `db:"valor"`
	CommitmentDate time.Time `db:"data_empenho"`
}

// Liquidation represents the 'liquidacao_nota_fiscal' table, the settlement
// of a commitment against an invoice.
type Liquidation struct {
	ID           int64     `db:"id_liquidacao_empenhonotafiscal"`
	CommitmentID int64     `db:"id_empenho"`
	Amount       float64   `db:"valor"`
	IssueDate    time.Time `db:"data_emissao"`
}

// Contract represents the 'contrato' table.
type Contract struct {
	ID     int64   `db:"id_contrato"`
	Amount float64 `db:"valor"`
}

// Supplier represents the 'fornecedor' table.
type Supplier struct {
	ID       int64   `db:"id_fornecedor"`
	Name     string  `db:"nome"`
	Document *string `db:"documento"`
}

// Entity represents the 'entidade' table.
type Entity struct {
	ID   int64   `db:"id_entidade"`
	Name string  `db:"nome"`
	CNPJ *string `db:"cnpj"`
}

// UnlinkedPayment is a payment whose commitment reference resolves to no commitment.
// CommitmentID is nil when the payment carries no reference at all.
type UnlinkedPayment struct {
	PaymentID    int64   `db:"id_pagamento" json:"payment_id"`
	CommitmentID *int64  `db:"id_empenho_inexistente" json:"missing_commitment_id"`
	Amount       float64 `db:"valor" json:"amount"`
}

type TaxIDKind string

const (
	KindSupplier TaxIDKind = "Fornecedor"
	KindEntity   TaxIDKind = "Entidade"
)

type InvalidTaxID struct {
	ID                 int64     `db:"id" json:"id"`
	Name               string    `db:"nome" json:"name"`
	Document           string    `db:"documento" json:"document"`
	Kind               TaxIDKind `db:"tipo" json:"kind"`
	NormalizedDocument string    `db:"-" json:"normalized_document"`
}

type OverpaidContract struct {
	ContractID       int64   `db:"id_contrato" json:"contract_id"`
	ContractedAmount float64 `db:"valor_contratado" json:"contracted_amount"`
	PaidAmount       float64 `db:"valor_pago" json:"paid_amount"`
	// OveragePercentage is nil when the contracted amount is zero.
	OveragePercentage *float64 `db:"porcentagem_excesso" json:"overage_percentage"`
	OverageAmount     float64  `db:"-" json:"overage_amount"`
}

type OversettledCommitment struct {
	CommitmentID     int64   `db:"id_empenho" json:"commitment_id"`
	SettledAmount    float64 `db:"total_liquidado" json:"settled_amount"`
	PaidAmount       float64 `db:"total_pago" json:"paid_amount"`
	Difference       float64 `db:"diferenca" json:"difference"`
	ExcessPercentage float64 `db:"-" json:"excess_percentage"`
}

type PaymentBeforeCommitment struct {
	CommitmentID   int64     `db:"id_empenho" json:"commitment_id"`
	PaymentID      int64     `db:"id_pagamento" json:"payment_id"`
	PaymentDate    time.Time `db:"datapagamentoempenho" json:"payment_date"`
	CommitmentDate time.Time `db:"data_empenho" json:"commitment_date"`
}

type SettlementBeforeCommitment struct {
	CommitmentID   int64     `db:"id_empenho" json:"commitment_id"`
	SettlementID   int64     `db:"id_liquidacao_empenhonotafiscal" json:"settlement_id"`
	IssueDate      time.Time `db:"data_emissao" json:"issue_date"`
	CommitmentDate time.Time `db:"data_empenho" json:"commitment_date"`
}
