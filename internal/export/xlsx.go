// Package export renders a report as an XLSX workbook.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/farxc/envelopa-irregularidades/internal/store"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary                = "Resumo"
	SheetUnlinkedPayments       = "Pagamentos sem empenho"
	SheetInvalidTaxIDs          = "CNPJ invalidos"
	SheetOverpaidContracts      = "Contratos excedidos"
	SheetOversettledCommitments = "Empenhos excedidos"
	SheetPaymentsBefore         = "Pagamentos antes do empenho"
	SheetSettlementsBefore      = "Liquidacoes antes do empenho"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout  = "2006-01-02"
)

type column[T any] struct {
	Header string
	Value  func(T) any
}

// FileName is the object name used when the workbook is stored or downloaded.
func FileName(rep report.Report) string {
	return fmt.Sprintf("irregularidades_%s_%s.xlsx", rep.GeneratedAt.Format("20060102_150405"), rep.ID)
}

// Workbook builds the workbook for a report. A failed report only gets the
// summary sheet, carrying the error message.
func Workbook(rep report.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), SheetSummary)

	_ = f.SetDocProps(&excelize.DocProperties{
		Creator:     "envelopa-irregularidades",
		Identifier:  rep.ID,
		Title:       "Relatorio de irregularidades",
		Description: rep.Error,
	})

	if err := writeSummary(f, rep); err != nil {
		f.Close()
		return nil, err
	}
	if rep.Failed && len(rep.SectionErrors) == 0 {
		return f, nil
	}

	overpaid, err := report.OverpaidContractsTable(rep.OverpaidContracts)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to sort overpaid contracts: %w", err)
	}
	oversettled, err := report.OversettledCommitmentsTable(rep.OversettledCommitments)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to sort oversettled commitments: %w", err)
	}

	writers := []func() error{
		func() error {
			return writeSheet(f, SheetUnlinkedPayments, unlinkedPaymentColumns, rep.UnlinkedPayments)
		},
		func() error {
			return writeSheet(f, SheetInvalidTaxIDs, invalidTaxIDColumns, rep.InvalidTaxIDs)
		},
		func() error {
			return writeSheet(f, SheetOverpaidContracts, overpaidContractColumns, overpaid)
		},
		func() error {
			return writeSheet(f, SheetOversettledCommitments, oversettledCommitmentColumns, oversettled)
		},
		func() error {
			return writeSheet(f, SheetPaymentsBefore, paymentBeforeColumns, rep.Chronology.PaymentsBeforeCommitment)
		},
		func() error {
			return writeSheet(f, SheetSettlementsBefore, settlementBeforeColumns, rep.Chronology.SettlementsBeforeCommitment)
		},
	}
	for _, write := range writers {
		if err := write(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WriteXLSX writes the report workbook to w.
func WriteXLSX(w io.Writer, rep report.Report) error {
	f, err := Workbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Bytes returns the encoded workbook.
func Bytes(rep report.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, rep report.Report) error {
	s := rep.Summary()

	status := "OK"
	if rep.Failed {
		status = "FALHA"
	}

	rows := [][2]any{
		{"Relatorio", rep.ID},
		{"Gerado em", rep.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Situacao", status},
		{"Pagamentos sem empenho", s.UnlinkedPayments},
		{"Contratos excedidos", s.OverpaidContracts},
		{"CNPJ invalidos", s.InvalidTaxIDs},
		{"Empenhos com pagamento acima do liquidado", s.OversettledCommitments},
		{"Erros de cronologia", s.ChronologyErrors},
		{"Diferenca total paga a mais", s.TotalOversettledDifference},
	}
	if rep.Error != "" {
		rows = append(rows, [2]any{"Erro", rep.Error})
	}
	for _, section := range report.Sections {
		if msg, ok := rep.SectionErrors[section]; ok {
			rows = append(rows, [2]any{"Erro em " + string(section), msg})
		}
	}

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetSummary, cell, v); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
		}
	}
	return nil
}

func writeSheet[T any](f *excelize.File, sheet string, cols []column[T], rows []T) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return fmt.Errorf("failed to write header on %q: %w", sheet, err)
		}
	}

	rowIdx := 2
	for _, r := range rows {
		for colIdx, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, col.Value(r)); err != nil {
				return fmt.Errorf("failed to write row %d on %q: %w", rowIdx, sheet, err)
			}
		}
		rowIdx++
	}
	return nil
}

func optionalID(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}

func optionalFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

var unlinkedPaymentColumns = []column[store.UnlinkedPayment]{
	{"id_pagamento", func(r store.UnlinkedPayment) any { return r.PaymentID }},
	{"id_empenho_inexistente", func(r store.UnlinkedPayment) any { return optionalID(r.CommitmentID) }},
	{"valor", func(r store.UnlinkedPayment) any { return r.Amount }},
}

var invalidTaxIDColumns = []column[store.InvalidTaxID]{
	{"id", func(r store.InvalidTaxID) any { return r.ID }},
	{"nome", func(r store.InvalidTaxID) any { return r.Name }},
	{"documento", func(r store.InvalidTaxID) any { return r.Document }},
	{"documento_normalizado", func(r store.InvalidTaxID) any { return r.NormalizedDocument }},
	{"tipo", func(r store.InvalidTaxID) any { return string(r.Kind) }},
}

var overpaidContractColumns = []column[store.OverpaidContract]{
	{"id_contrato", func(r store.OverpaidContract) any { return r.ContractID }},
	{"valor_contratado", func(r store.OverpaidContract) any { return r.ContractedAmount }},
	{"valor_pago", func(r store.OverpaidContract) any { return r.PaidAmount }},
	{"excesso_reais", func(r store.OverpaidContract) any { return r.OverageAmount }},
	{"porcentagem_excesso", func(r store.OverpaidContract) any { return optionalFloat(r.OveragePercentage) }},
}

var oversettledCommitmentColumns = []column[store.OversettledCommitment]{
	{"id_empenho", func(r store.OversettledCommitment) any { return r.CommitmentID }},
	{"total_liquidado", func(r store.OversettledCommitment) any { return r.SettledAmount }},
	{"total_pago", func(r store.OversettledCommitment) any { return r.PaidAmount }},
	{"diferenca", func(r store.OversettledCommitment) any { return r.Difference }},
	{"porcentagem_excesso", func(r store.OversettledCommitment) any { return r.ExcessPercentage }},
}

var paymentBeforeColumns = []column[store.PaymentBeforeCommitment]{
	{"id_empenho", func(r store.PaymentBeforeCommitment) any { return r.CommitmentID }},
	{"id_pagamento", func(r store.PaymentBeforeCommitment) any { return r.PaymentID }},
	{"datapagamentoempenho", func(r store.PaymentBeforeCommitment) any { return r.PaymentDate.Format(dateLayout) }},
	{"data_empenho", func(r store.PaymentBeforeCommitment) any { return r.CommitmentDate.Format(dateLayout) }},
}

var settlementBeforeColumns = []column[store.SettlementBeforeCommitment]{
	{"id_empenho", func(r store.SettlementBeforeCommitment) any { return r.CommitmentID }},
	{"id_liquidacao_empenhonotafiscal", func(r store.SettlementBeforeCommitment) any { return r.SettlementID }},
	{"data_emissao", func(r store.SettlementBeforeCommitment) any { return r.IssueDate.Format(dateLayout) }},
	{"data_empenho", func(r store.SettlementBeforeCommitment) any { return r.CommitmentDate.Format(dateLayout) }},
}
