package report

import (
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/store"
)

// Section names one independent query group of the report.
type Section string

const (
	SectionUnlinkedPayments       Section = "unlinked_payments"
	SectionInvalidTaxIDs          Section = "invalid_tax_ids"
	SectionOverpaidContracts      Section = "overpaid_contracts"
	SectionOversettledCommitments Section = "oversettled_commitments"
	SectionChronology             Section = "chronology"
)

var Sections = []Section{
	SectionUnlinkedPayments,
	SectionInvalidTaxIDs,
	SectionOverpaidContracts,
	SectionOversettledCommitments,
	SectionChronology,
}

// Chronology keeps payments and settlements apart since they are different
// child records of a commitment.
type Chronology struct {
	PaymentsBeforeCommitment    []store.PaymentBeforeCommitment    `json:"payments_before_commitment"`
	SettlementsBeforeCommitment []store.SettlementBeforeCommitment `json:"settlements_before_commitment"`
}

// Report is the result of one run. When Failed is set the result sets must
// not be read as an absence of irregularities.
type Report struct {
	ID            string             `json:"id"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Failed        bool               `json:"failed"`
	Error         string             `json:"error,omitempty"`
	SectionErrors map[Section]string `json:"section_errors,omitempty"`

	UnlinkedPayments       []store.UnlinkedPayment       `json:"unlinked_payments"`
	InvalidTaxIDs          []store.InvalidTaxID          `json:"invalid_tax_ids"`
	OverpaidContracts      []store.OverpaidContract      `json:"overpaid_contracts"`
	OversettledCommitments []store.OversettledCommitment `json:"oversettled_commitments"`
	Chronology             Chronology                    `json:"chronology"`
}

type Summary struct {
	Failed                      bool    `json:"failed"`
	Error                       string  `json:"error,omitempty"`
	UnlinkedPayments            int     `json:"unlinked_payments"`
	OverpaidContracts           int     `json:"overpaid_contracts"`
	InvalidTaxIDs               int     `json:"invalid_tax_ids"`
	OversettledCommitments      int     `json:"oversettled_commitments"`
	ChronologyErrors            int     `json:"chronology_errors"`
	PaymentsBeforeCommitment    int     `json:"payments_before_commitment"`
	SettlementsBeforeCommitment int     `json:"settlements_before_commitment"`
	TotalOversettledDifference  float64 `json:"total_oversettled_difference"`
}

func emptyReport(id string, generatedAt time.Time) Report {
	return Report{
		ID:                     id,
		GeneratedAt:            generatedAt,
		UnlinkedPayments:       []store.UnlinkedPayment{},
		InvalidTaxIDs:          []store.InvalidTaxID{},
		OverpaidContracts:      []store.OverpaidContract{},
		OversettledCommitments: []store.OversettledCommitment{},
		Chronology: Chronology{
			PaymentsBeforeCommitment:    []store.PaymentBeforeCommitment{},
			SettlementsBeforeCommitment: []store.SettlementBeforeCommitment{},
		},
	}
}

// Summary returns the per-category counts shown on the dashboard header.
func (r Report) Summary() Summary {
	return Summary{
		Failed:                      r.Failed,
		Error:                       r.Error,
		UnlinkedPayments:            len(r.UnlinkedPayments),
		OverpaidContracts:           len(r.OverpaidContracts),
		InvalidTaxIDs:               len(r.InvalidTaxIDs),
		OversettledCommitments:      len(r.OversettledCommitments),
		ChronologyErrors:            len(r.Chronology.PaymentsBeforeCommitment) + len(r.Chronology.SettlementsBeforeCommitment),
		PaymentsBeforeCommitment:    len(r.Chronology.PaymentsBeforeCommitment),
		SettlementsBeforeCommitment: len(r.Chronology.SettlementsBeforeCommitment),
		TotalOversettledDifference:  TotalDifference(r.OversettledCommitments),
	}
}

// Count returns the number of findings for a section.
func (r Report) Count(s Section) int {
	switch s {
	case SectionUnlinkedPayments:
		return len(r.UnlinkedPayments)
	case SectionInvalidTaxIDs:
		return len(r.InvalidTaxIDs)
	case SectionOverpaidContracts:
		return len(r.OverpaidContracts)
	case SectionOversettledCommitments:
		return len(r.OversettledCommitments)
	case SectionChronology:
		return len(r.Chronology.PaymentsBeforeCommitment) + len(r.Chronology.SettlementsBeforeCommitment)
	}
	return 0
}
