package main

import (
	"net/http"

	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/farxc/envelopa-irregularidades/internal/response"
	"github.com/farxc/envelopa-irregularidades/internal/store"
)

type GetReportResponse = response.APIResponse[report.Report]
type GetSummaryResponse = response.APIResponse[report.Summary]
type GetUnlinkedPaymentsResponse = response.APIResponse[[]store.UnlinkedPayment]
type GetInvalidTaxIDsResponse = response.APIResponse[[]store.InvalidTaxID]
type GetOverpaidContractsResponse = response.APIResponse[[]store.OverpaidContract]
type GetOversettledCommitmentsResponse = response.APIResponse[[]store.OversettledCommitment]
type GetChronologyResponse = response.APIResponse[report.Chronology]
type GetOverpaidScatterResponse = response.APIResponse[[]report.ScatterPoint]
type GetOversettledBarsResponse = response.APIResponse[[]report.Bar]

// writeReportData answers 200 either way; a failed report is signalled by
// success=false and the failure message.
func writeReportData[T any](w http.ResponseWriter, rep report.Report, data T, message string) {
	resp := response.OK(data, message)
	if rep.Failed {
		resp = response.Failed(data, rep.Error)
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())
	writeReportData(w, rep, rep, "Irregularities report generated")
}

func (app *application) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())
	writeReportData(w, rep, rep.Summary(), "Irregularities summary generated")
}

func (app *application) handleGetUnlinkedPayments(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())
	writeReportData(w, rep, rep.UnlinkedPayments, "Payments without a matching commitment")
}

func (app *application) handleGetInvalidTaxIDs(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())
	writeReportData(w, rep, rep.InvalidTaxIDs, "Suppliers and entities with invalid CNPJ")
}

func (app *application) handleGetOverpaidContracts(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())

	rows, err := report.OverpaidContractsTable(rep.OverpaidContracts)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to build overpaid contracts table: "+err.Error())
		return
	}
	writeReportData(w, rep, rows, "Contracts paid beyond their contracted value")
}

func (app *application) handleGetOversettledCommitments(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())

	rows, err := report.OversettledCommitmentsTable(rep.OversettledCommitments)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to build oversettled commitments table: "+err.Error())
		return
	}
	writeReportData(w, rep, rows, "Commitments paid beyond their settled amount")
}

func (app *application) handleGetChronology(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())
	writeReportData(w, rep, rep.Chronology, "Payments and settlements dated before their commitment")
}

func (app *application) handleGetOverpaidScatter(w http.ResponseWriter, r *http.Request) {
	rep := app.reports.Run(r.Context())

	points, err := report.OverpaidScatter(rep.OverpaidContracts)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to build overpaid contracts chart: "+err.Error())
		return
	}
	writeReportData(w, rep, points, "Contracted value against overage percentage")
}

func (app *application) handleGetOversettledBars(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, report.DefaultBarLimit)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep := app.reports.Run(r.Context())

	bars, err := report.OversettledBars(rep.OversettledCommitments, limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to build oversettled commitments chart: "+err.Error())
		return
	}
	writeReportData(w, rep, bars, "Top commitments by amount paid beyond settlement")
}
