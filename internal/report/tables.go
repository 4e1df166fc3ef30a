package report

import (
	"math"

	"github.com/farxc/envelopa-irregularidades/internal/store"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DefaultBarLimit is how many commitments the over-settled bar chart shows.
const DefaultBarLimit = 20

// ScatterPoint is one overpaid contract plotted as contracted amount against
// overage percentage.
type ScatterPoint struct {
	ContractID        int64   `json:"contract_id"`
	ContractedAmount  float64 `json:"contracted_amount"`
	OveragePercentage float64 `json:"overage_percentage"`
	OverageAmount     float64 `json:"overage_amount"`
}

// Bar pairs what was settled and what was paid for one commitment.
type Bar struct {
	CommitmentID  int64   `json:"commitment_id"`
	SettledAmount float64 `json:"settled_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	Difference    float64 `json:"difference"`
}

// ExcessPercentage is how much was paid beyond what was settled, relative to
// the settled total. Nothing settled at all counts as 100%.
func ExcessPercentage(c store.OversettledCommitment) float64 {
	if c.SettledAmount == 0 {
		return 100
	}
	return c.Difference / c.SettledAmount * 100
}

// OverpaidContractsTable returns the rows ordered by overage percentage,
// highest first. Contracts without a percentage (zero contracted amount) go last.
func OverpaidContractsTable(rows []store.OverpaidContract) ([]store.OverpaidContract, error) {
	pct := make([]float64, len(rows))
	for i, r := range rows {
		if r.OveragePercentage == nil {
			pct[i] = math.NaN()
			continue
		}
		pct[i] = *r.OveragePercentage
	}

	order, err := descendingOrder(series.New(pct, series.Float, "porcentagem_excesso"))
	if err != nil {
		return nil, err
	}

	sorted := make([]store.OverpaidContract, 0, len(rows))
	for _, i := range order {
		r := rows[i]
		r.OverageAmount = r.PaidAmount - r.ContractedAmount
		sorted = append(sorted, r)
	}
	return sorted, nil
}

// OversettledCommitmentsTable returns the rows ordered by difference, highest
// first, with the excess percentage filled in.
func OversettledCommitmentsTable(rows []store.OversettledCommitment) ([]store.OversettledCommitment, error) {
	diff := make([]float64, len(rows))
	for i, r := range rows {
		diff[i] = r.Difference
	}

	order, err := descendingOrder(series.New(diff, series.Float, "diferenca"))
	if err != nil {
		return nil, err
	}

	sorted := make([]store.OversettledCommitment, 0, len(rows))
	for _, i := range order {
		r := rows[i]
		r.ExcessPercentage = ExcessPercentage(r)
		sorted = append(sorted, r)
	}
	return sorted, nil
}

// OverpaidScatter builds the scatter chart data. Contracts without a
// percentage cannot be plotted and are left out.
func OverpaidScatter(rows []store.OverpaidContract) ([]ScatterPoint, error) {
	sorted, err := OverpaidContractsTable(rows)
	if err != nil {
		return nil, err
	}

	points := []ScatterPoint{}
	for _, r := range sorted {
		if r.OveragePercentage == nil {
			continue
		}
		points = append(points, ScatterPoint{
			ContractID:        r.ContractID,
			ContractedAmount:  r.ContractedAmount,
			OveragePercentage: *r.OveragePercentage,
			OverageAmount:     r.OverageAmount,
		})
	}
	return points, nil
}

// OversettledBars returns the top commitments by difference. A limit of zero
// or less means DefaultBarLimit.
func OversettledBars(rows []store.OversettledCommitment, limit int) ([]Bar, error) {
	if limit <= 0 {
		limit = DefaultBarLimit
	}

	sorted, err := OversettledCommitmentsTable(rows)
	if err != nil {
		return nil, err
	}
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	bars := make([]Bar, 0, len(sorted))
	for _, r := range sorted {
		bars = append(bars, Bar{
			CommitmentID:  r.CommitmentID,
			SettledAmount: r.SettledAmount,
			PaidAmount:    r.PaidAmount,
			Difference:    r.Difference,
		})
	}
	return bars, nil
}

// TotalDifference sums the paid-beyond-settled amounts.
func TotalDifference(rows []store.OversettledCommitment) float64 {
	if len(rows) == 0 {
		return 0
	}

	diff := make([]float64, len(rows))
	for i, r := range rows {
		diff[i] = r.Difference
	}
	return series.New(diff, series.Float, "diferenca").Sum()
}

// descendingOrder sorts the row positions by key, highest first. NaN keys
// are kept at the end and ties keep their original order.
func descendingOrder(key series.Series) ([]int, error) {
	n := key.Len()
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	if n < 2 {
		return positions, nil
	}

	df := dataframe.New(
		series.New(positions, series.Int, "row"),
		key,
	)
	sorted := df.Arrange(dataframe.RevSort(key.Name))
	if sorted.Err != nil {
		return nil, sorted.Err
	}
	return sorted.Col("row").Int()
}
