package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/farxc/envelopa-irregularidades/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	countStyle = lipgloss.NewStyle().Bold(true)
	alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D26A"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF3838"))
)

const labelWidth = 44

func renderJSON(w io.Writer, rep report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// renderTable prints the dashboard header: one line per category plus the
// total paid beyond settlement, then the failure message if any.
func renderTable(w io.Writer, rep report.Report) error {
	s := rep.Summary()

	rows := []struct {
		label string
		value int
	}{
		{"Pagamentos sem empenho", s.UnlinkedPayments},
		{"Contratos com pagamento acima do contratado", s.OverpaidContracts},
		{"Fornecedores/entidades com CNPJ invalido", s.InvalidTaxIDs},
		{"Empenhos pagos acima do liquidado", s.OversettledCommitments},
		{"Erros de cronologia", s.ChronologyErrors},
	}

	var b strings.Builder
	for _, r := range rows {
		style := okStyle
		if r.value > 0 {
			style = alertStyle
		}
		b.WriteString(labelStyle.Render(padRight(r.label, labelWidth)))
		b.WriteString(style.Render(fmt.Sprintf("%d", r.value)))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(padRight("Diferenca total paga a mais", labelWidth)))
	b.WriteString(countStyle.Render(report.FormatBRL(s.TotalOversettledDifference)))

	status := okStyle.Render("OK")
	if rep.Failed {
		status = errorStyle.Render("FALHA")
	}

	if _, err := fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Irregularidades "+rep.ID), status); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, boxStyle.Render(b.String())); err != nil {
		return err
	}

	if rep.Failed {
		if _, err := fmt.Fprintln(w, errorStyle.Render("Erro: "+rep.Error)); err != nil {
			return err
		}
		for _, section := range report.Sections {
			if msg, ok := rep.SectionErrors[section]; ok {
				if _, err := fmt.Fprintf(w, "  %s: %s\n", section, msg); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func padRight(s string, width int) string {
	padding := width - lipgloss.Width(s)
	if padding <= 0 {
		return s
	}
	return s + strings.Repeat(" ", padding)
}
