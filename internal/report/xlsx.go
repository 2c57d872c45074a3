package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	findingsSheet = "Hallazgos"
	domainsSheet  = "Dominios"
)

// ExportFindingsXLSX writes the audit's findings register and its domain
// compliance table to a spreadsheet.
func ExportFindingsXLSX(agg *Aggregate) ([]byte, error) {
	if agg == nil || agg.Audit == nil {
		return nil, fmt.Errorf("audit is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", findingsSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(domainsSheet); err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	headers := []any{"#", "Título", "Severidad", "Estado", "Probabilidad", "Impacto", "Riesgo", "Nivel", "Responsable", "Fecha límite", "Plan de acción"}
	rows := [][]any{headers}
	for i, fd := range agg.Findings {
		likelihood, impact := RiskFactors(fd)
		rows = append(rows, []any{
			i + 1,
			fd.Title,
			severityLabel(fd.Severity),
			findingStatusLabel(fd.Status),
			likelihood,
			impact,
			likelihood * impact,
			RiskBand(likelihood * impact),
			ownerLabel(fd),
			formatDate(fd.DueDate),
			fd.ActionPlan,
		})
	}
	if err := writeRows(f, findingsSheet, rows); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(findingsSheet, "A1", "K1", bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetColWidth(findingsSheet, "B", "B", 45); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}

	rows = [][]any{{"Dominio", "Total", "Cumple", "Parcial", "No cumple", "Tasa (%)"}}
	for _, d := range DomainBreakdown(agg.Assessments) {
		rows = append(rows, []any{d.Domain, d.Total, d.Compliant, d.Partial, d.NonCompliant, d.Rate()})
	}
	if err := writeRows(f, domainsSheet, rows); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(domainsSheet, "A1", "F1", bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}
