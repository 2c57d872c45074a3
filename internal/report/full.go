package report

import (
	"fmt"
	"strconv"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

func (r *Renderer) renderFull(agg *Aggregate) *document {
	doc := r.portrait(agg)
	fullCover(doc, agg)
	fullSummary(doc, agg)
	fullAssessments(doc, agg.Assessments)
	fullFindings(doc, agg.Findings)
	return doc
}

func fullCover(doc *document, agg *Aggregate) {
	pdf := doc.pdf
	pdf.AddPage()
	pdf.SetY(80)
	pdf.SetFont(fontFamily, "B", 24)
	doc.setColor(colorPrimary)
	pdf.CellFormat(0, 14, doc.tr(VariantFull.Title()), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont(fontFamily, "B", 16)
	doc.setColor(colorText)
	pdf.MultiCell(0, 9, doc.tr(agg.Audit.Name), "", "C", false)
	pdf.Ln(6)
	pdf.SetFont(fontFamily, "", 12)
	pdf.CellFormat(0, 8, doc.tr("Estado: "+auditStatusLabel(agg.Audit.Status)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, doc.tr("Periodo: "+period(agg.Audit)), "", 1, "C", false, 0, "")
}

func fullSummary(doc *document, agg *Aggregate) {
	doc.pdf.AddPage()
	doc.title("Resumen Ejecutivo")

	counts := CountCompliance(agg.Assessments)
	gap := 4.0
	w := (doc.contentWidth() - 3*gap) / 4
	y := doc.pdf.GetY()
	doc.metricBox(marginLeft, y, w, colorPrimary, strconv.Itoa(counts.Total), "Total de controles")
	doc.metricBox(marginLeft+(w+gap), y, w, colorGreen, strconv.Itoa(counts.Compliant), "Cumplen")
	doc.metricBox(marginLeft+2*(w+gap), y, w, colorAmber, strconv.Itoa(counts.Partial), "Parcialmente")
	doc.metricBox(marginLeft+3*(w+gap), y, w, colorRed, strconv.Itoa(counts.NonCompliant), "No cumplen")
	doc.pdf.SetXY(marginLeft, y+30)

	doc.pdf.SetFont(fontFamily, "B", 14)
	doc.pdf.CellFormat(0, 10, doc.tr(fmt.Sprintf("Tasa de cumplimiento: %.1f%%", ComplianceRate(agg.Assessments))), "", 1, "L", false, 0, "")
	if counts.Total == 0 {
		doc.notice(noAssessments)
	}

	doc.heading("Hallazgos por severidad")
	bySeverity := SeverityCounts(agg.Findings)
	if len(bySeverity) == 0 {
		doc.notice(noFindings)
		return
	}
	for _, sc := range bySeverity {
		doc.bullet(fmt.Sprintf("%s: %d", severityLabel(sc.Severity), sc.Count))
	}
}

func fullAssessments(doc *document, assessments []assessment.Assessment) {
	doc.pdf.AddPage()
	doc.title("Detalle de Evaluaciones")
	if len(assessments) == 0 {
		doc.notice(noAssessments)
		return
	}

	pdf := doc.pdf
	for _, a := range assessments {
		doc.ensureSpace(24)
		code, statement := "-", ""
		if a.Control != nil {
			code, statement = a.Control.Code, a.Control.Statement
		}
		score := "-"
		if a.Score != nil {
			score = strconv.Itoa(*a.Score)
		}

		pdf.SetFont(fontFamily, "B", 10)
		pdf.CellFormat(0, lineHeight, doc.tr(fmt.Sprintf("%s  |  %s  |  Puntaje: %s", code, complianceLabel(a.Compliance), score)), "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 9)
		pdf.MultiCell(0, 5, doc.tr(truncate(statement, 80)), "", "L", false)
		if a.Notes != "" {
			pdf.SetFont(fontFamily, "", 8)
			doc.setColor(colorMuted)
			pdf.MultiCell(0, 5, doc.tr("Notas: "+truncate(a.Notes, 100)), "", "L", false)
			doc.setColor(colorText)
		}
		doc.rule()
	}
}

func fullFindings(doc *document, findings []finding.Finding) {
	doc.pdf.AddPage()
	doc.title("Hallazgos Detallados")
	if len(findings) == 0 {
		doc.notice(noFindings)
		return
	}

	pdf := doc.pdf
	for _, f := range findings {
		doc.ensureSpace(30)
		startPage, top := pdf.PageNo(), pdf.GetY()

		pdf.SetX(marginLeft + 5)
		pdf.SetFont(fontFamily, "B", 11)
		pdf.MultiCell(0, 6, doc.tr(f.Title), "", "L", false)
		pdf.SetX(marginLeft + 5)
		pdf.SetFont(fontFamily, "", 9)
		pdf.CellFormat(0, 5, doc.tr(fmt.Sprintf("Severidad: %s  |  Estado: %s", severityLabel(f.Severity), findingStatusLabel(f.Status))), "", 1, "L", false, 0, "")
		if f.Description != "" {
			pdf.SetX(marginLeft + 5)
			pdf.MultiCell(0, 5, doc.tr(f.Description), "", "L", false)
		}
		if f.ActionPlan != "" {
			pdf.SetX(marginLeft + 5)
			pdf.SetFont(fontFamily, "I", 9)
			pdf.MultiCell(0, 5, doc.tr("Plan de acción: "+f.ActionPlan), "", "L", false)
		}

		doc.severityBar(severityColor(f.Severity), startPage, top, pdf.PageNo(), pdf.GetY())
		pdf.Ln(4)
	}
}

// severityBar fills the left edge of a block that may span several pages,
// one segment per page.
func (d *document) severityBar(c rgb, startPage int, top float64, endPage int, bottom float64) {
	pdf := d.pdf
	_, pageH := pdf.GetPageSize()
	for p := startPage; p <= endPage; p++ {
		y0, y1 := marginTop, pageH-marginBottom
		if p == startPage {
			y0 = top
		}
		if p == endPage {
			y1 = bottom
		}
		if y1 <= y0 {
			continue
		}
		pdf.SetPage(p)
		pdf.SetFillColor(c.r, c.g, c.b)
		pdf.Rect(marginLeft, y0, 3, y1-y0, "F")
	}
	pdf.SetPage(endPage)
}
