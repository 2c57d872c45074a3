package report

import (
	"fmt"
	"strings"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

func (r *Renderer) renderFindings(agg *Aggregate) *document {
	doc := r.landscape(agg)
	doc.pdf.AddPage()
	doc.title(VariantFindings.Title())
	doc.field("Auditoría", agg.Audit.Name)
	doc.pdf.Ln(2)

	if len(agg.Findings) == 0 {
		doc.notice(noFindings)
		return doc
	}

	t := doc.newTable([]float64{12, 95, 30, 45, 55, 30}, "#", "Título", "Severidad", "Estado", "Responsable", "Fecha límite")
	for i, f := range agg.Findings {
		t.row(
			fmt.Sprint(i+1),
			truncate(f.Title, 40),
			strings.ToUpper(string(f.Severity)),
			findingStatusLabel(f.Status),
			ownerLabel(f),
			formatDate(f.DueDate),
		)
	}

	doc.pdf.AddPage()
	doc.title("Hallazgos por Severidad")
	for _, sc := range SeverityTotals(agg.Findings) {
		if sc.Count == 0 {
			continue
		}
		doc.heading(fmt.Sprintf("%s (%d)", strings.ToUpper(string(sc.Severity)), sc.Count))
		for _, f := range agg.Findings {
			if f.Severity != sc.Severity {
				continue
			}
			findingSummary(doc, f)
		}
	}
	return doc
}

func findingSummary(doc *document, f finding.Finding) {
	doc.ensureSpace(18)
	doc.subheading(f.Title)
	if f.Description != "" {
		doc.paragraph(truncate(f.Description, 150))
	}
}
