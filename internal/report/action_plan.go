package report

import (
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

// PendingActions selects findings that carry an action plan or are not yet closed.
func PendingActions(findings []finding.Finding) []finding.Finding {
	var out []finding.Finding
	for _, f := range findings {
		if f.ActionPlan != "" || f.Status != finding.StatusClosed {
			out = append(out, f)
		}
	}
	return out
}

func (r *Renderer) renderActionPlan(agg *Aggregate) *document {
	doc := r.portrait(agg)
	doc.pdf.AddPage()
	doc.title(VariantActionPlan.Title())
	doc.field("Auditoría", agg.Audit.Name)
	doc.pdf.Ln(2)

	actions := PendingActions(agg.Findings)
	if len(actions) == 0 {
		doc.notice(noActions)
		return doc
	}

	for _, f := range actions {
		doc.ensureSpace(40)
		doc.subheading(f.Title)
		doc.field("Severidad", severityLabel(f.Severity))
		doc.field("Estado", findingStatusLabel(f.Status))
		doc.field("Responsable", ownerLabel(f))
		doc.field("Fecha límite", formatDate(f.DueDate))
		if f.ActionPlan != "" {
			doc.paragraph("Plan de acción: " + f.ActionPlan)
		}
		doc.rule()
	}
	return doc
}
