package report

import (
	"fmt"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

const topFindings = 5

func (r *Renderer) renderExecutive(agg *Aggregate) *document {
	doc := r.portrait(agg)
	doc.pdf.AddPage()
	doc.title(VariantExecutive.Title())

	a := agg.Audit
	doc.heading("Información general")
	doc.field("Auditoría", a.Name)
	doc.field("Estado", auditStatusLabel(a.Status))
	doc.field("Periodo", period(a))
	if a.Description != "" {
		doc.paragraph(a.Description)
	}

	rate := ComplianceRate(agg.Assessments)
	doc.heading("Indicadores clave")
	doc.field("Tasa de cumplimiento", fmt.Sprintf("%.1f%%", rate))
	doc.field("Controles evaluados", fmt.Sprint(evaluated(agg.Assessments)))
	doc.field("Controles que cumplen", fmt.Sprint(CountCompliance(agg.Assessments).Compliant))
	doc.field("Total de hallazgos", fmt.Sprint(len(agg.Findings)))
	doc.field("Hallazgos críticos y altos", fmt.Sprint(criticalOrHigh(agg.Findings)))
	if len(agg.Assessments) == 0 {
		doc.notice(noAssessments)
	}

	doc.heading("Conclusión")
	doc.paragraph(conclusion(rate))

	doc.heading("Principales hallazgos")
	if len(agg.Findings) == 0 {
		doc.notice(noFindings)
		return doc
	}
	for i, f := range agg.Findings {
		if i == topFindings {
			break
		}
		doc.bullet(fmt.Sprintf("[%s] %s", severityLabel(f.Severity), f.Title))
	}
	return doc
}

// conclusion picks the closing paragraph from the compliance rate.
func conclusion(rate float64) string {
	switch {
	case rate >= 80:
		return "El nivel de cumplimiento es satisfactorio. Los controles evaluados operan de forma " +
			"adecuada y se recomienda mantener el monitoreo continuo."
	case rate >= 60:
		return "El nivel de cumplimiento es aceptable, aunque existen brechas que deben atenderse. " +
			"Se recomienda priorizar los planes de acción de los hallazgos abiertos."
	default:
		return "El nivel de cumplimiento es insuficiente. Se requiere atención inmediata de la " +
			"dirección para remediar las deficiencias identificadas."
	}
}

func evaluated(assessments []assessment.Assessment) int {
	n := 0
	for _, a := range assessments {
		if a.Compliance != assessment.ComplianceUnset {
			n++
		}
	}
	return n
}

func criticalOrHigh(findings []finding.Finding) int {
	n := 0
	for _, f := range findings {
		if f.Severity == finding.SeverityCritical || f.Severity == finding.SeverityHigh {
			n++
		}
	}
	return n
}
