package report

import "strconv"

func (r *Renderer) renderControlStatus(agg *Aggregate) *document {
	doc := r.landscape(agg)
	doc.pdf.AddPage()
	doc.title(VariantControlStatus.Title())
	doc.field("Auditoría", agg.Audit.Name)
	doc.pdf.Ln(2)

	if len(agg.Assessments) == 0 {
		doc.notice(noAssessments)
		return doc
	}

	t := doc.newTable([]float64{30, 90, 25, 50, 25, 47}, "Control", "Enunciado", "Dominio", "Cumplimiento", "Puntaje", "Estado")
	for _, a := range agg.Assessments {
		code, statement := "-", ""
		if a.Control != nil {
			code, statement = a.Control.Code, a.Control.Statement
		}
		score := "-"
		if a.Score != nil {
			score = strconv.Itoa(*a.Score)
		}
		status := string(a.Status)
		if status == "" {
			status = "-"
		}
		t.row(code, truncate(statement, 35), domainOf(a), complianceLabel(a.Compliance), score, status)
	}
	return doc
}
