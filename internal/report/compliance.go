package report

import "fmt"

func (r *Renderer) renderCompliance(agg *Aggregate) *document {
	doc := r.portrait(agg)
	doc.pdf.AddPage()
	doc.title(VariantCompliance.Title())
	doc.field("Auditoría", agg.Audit.Name)
	doc.field("Cumplimiento global", fmt.Sprintf("%.1f%%", ComplianceRate(agg.Assessments)))

	domains := DomainBreakdown(agg.Assessments)
	if len(domains) == 0 {
		doc.notice(noAssessments)
		return doc
	}

	for _, d := range domains {
		doc.heading(domainTitle(d.Domain))
		doc.field("Total de controles", fmt.Sprint(d.Total))
		doc.field("Cumplen", fmt.Sprint(d.Compliant))
		doc.field("Cumplen parcialmente", fmt.Sprint(d.Partial))
		doc.field("No cumplen", fmt.Sprint(d.NonCompliant))
		doc.field("Tasa de cumplimiento", fmt.Sprintf("%.1f%%", d.Rate()))
		progressBar(doc, d.Rate())
	}
	return doc
}

func progressBar(doc *document, rate float64) {
	pdf := doc.pdf
	w := doc.contentWidth()
	y := pdf.GetY() + 1
	pdf.SetFillColor(colorGrey.r, colorGrey.g, colorGrey.b)
	pdf.Rect(marginLeft, y, w, 4, "F")
	c := colorRed
	switch {
	case rate >= 80:
		c = colorGreen
	case rate >= 60:
		c = colorAmber
	}
	pdf.SetFillColor(c.r, c.g, c.b)
	if rate > 0 {
		pdf.Rect(marginLeft, y, w*rate/100, 4, "F")
	}
	pdf.SetY(y + 7)
}
