package report

import (
	"fmt"
	"sort"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

// RankByRisk returns the findings ordered by descending risk assessment
// score. Ties keep their original order.
func RankByRisk(findings []finding.Finding) []finding.Finding {
	ranked := make([]finding.Finding, len(findings))
	copy(ranked, findings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return RiskScore(ranked[i]) > RiskScore(ranked[j])
	})
	return ranked
}

func (r *Renderer) renderRisk(agg *Aggregate) *document {
	doc := r.portrait(agg)
	doc.pdf.AddPage()
	doc.title(VariantRisk.Title())
	doc.field("Auditoría", agg.Audit.Name)
	doc.pdf.Ln(2)

	if len(agg.Findings) == 0 {
		doc.notice(noFindings)
		return doc
	}

	bands := map[string]int{}
	t := doc.newTable([]float64{80, 25, 30, 25, 20}, "Hallazgo", "Impacto", "Probabilidad", "Puntaje", "Nivel")
	for _, f := range RankByRisk(agg.Findings) {
		likelihood, impact := RiskFactors(f)
		score := likelihood * impact
		band := RiskBand(score)
		bands[band]++
		t.row(truncate(f.Title, 30), fmt.Sprint(impact), fmt.Sprint(likelihood), fmt.Sprint(score), band)
	}

	doc.heading("Resumen por nivel de riesgo")
	for _, band := range RiskBands {
		doc.bullet(fmt.Sprintf("%s: %d", band, bands[band]))
	}
	return doc
}
