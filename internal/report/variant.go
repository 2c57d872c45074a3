// Package report renders COBIT audit reports as PDF documents.
package report

import (
	"fmt"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

// Variant is one of the fixed report templates.
type Variant string

const (
	VariantFull          Variant = "full"
	VariantExecutive     Variant = "executive"
	VariantCompliance    Variant = "compliance"
	VariantFindings      Variant = "findings"
	VariantRisk          Variant = "risk"
	VariantControlStatus Variant = "control_status"
	VariantTrend         Variant = "trend"
	VariantActionPlan    Variant = "action_plan"
)

// Variants returns every report variant in menu order.
func Variants() []Variant {
	return []Variant{
		VariantFull,
		VariantExecutive,
		VariantCompliance,
		VariantFindings,
		VariantRisk,
		VariantControlStatus,
		VariantTrend,
		VariantActionPlan,
	}
}

// ParseVariant converts a variant identifier into a Variant.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown report variant %q", s)
}

// Title is the heading printed on the first page of the variant.
func (v Variant) Title() string {
	switch v {
	case VariantFull:
		return "Informe de Auditoría COBIT 5"
	case VariantExecutive:
		return "Resumen Ejecutivo"
	case VariantCompliance:
		return "Cumplimiento por Dominio"
	case VariantFindings:
		return "Informe de Hallazgos"
	case VariantRisk:
		return "Evaluación de Riesgos"
	case VariantControlStatus:
		return "Estado de Controles"
	case VariantTrend:
		return "Análisis de Tendencias"
	case VariantActionPlan:
		return "Plan de Acción"
	}
	return string(v)
}

// Aggregate is the snapshot of one audit that a report is rendered from.
type Aggregate struct {
	Audit       *audit.Audit
	Assessments []assessment.Assessment
	Findings    []finding.Finding
}

// RenderError reports a layout failure for one report.
type RenderError struct {
	Variant Variant
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s report: %v", e.Variant, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
