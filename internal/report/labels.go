package report

import (
	"time"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/cobit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

const (
	noFindings    = "No se registraron hallazgos para esta auditoría."
	noAssessments = "No hay evaluaciones registradas para esta auditoría."
	noActions     = "No hay acciones pendientes."
	unassigned    = "Sin asignar"
	pending       = "Pendiente"
)

var auditStatusLabels = map[audit.Status]string{
	audit.StatusPlanned:    "Planificada",
	audit.StatusInProgress: "En curso",
	audit.StatusReview:     "En revisión",
	audit.StatusCompleted:  "Completada",
	audit.StatusCancelled:  "Cancelada",
}

var complianceLabels = map[assessment.Compliance]string{
	assessment.Compliant:          "Cumple",
	assessment.PartiallyCompliant: "Cumple parcialmente",
	assessment.NonCompliant:       "No cumple",
	assessment.NotApplicable:      "No aplica",
}

var findingStatusLabels = map[finding.Status]string{
	finding.StatusOpen:          "Abierto",
	finding.StatusInvestigating: "En investigación",
	finding.StatusActionPlanned: "Acción planificada",
	finding.StatusInRemediation: "En remediación",
	finding.StatusVerification:  "En verificación",
	finding.StatusClosed:        "Cerrado",
}

var severityLabels = map[finding.Severity]string{
	finding.SeverityCritical: "Crítica",
	finding.SeverityHigh:     "Alta",
	finding.SeverityMedium:   "Media",
	finding.SeverityLow:      "Baja",
}

var domainNames = map[string]string{
	string(cobit.DomainEDM): "Evaluar, Orientar y Supervisar",
	string(cobit.DomainAPO): "Alinear, Planificar y Organizar",
	string(cobit.DomainBAI): "Construir, Adquirir e Implementar",
	string(cobit.DomainDSS): "Entregar, Dar Servicio y Soporte",
	string(cobit.DomainMEA): "Supervisar, Evaluar y Valorar",
}

var severityColors = map[finding.Severity]rgb{
	finding.SeverityCritical: colorDarkRed,
	finding.SeverityHigh:     colorRed,
	finding.SeverityMedium:   colorAmber,
	finding.SeverityLow:      colorGreen,
}

func auditStatusLabel(s audit.Status) string {
	if v, ok := auditStatusLabels[s]; ok {
		return v
	}
	return string(s)
}

func complianceLabel(c assessment.Compliance) string {
	if v, ok := complianceLabels[c]; ok {
		return v
	}
	return pending
}

func findingStatusLabel(s finding.Status) string {
	if v, ok := findingStatusLabels[s]; ok {
		return v
	}
	return string(s)
}

func severityLabel(s finding.Severity) string {
	if v, ok := severityLabels[s]; ok {
		return v
	}
	return string(s)
}

func severityColor(s finding.Severity) rgb {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return colorGrey
}

func domainTitle(domain string) string {
	if name, ok := domainNames[domain]; ok {
		return domain + " - " + name
	}
	return domain
}

func ownerLabel(f finding.Finding) string {
	if name := f.OwnerName(); name != "" {
		return name
	}
	return unassigned
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

func period(a *audit.Audit) string {
	return formatDate(a.StartDate) + " - " + formatDate(a.EndDate)
}
