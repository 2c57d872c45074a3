package report

import (
	"unicode/utf8"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

// OtherDomain buckets assessments whose control has no resolvable process.
const OtherDomain = "Otros"

// defaultRiskFactor stands in for a missing likelihood or impact when scoring risk.
const defaultRiskFactor = 3

// ComplianceRate is the percentage of assessments marked compliant. Every
// assessment counts in the denominator, including not applicable ones.
func ComplianceRate(assessments []assessment.Assessment) float64 {
	if len(assessments) == 0 {
		return 0
	}
	compliant := 0
	for _, a := range assessments {
		if a.Compliance == assessment.Compliant {
			compliant++
		}
	}
	return float64(compliant) / float64(len(assessments)) * 100
}

// ComplianceCounts tallies assessments by outcome.
type ComplianceCounts struct {
	Total        int
	Compliant    int
	Partial      int
	NonCompliant int
}

// Rate is Compliant/Total as a percentage, 0 when Total is 0.
func (c ComplianceCounts) Rate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Compliant) / float64(c.Total) * 100
}

func (c *ComplianceCounts) add(a assessment.Assessment) {
	c.Total++
	switch a.Compliance {
	case assessment.Compliant:
		c.Compliant++
	case assessment.PartiallyCompliant:
		c.Partial++
	case assessment.NonCompliant:
		c.NonCompliant++
	}
}

// CountCompliance tallies all assessments.
func CountCompliance(assessments []assessment.Assessment) ComplianceCounts {
	var c ComplianceCounts
	for _, a := range assessments {
		c.add(a)
	}
	return c
}

// DomainStats is the compliance tally of one COBIT domain.
type DomainStats struct {
	Domain string
	ComplianceCounts
}

// DomainBreakdown groups assessments by the domain of their control's
// process, in the order each domain is first seen.
func DomainBreakdown(assessments []assessment.Assessment) []DomainStats {
	var out []DomainStats
	index := map[string]int{}
	for _, a := range assessments {
		domain := domainOf(a)
		i, ok := index[domain]
		if !ok {
			i = len(out)
			index[domain] = i
			out = append(out, DomainStats{Domain: domain})
		}
		out[i].add(a)
	}
	return out
}

func domainOf(a assessment.Assessment) string {
	if a.Control == nil || a.Control.Process == nil || a.Control.Process.Domain == "" {
		return OtherDomain
	}
	return string(a.Control.Process.Domain)
}

// SeverityCount is one entry of a severity breakdown.
type SeverityCount struct {
	Severity finding.Severity
	Count    int
}

// SeverityCounts groups findings by severity in the order severities first
// appear. Severities with no findings are absent.
func SeverityCounts(findings []finding.Finding) []SeverityCount {
	var out []SeverityCount
	index := map[finding.Severity]int{}
	for _, f := range findings {
		i, ok := index[f.Severity]
		if !ok {
			i = len(out)
			index[f.Severity] = i
			out = append(out, SeverityCount{Severity: f.Severity})
		}
		out[i].Count++
	}
	return out
}

// SeverityTotals counts findings for every severity, most serious first,
// including zero counts.
func SeverityTotals(findings []finding.Finding) []SeverityCount {
	out := make([]SeverityCount, len(finding.Severities))
	for i, s := range finding.Severities {
		out[i].Severity = s
	}
	for _, f := range findings {
		for i := range out {
			if out[i].Severity == f.Severity {
				out[i].Count++
			}
		}
	}
	return out
}

// RiskFactors returns the likelihood and impact used by the risk
// assessment, substituting 3 for a missing value.
func RiskFactors(f finding.Finding) (likelihood, impact int) {
	likelihood, impact = defaultRiskFactor, defaultRiskFactor
	if f.Likelihood != nil {
		likelihood = *f.Likelihood
	}
	if f.Impact != nil {
		impact = *f.Impact
	}
	return likelihood, impact
}

// RiskScore is the risk assessment score of a finding. Unlike
// finding.RiskScore it defaults missing factors to 3.
func RiskScore(f finding.Finding) int {
	l, i := RiskFactors(f)
	return l * i
}

// Risk assessment bands. These cut points are local to the risk assessment
// report and intentionally differ from finding.LevelForScore.
const (
	BandCritical = "CRÍTICO"
	BandHigh     = "ALTO"
	BandMedium   = "MEDIO"
	BandLow      = "BAJO"
)

// RiskBands lists the bands from most to least severe.
var RiskBands = []string{BandCritical, BandHigh, BandMedium, BandLow}

// RiskBand maps a risk assessment score: ≥15 CRÍTICO, ≥10 ALTO, ≥5 MEDIO, else BAJO.
func RiskBand(score int) string {
	switch {
	case score >= 15:
		return BandCritical
	case score >= 10:
		return BandHigh
	case score >= 5:
		return BandMedium
	default:
		return BandLow
	}
}

// truncate shortens s to n runes followed by an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
