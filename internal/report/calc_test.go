package report

import (
	"math"
	"strings"
	"testing"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/cobit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

func intp(v int) *int { return &v }

func withCompliance(cs ...assessment.Compliance) []assessment.Assessment {
	out := make([]assessment.Assessment, len(cs))
	for i, c := range cs {
		out[i] = assessment.Assessment{Compliance: c}
	}
	return out
}

func TestComplianceRate(t *testing.T) {
	tests := []struct {
		name string
		in   []assessment.Assessment
		want float64
	}{
		{"empty", nil, 0},
		{"all compliant", withCompliance(assessment.Compliant, assessment.Compliant), 100},
		{"mixed", withCompliance(assessment.Compliant, assessment.NonCompliant, assessment.PartiallyCompliant, assessment.Compliant), 50},
		{"not applicable counts", withCompliance(assessment.Compliant, assessment.NotApplicable, assessment.NotApplicable, assessment.NotApplicable), 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComplianceRate(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComplianceRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRiskBandDivergesFromFindingLevel(t *testing.T) {
	tests := []struct {
		likelihood, impact int
		band               string
		level              finding.RiskLevel
	}{
		{5, 4, BandCritical, finding.RiskCritical},
		{3, 3, BandMedium, finding.RiskMedium},
		{4, 4, BandCritical, finding.RiskHigh},
		{2, 5, BandHigh, finding.RiskMedium},
		{2, 2, BandLow, finding.RiskLow},
	}
	for _, tt := range tests {
		f := finding.Finding{Likelihood: intp(tt.likelihood), Impact: intp(tt.impact)}
		score := RiskScore(f)
		if score != tt.likelihood*tt.impact {
			t.Fatalf("RiskScore() = %d, want %d", score, tt.likelihood*tt.impact)
		}
		if got := RiskBand(score); got != tt.band {
			t.Errorf("RiskBand(%d) = %q, want %q", score, got, tt.band)
		}
		if got := f.RiskLevel(); got != tt.level {
			t.Errorf("finding level for %d = %q, want %q", score, got, tt.level)
		}
	}
}

func TestRiskScoreDefaultsMissingFactors(t *testing.T) {
	f := finding.Finding{Impact: intp(4)}
	if got := RiskScore(f); got != 12 {
		t.Errorf("RiskScore() = %d, want 12", got)
	}
	if f.Likelihood != nil {
		t.Error("RiskScore mutated the finding")
	}
	if got := f.RiskScore(); got != 0 {
		t.Errorf("finding.RiskScore() = %d, want 0 without likelihood", got)
	}
	if got := RiskScore(finding.Finding{}); got != 9 {
		t.Errorf("RiskScore() with no factors = %d, want 9", got)
	}
}

func TestRankByRiskIsStable(t *testing.T) {
	in := []finding.Finding{
		{Title: "a", Likelihood: intp(2), Impact: intp(2)},
		{Title: "b", Likelihood: intp(5), Impact: intp(5)},
		{Title: "c"},
		{Title: "d", Likelihood: intp(3), Impact: intp(3)},
	}
	var got []string
	for _, f := range RankByRisk(in) {
		got = append(got, f.Title)
	}
	if strings.Join(got, "") != "bcda" {
		t.Errorf("order = %v, want [b c d a]", got)
	}
	if in[0].Title != "a" {
		t.Error("RankByRisk reordered its input")
	}
}

func TestDomainBreakdownInsertionOrderAndOther(t *testing.T) {
	proc := func(d cobit.Domain) *cobit.Control {
		return &cobit.Control{Process: &cobit.Process{Domain: d}}
	}
	in := []assessment.Assessment{
		{Control: proc(cobit.DomainDSS), Compliance: assessment.Compliant},
		{Control: &cobit.Control{Code: "X01"}, Compliance: assessment.NonCompliant},
		{Control: proc(cobit.DomainAPO), Compliance: assessment.PartiallyCompliant},
		{Control: proc(cobit.DomainDSS), Compliance: assessment.NonCompliant},
		{Compliance: assessment.Compliant},
	}

	got := DomainBreakdown(in)
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %d: %+v", len(got), got)
	}
	wantOrder := []string{"DSS", OtherDomain, "APO"}
	for i, d := range got {
		if d.Domain != wantOrder[i] {
			t.Errorf("bucket %d = %q, want %q", i, d.Domain, wantOrder[i])
		}
	}
	if got[0].Total != 2 || got[0].Compliant != 1 || got[0].NonCompliant != 1 || got[0].Rate() != 50 {
		t.Errorf("DSS = %+v, want total 2, compliant 1, non 1, rate 50", got[0])
	}
	if got[1].Total != 2 {
		t.Errorf("Otros total = %d, want 2", got[1].Total)
	}
	if got[2].Partial != 1 || got[2].Rate() != 0 {
		t.Errorf("APO = %+v, want partial 1, rate 0", got[2])
	}
}

func TestSeverityCountsPolicies(t *testing.T) {
	in := []finding.Finding{
		{Severity: finding.SeverityLow},
		{Severity: finding.SeverityHigh},
		{Severity: finding.SeverityLow},
	}

	narrative := SeverityCounts(in)
	if len(narrative) != 2 || narrative[0].Severity != finding.SeverityLow || narrative[0].Count != 2 {
		t.Errorf("SeverityCounts() = %+v, want low:2 then high:1", narrative)
	}

	totals := SeverityTotals(in)
	if len(totals) != 4 {
		t.Fatalf("SeverityTotals() has %d entries, want 4", len(totals))
	}
	if totals[0].Severity != finding.SeverityCritical || totals[0].Count != 0 {
		t.Errorf("first total = %+v, want critical:0", totals[0])
	}
	if totals[1].Count != 1 || totals[3].Count != 2 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestPendingActions(t *testing.T) {
	in := []finding.Finding{
		{Title: "open", Status: finding.StatusOpen},
		{Title: "closed", Status: finding.StatusClosed},
		{Title: "closed with plan", Status: finding.StatusClosed, ActionPlan: "rotate keys"},
	}
	got := PendingActions(in)
	if len(got) != 2 || got[0].Title != "open" || got[1].Title != "closed with plan" {
		t.Errorf("PendingActions() = %+v", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 95)
	got := truncate(long, 80)
	if got != strings.Repeat("a", 80)+"..." {
		t.Errorf("truncate(95 chars, 80) = %q", got)
	}
	if got := truncate("short", 80); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	title := "Gestión de contraseñas débiles en servidores de producción"
	got = truncate(title, 40)
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != 40 {
		t.Errorf("truncated title has %d runes, want 40", n)
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range Variants() {
		got, err := ParseVariant(string(v))
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %q, %v", v, got, err)
		}
	}
	if _, err := ParseVariant("weekly"); err == nil {
		t.Error("expected error for unknown variant")
	}
	if len(Variants()) != 8 {
		t.Errorf("Variants() = %d, want 8", len(Variants()))
	}
}
