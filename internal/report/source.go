package report

import (
	"context"
	"fmt"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
)

// Source supplies the data reports are rendered from.
type Source interface {
	// FetchAggregate loads one audit with its assessments and findings. It
	// returns an error wrapping audit.ErrNotFound for an unknown id.
	FetchAggregate(ctx context.Context, auditID string) (*Aggregate, error)
	// EnumerateAudits lists the audits matching the filter.
	EnumerateAudits(ctx context.Context, filter audit.ListFilter) ([]audit.Audit, error)
}

// StoreSource reads aggregates from the SQLite stores.
type StoreSource struct {
	Audits      *audit.Store
	Assessments *assessment.Store
	Findings    *finding.Store
}

// FetchAggregate implements Source.
func (s *StoreSource) FetchAggregate(ctx context.Context, auditID string) (*Aggregate, error) {
	a, err := s.Audits.GetByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	assessments, err := s.Assessments.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("loading assessments: %w", err)
	}
	findings, err := s.Findings.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("loading findings: %w", err)
	}
	return &Aggregate{Audit: a, Assessments: assessments, Findings: findings}, nil
}

// EnumerateAudits implements Source.
func (s *StoreSource) EnumerateAudits(ctx context.Context, filter audit.ListFilter) ([]audit.Audit, error) {
	return s.Audits.List(ctx, filter)
}
