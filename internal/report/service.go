package report

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Service renders reports on demand for a single audit.
type Service struct {
	source   Source
	renderer *Renderer
	logger   *zap.Logger
}

// NewService creates a Service.
func NewService(source Source, renderer *Renderer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, renderer: renderer, logger: logger}
}

// Source returns the data source the service renders from.
func (s *Service) Source() Source { return s.source }

// Renderer returns the renderer used by the service.
func (s *Service) Renderer() *Renderer { return s.renderer }

// GenerateSingle renders one variant for one audit.
func (s *Service) GenerateSingle(ctx context.Context, v Variant, auditID string) ([]byte, error) {
	agg, err := s.source.FetchAggregate(ctx, auditID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := s.renderer.Render(v, agg)
	if err != nil {
		s.logger.Error("report render failed",
			zap.String("audit_id", auditID),
			zap.String("variant", string(v)),
			zap.Error(err),
		)
		return nil, err
	}
	s.logger.Debug("report rendered",
		zap.String("audit_id", auditID),
		zap.String("variant", string(v)),
		zap.Int("size_bytes", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// ExportFindings builds the findings spreadsheet for one audit.
func (s *Service) ExportFindings(ctx context.Context, auditID string) ([]byte, error) {
	agg, err := s.source.FetchAggregate(ctx, auditID)
	if err != nil {
		return nil, err
	}
	return ExportFindingsXLSX(agg)
}
