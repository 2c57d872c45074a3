package report

import (
	"errors"
	"fmt"
)

// Renderer turns an Aggregate into a PDF. It holds no state between calls
// and performs no I/O.
type Renderer struct {
	compress bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithoutCompression leaves page content streams uncompressed.
func WithoutCompression() Option {
	return func(r *Renderer) { r.compress = false }
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays out the variant for the aggregate and returns the finished
// document. On failure no bytes are returned.
func (r *Renderer) Render(v Variant, agg *Aggregate) (out []byte, err error) {
	if agg == nil || agg.Audit == nil {
		return nil, &RenderError{Variant: v, Err: errors.New("audit is required")}
	}
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, &RenderError{Variant: v, Err: fmt.Errorf("layout panic: %v", p)}
		}
	}()

	var doc *document
	switch v {
	case VariantFull:
		doc = r.renderFull(agg)
	case VariantExecutive:
		doc = r.renderExecutive(agg)
	case VariantCompliance:
		doc = r.renderCompliance(agg)
	case VariantFindings:
		doc = r.renderFindings(agg)
	case VariantRisk:
		doc = r.renderRisk(agg)
	case VariantControlStatus:
		doc = r.renderControlStatus(agg)
	case VariantTrend:
		// No historical series is kept, so the trend report is the executive summary.
		doc = r.renderExecutive(agg)
	case VariantActionPlan:
		doc = r.renderActionPlan(agg)
	default:
		return nil, &RenderError{Variant: v, Err: fmt.Errorf("unknown report variant %q", v)}
	}

	out, err = doc.finish()
	if err != nil {
		return nil, &RenderError{Variant: v, Err: err}
	}
	return out, nil
}

func (r *Renderer) portrait(agg *Aggregate) *document {
	return newDocument("P", r.compress, agg.Audit.CreatedAt)
}

func (r *Renderer) landscape(agg *Aggregate) *document {
	return newDocument("L", r.compress, agg.Audit.CreatedAt)
}
