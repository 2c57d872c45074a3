package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/jobs"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/report"
)

func (s *Server) handleListVariants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, v := range report.Variants() {
		sb.WriteString(fmt.Sprintf("%s: %s\n", v, v.Title()))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGenerateReport renders a single variant and stores it under
// audit-report-<id>-<variant>.pdf.
func (s *Server) handleGenerateReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	auditID, err := request.RequireString("audit_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: audit_id"), nil
	}

	v, err := report.ParseVariant(request.GetString("variant", string(report.VariantFull)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.reports.GenerateSingle(ctx, v, auditID)
	if errors.Is(err, audit.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("audit %q not found", auditID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}

	key := fmt.Sprintf("audit-report-%s-%s.pdf", auditID, v)
	if err := s.files.Put(ctx, key, bytes.NewReader(out)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("storing report: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Rendered %s report for audit %s (%d bytes).\nKey: %s\nDownload: %s",
		v, auditID, len(out), key, jobs.DownloadURL(s.baseURL, key),
	)), nil
}

func (s *Server) handleSubmitReportJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters := jobs.Filters{
		Status:    request.GetString("status", ""),
		CreatedBy: request.GetString("created_by", ""),
		DateFrom:  request.GetString("date_from", ""),
		DateTo:    request.GetString("date_to", ""),
	}

	id, err := s.queue.Submit(ctx, filters, request.GetString("submitted_by", ""))
	var fe *jobs.FilterError
	if errors.As(err, &fe) {
		return mcp.NewToolResultError(fe.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("submitting job: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Job %s queued. Call get_report_job with this id to follow its progress.", id,
	)), nil
}

func (s *Server) handleGetReportJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("job_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: job_id"), nil
	}

	j, err := s.queue.Get(ctx, id)
	if errors.Is(err, jobs.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("job %q not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading job: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJob(j)), nil
}

// formatJob renders a job snapshot as a short summary followed by its JSON.
func formatJob(j *jobs.Job) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job %s: %s, %d%% complete\n", j.ID, j.Status, j.Progress))
	if j.Error != "" {
		sb.WriteString(fmt.Sprintf("Error: %s\n", j.Error))
	}

	failed := 0
	for _, r := range j.Results {
		if r.Error != "" {
			failed++
		}
	}
	if len(j.Results) > 0 {
		sb.WriteString(fmt.Sprintf("Audits processed: %d (%d failed)\n", len(j.Results), failed))
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err == nil {
		sb.WriteString("\n")
		sb.Write(data)
		sb.WriteString("\n")
	}
	return sb.String()
}
