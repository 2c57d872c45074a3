package mcp

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/jobs"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/report"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/storage"
)

func setup(t *testing.T) (*Server, *storage.FS, string) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	files, err := storage.NewFS(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	src := &report.StoreSource{
		Audits:      audit.NewStore(database),
		Assessments: assessment.NewStore(database),
		Findings:    finding.NewStore(database),
	}
	a, err := src.Audits.Create(context.Background(), audit.Audit{Name: "Backup audit"})
	if err != nil {
		t.Fatalf("Create audit: %v", err)
	}

	svc := report.NewService(src, report.NewRenderer(), nil)
	queue := jobs.NewQueue(jobs.NewStore(database))
	return NewServer(svc, queue, files, "http://reports.example"), files, a.ID
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{listVariantsTool, "list_report_variants"},
		{generateReportTool, "generate_report"},
		{submitReportJobTool, "submit_report_job"},
		{getReportJobTool, "get_report_job"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestHandleListVariants(t *testing.T) {
	srv, _, _ := setup(t)
	res, err := srv.handleListVariants(context.Background(), call(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, res)
	for _, v := range report.Variants() {
		if !strings.Contains(text, string(v)+":") {
			t.Errorf("variant %s missing from listing", v)
		}
	}
}

func TestHandleGenerateReport(t *testing.T) {
	srv, files, auditID := setup(t)
	ctx := context.Background()

	t.Run("stores the pdf", func(t *testing.T) {
		res, err := srv.handleGenerateReport(ctx, call(map[string]any{"audit_id": auditID, "variant": "risk"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected tool error: %v", res.Content)
		}
		want := "Download: http://reports.example/api/reports/files/audit-report-" + auditID + "-risk.pdf"
		if text := resultText(t, res); !strings.Contains(text, want) {
			t.Errorf("result = %q, want link %q", text, want)
		}

		rc, err := files.Get(ctx, "audit-report-"+auditID+"-risk.pdf")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		if !strings.HasPrefix(string(data), "%PDF") {
			t.Error("stored object is not a PDF")
		}
	})

	t.Run("unknown variant", func(t *testing.T) {
		res, _ := srv.handleGenerateReport(ctx, call(map[string]any{"audit_id": auditID, "variant": "weekly"}))
		if !res.IsError {
			t.Error("expected error for unknown variant")
		}
	})

	t.Run("unknown audit", func(t *testing.T) {
		res, _ := srv.handleGenerateReport(ctx, call(map[string]any{"audit_id": "missing"}))
		if !res.IsError || !strings.Contains(resultText(t, res), "not found") {
			t.Error("expected not found error")
		}
	})

	t.Run("missing audit id", func(t *testing.T) {
		res, _ := srv.handleGenerateReport(ctx, call(map[string]any{}))
		if !res.IsError {
			t.Error("expected error for missing audit_id")
		}
	})
}

func TestSubmitAndGetReportJob(t *testing.T) {
	srv, _, _ := setup(t)
	ctx := context.Background()

	res, err := srv.handleSubmitReportJob(ctx, call(map[string]any{"status": "all", "submitted_by": "agent"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %v", res.Content)
	}
	text := resultText(t, res)
	fields := strings.Fields(text)
	if len(fields) < 2 || fields[0] != "Job" {
		t.Fatalf("unexpected submit text %q", text)
	}
	jobID := fields[1]

	res, err = srv.handleGetReportJob(ctx, call(map[string]any{"job_id": jobID}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resultText(t, res), "pending, 0% complete") {
		t.Errorf("unexpected job text:\n%s", resultText(t, res))
	}
}

func TestSubmitReportJobBadFilters(t *testing.T) {
	srv, _, _ := setup(t)
	res, _ := srv.handleSubmitReportJob(context.Background(), call(map[string]any{"date_from": "last week"}))
	if !res.IsError {
		t.Error("expected error for unparseable date")
	}
}

func TestGetReportJobNotFound(t *testing.T) {
	srv, _, _ := setup(t)
	res, _ := srv.handleGetReportJob(context.Background(), call(map[string]any{"job_id": "nope"}))
	if !res.IsError {
		t.Error("expected error for unknown job")
	}
}
