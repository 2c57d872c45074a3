package mcp

import "github.com/mark3labs/mcp-go/mcp"

var listVariantsTool = mcp.NewTool("list_report_variants",
	mcp.WithDescription("List the report variants that can be rendered for an audit."),
)

// generateReportTool defines the generate_report MCP tool.
var generateReportTool = mcp.NewTool("generate_report",
	mcp.WithDescription("Render one PDF report for an audit and store it. Returns the storage key and size."),
	mcp.WithString("audit_id",
		mcp.Required(),
		mcp.Description("ID of the audit to report on"),
	),
	mcp.WithString("variant",
		mcp.Description("Report variant (default full)"),
		mcp.Enum("full", "executive", "compliance", "findings", "risk", "control_status", "trend", "action_plan"),
	),
)

// submitReportJobTool defines the submit_report_job MCP tool.
var submitReportJobTool = mcp.NewTool("submit_report_job",
	mcp.WithDescription("Queue a batch job that renders the full report for every audit matching the filters."),
	mcp.WithString("status",
		mcp.Description("Audit status to match, or 'all'"),
	),
	mcp.WithString("created_by",
		mcp.Description("Only audits created by this user id"),
	),
	mcp.WithString("date_from",
		mcp.Description("Earliest audit start date (YYYY-MM-DD)"),
	),
	mcp.WithString("date_to",
		mcp.Description("Latest audit start date (YYYY-MM-DD)"),
	),
	mcp.WithString("submitted_by",
		mcp.Description("User id recorded as the job owner"),
	),
)

// getReportJobTool defines the get_report_job MCP tool.
var getReportJobTool = mcp.NewTool("get_report_job",
	mcp.WithDescription("Get the status, progress and per-audit results of a batch report job."),
	mcp.WithString("job_id",
		mcp.Required(),
		mcp.Description("ID returned by submit_report_job"),
	),
)
