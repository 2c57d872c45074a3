// Package mcp exposes report generation and the batch job queue to AI agents
// over the Model Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/jobs"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/report"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/storage"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the report tools.
type Server struct {
	reports *report.Service
	queue   *jobs.Queue
	files   storage.Storage
	baseURL string
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. Single reports rendered through the
// generate_report tool are written to files and linked under baseURL.
func NewServer(reports *report.Service, queue *jobs.Queue, files storage.Storage, baseURL string) *Server {
	s := &Server{
		reports: reports,
		queue:   queue,
		files:   files,
		baseURL: baseURL,
	}

	s.mcp = server.NewMCPServer(
		"cobit5",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listVariantsTool, s.handleListVariants)
	s.mcp.AddTool(generateReportTool, s.handleGenerateReport)
	s.mcp.AddTool(submitReportJobTool, s.handleSubmitReportJob)
	s.mcp.AddTool(getReportJobTool, s.handleGetReportJob)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
