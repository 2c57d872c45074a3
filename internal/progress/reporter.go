// Package progress reports batch export progress on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while a batch of reports is rendered.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	// Fail records that item current could not be rendered.
	Fail(current int, message string, err error)
	Finish()
}

// NewReporter returns a CIReporter when the CI environment variable is set,
// or a TerminalReporter otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: os.Stderr}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar      *progressbar.ProgressBar
	failures []string
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Rendering reports"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

// Fail advances the bar and keeps the failure for the summary printed by
// Finish, so the bar is not interrupted mid-render.
func (r *TerminalReporter) Fail(current int, message string, err error) {
	r.failures = append(r.failures, fmt.Sprintf("%s: %v", message, err))
	r.Update(current, message)
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	for _, f := range r.failures {
		fmt.Fprintf(os.Stderr, "  failed: %s\n", f)
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	total int
}

// NewCIReporter returns a CIReporter writing to w.
func NewCIReporter(w io.Writer) *CIReporter {
	return &CIReporter{w: w}
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.w, "Rendering reports for %d audits\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Fail(current int, message string, err error) {
	fmt.Fprintf(r.w, "[%d/%d] FAILED %s: %v\n", current, r.total, message, err)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.w, "Report export complete")
}
