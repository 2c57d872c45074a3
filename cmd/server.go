package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/assessment"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/finding"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/importers"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/jobs"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/report"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/server"
)

var (
	serverPort int
	noWorker   bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API and the batch report worker",
	Long:  `Starts the cobit5 HTTP API (audits, assessments, findings, reports, batch jobs) and runs the report job worker in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: a.cfg.Server.AllowAllOrigins,
		}, a.db, a.logger, reg)

		registerAllRoutes(srv, a)

		workerDone := make(chan struct{})
		if noWorker {
			close(workerDone)
		} else {
			w := a.worker(reg)
			go func() {
				defer close(workerDone)
				w.Run(ctx)
			}()
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("server shutdown", zap.Error(err))
			}
		}()

		fmt.Fprintf(os.Stderr, "cobit5 server %s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", a.cfg.Database.Path)
		fmt.Fprintf(os.Stderr, "  Report storage: %s\n", a.cfg.Storage.Backend)

		err = srv.Start()
		stop()
		<-workerDone
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

// registerAllRoutes wires up the feature routes.
func registerAllRoutes(srv *server.Server, a *app) {
	r := srv.Router()

	audit.RegisterRoutes(r, a.audits)
	assessment.RegisterRoutes(r, a.assess, a.audits, a.catalogue)
	finding.RegisterRoutes(r, a.findings)
	importers.RegisterRoutes(r, importers.New(a.users, a.catalogue))
	report.RegisterRoutes(r, a.reports)
	jobs.RegisterRoutes(r, a.queue, a.files, a.logger)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (overrides config)")
	serverCmd.Flags().BoolVar(&noWorker, "no-worker", false, "serve the API without running the batch worker")
	rootCmd.AddCommand(serverCmd)
}
