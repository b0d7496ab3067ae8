// Command skillora drives the jobs API from a terminal: upload a listing
// file, map its columns, follow the ingest task and print the dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiranshivaraju/skillora/internal/config"
	"github.com/kiranshivaraju/skillora/internal/dashboard"
	"github.com/kiranshivaraju/skillora/internal/jobsapi"
	"github.com/kiranshivaraju/skillora/internal/poll"
	"github.com/spf13/cobra"
	"golang.org/x/text/currency"
)

const exitAborted = 130

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, loadApp).ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case isAborted(err):
		fmt.Fprintln(os.Stderr, "aborted")
		return exitAborted
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
}

func isAborted(err error) bool {
	return errors.Is(err, poll.ErrAborted) || errors.Is(err, jobsapi.ErrAborted)
}

// app is what every subcommand works with.
type app struct {
	client   jobsapi.Client
	format   *dashboard.Formatter
	currency string
	cfg      *config.Config
}

type appLoader func(apiBase string) (*app, error)

func loadApp(apiBase string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiBase != "" {
		cfg.API.BaseURL = apiBase
	}
	unit, err := currency.ParseISO(cfg.Display.Currency)
	if err != nil {
		return nil, err
	}
	return &app{
		client:   jobsapi.NewHTTPClient(cfg.API.BaseURL, cfg.API.Timeout, jobsapi.WithLogger(slog.Default())),
		format:   dashboard.NewFormatter(cfg.Display.Locale, unit),
		currency: cfg.Display.Currency,
		cfg:      cfg,
	}, nil
}

func newRootCmd(out io.Writer, load appLoader) *cobra.Command {
	var (
		apiBase string
		a       *app
	)
	root := &cobra.Command{
		Use:           "skillora",
		Short:         "Upload job listings and explore salary analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = load(apiBase)
			return err
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&apiBase, "api-base", "", "jobs API base URL (overrides SKILLORA_API_BASE)")

	get := func() *app { return a }
	root.AddCommand(
		newUploadCmd(get),
		newMapCmd(get),
		newStatusCmd(get),
		newWatchCmd(get),
		newIngestCmd(get),
		newDashboardCmd(get),
	)
	return root
}
