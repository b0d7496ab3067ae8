package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kiranshivaraju/skillora/internal/dashboard"
	"github.com/kiranshivaraju/skillora/internal/poll"
	"github.com/kiranshivaraju/skillora/internal/wizard"
	"github.com/kiranshivaraju/skillora/pkg/models"
	"github.com/spf13/cobra"
)

func newUploadCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a CSV/XLS/XLSX file and print its file id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := upload(cmd.Context(), get(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.FileID)
			return nil
		},
	}
}

func upload(ctx context.Context, a *app, path string) (models.UploadResult, error) {
	if err := wizard.CheckFileName(path); err != nil {
		return models.UploadResult{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return models.UploadResult{}, err
	}
	defer f.Close()
	return a.client.Upload(ctx, filepath.Base(path), f)
}

// columnFlags binds --preset plus one flag per column field.
type columnFlags struct {
	preset  string
	columns map[string]*string
}

func addColumnFlags(cmd *cobra.Command) *columnFlags {
	cf := &columnFlags{columns: map[string]*string{}}
	cmd.Flags().StringVar(&cf.preset, "preset", wizard.DefaultPreset, "column preset to start from (generic, scraped)")
	for _, field := range models.ColumnFields {
		cf.columns[field] = cmd.Flags().String(field, "", "source column for "+field)
	}
	return cf
}

func (cf *columnFlags) columnMap() (models.ColumnMap, error) {
	cm, ok := wizard.Preset(cf.preset)
	if !ok {
		return models.ColumnMap{}, fmt.Errorf("unknown preset %q", cf.preset)
	}
	for field, v := range cf.columns {
		if *v != "" {
			if err := cm.Set(field, *v); err != nil {
				return models.ColumnMap{}, err
			}
		}
	}
	return cm, cm.Validate()
}

func newMapCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map <file-id>",
		Short: "Submit the column mapping for an uploaded file and print the task id",
		Args:  cobra.ExactArgs(1),
	}
	cf := addColumnFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cm, err := cf.columnMap()
		if err != nil {
			return err
		}
		h, err := get().client.MapColumns(cmd.Context(), args[0], cm)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h.ID)
		return nil
	}
	return cmd
}

func newStatusCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id>",
		Short: "Print the current status of an ingest task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			st, err := a.client.TaskStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), a, st)
			return nil
		},
	}
}

func newWatchCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <task-id>",
		Short: "Follow an ingest task until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd.Context(), cmd.OutOrStdout(), get(), args[0])
		},
	}
}

func watch(ctx context.Context, out io.Writer, a *app, taskID string) error {
	final, err := poll.Poll(ctx, poll.Options[models.TaskStatus]{
		Probe: func(ctx context.Context) (models.TaskStatus, error) {
			return a.client.TaskStatus(ctx, taskID)
		},
		ShouldStop: func(st models.TaskStatus) bool { return st.Ready },
		Interval:   a.cfg.Poll.Interval,
		MaxWait:    a.cfg.Poll.MaxWait,
		OnAttempt: func(_ int, st models.TaskStatus) {
			printStatus(out, a, st)
		},
	})
	if err != nil {
		return err
	}
	if !final.Successful {
		return fmt.Errorf("task %s failed: %s", taskID, final.Message)
	}
	return nil
}

func newIngestCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Upload, map and follow a file in one go",
		Args:  cobra.ExactArgs(1),
	}
	cf := addColumnFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cm, err := cf.columnMap()
		if err != nil {
			return err
		}
		a, ctx, out := get(), cmd.Context(), cmd.OutOrStdout()

		res, err := upload(ctx, a, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "uploaded %s\n", res.FileID)

		h, err := a.client.MapColumns(ctx, res.FileID, cm)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "task %s\n", h.ID)

		return watch(ctx, out, a, h.ID)
	}
	return cmd
}

func newDashboardCmd(get func() *app) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the salary summary and the per-stack comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			svc := dashboard.NewService(a.client, nil, 0, nil)
			data, err := svc.Load(cmd.Context())
			if err != nil {
				return err
			}
			printDashboard(cmd.OutOrStdout(), a, data, dashboard.Paginate(data.Stacks, page, limit))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "stack table page")
	cmd.Flags().IntVar(&limit, "limit", dashboard.DefaultLimit, "stack rows per page")
	return cmd
}
