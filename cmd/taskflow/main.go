package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/config"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/logging"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/store"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/ui"
)

var (
	flagFile        string
	flagProject     string
	flagDB          string
	flagPayloadPath string
	flagExec        string
	flagFilter      string
	flagJSON        bool
	flagVerbose     bool
	flagFormat      string
	flagExact       bool
	flagSummary     bool
	flagStart       string
	flagEnd         string
	flagToday       string
	flagUnit        float64
)

var logger = zerolog.Nop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskflow",
		Short: "Critical path scheduling for task snapshots",
		Long: `TaskFlow reads a project's tasks from a snapshot file or PostgreSQL,
computes levels, earliest/latest dates, slack and the critical path, and
lays the result out as a PERT network or a Gantt timeline.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "tasks.yaml", "Snapshot file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "Project name inside the snapshot file or database")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "PostgreSQL DSN (overrides --file)")
	rootCmd.PersistentFlags().StringVar(&flagPayloadPath, "payload-path", "", "gjson path to the task array when --file or --exec yields a raw JSON payload")
	rootCmd.PersistentFlags().StringVar(&flagExec, "exec", "", "Command printing tasks as JSON, e.g. \"bd list --json\" ({project} is substituted)")
	rootCmd.PersistentFlags().StringVar(&flagFilter, "filter", "", "Filter tasks (e.g., status=completed, duration>=3)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log what is being loaded")

	rootCmd.AddCommand(levelsCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(ganttCmd())
	rootCmd.AddCommand(pertCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(hashCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(pushCmd())

	return rootCmd
}

// setup reads the configuration and points the logger at stderr. Only
// serve logs at the configured level; other commands stay quiet unless
// --verbose is given.
func setup(cmd *cobra.Command, _ []string) error {
	logging.InitDefaultLogger(os.Stderr)

	cfg, err := config.NewReader().Read()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	config.SetGlobal(cfg)
	if flagDB == "" {
		flagDB = cfg.Postgres.DSN
	}

	if cmd.Name() == "serve" {
		if err := logging.InitApplicationLogger(cfg.Env, os.Stderr); err != nil {
			return err
		}
		logger = logging.Logger()
		return nil
	}

	logger = logging.Logger().Output(ui.NewLogFormatter("taskflow", cmd.ErrOrStderr(), nil))
	if flagVerbose {
		logging.SetLevel(zerolog.DebugLevel)
	} else {
		logging.SetLevel(zerolog.WarnLevel)
	}
	return nil
}

// openSource returns the configured task source and a func releasing it.
func openSource(ctx context.Context) (store.Source, func(), error) {
	cfg := config.Global()
	if flagDB != "" {
		pg, err := store.ConnectPostgres(ctx, logger, flagDB, cfg.Postgres.ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.EnsureSchema {
			if err := pg.EnsureSchema(ctx); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return pg, pg.Close, nil
	}
	if flagExec != "" {
		src, err := store.ParseCommand(logger, flagExec, flagPayloadPath)
		if err != nil {
			return nil, nil, fmt.Errorf("--exec: %w", err)
		}
		return src, func() {}, nil
	}
	return store.NewFileSource(logger, flagFile, flagPayloadPath), func() {}, nil
}

// loadSnapshot reads tasks and calendar tasks of the selected project and
// applies --filter to both.
func loadSnapshot(ctx context.Context) (*store.Snapshot, error) {
	src, closeSource, err := openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	tasks, err := src.ListTasks(ctx, flagProject)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	bars, err := src.ListGanttTasks(ctx, flagProject)
	if err != nil {
		return nil, fmt.Errorf("list gantt tasks: %w", err)
	}

	snap := &store.Snapshot{Project: flagProject, Tasks: tasks, Gantt: bars}
	if flagFilter != "" {
		return applyFilter(snap, flagFilter)
	}
	return snap, nil
}

func loadTasks(ctx context.Context) ([]graph.TaskNode, error) {
	snap, err := loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Tasks, nil
}

func parseDateFlag(name, value string) (*timeline.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := timeline.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}
