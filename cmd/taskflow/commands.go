package main

import (
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/config"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/pert"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/reporter"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/schedule"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/store"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/ui"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/viewer"
)

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Group tasks by dependency depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := loadTasks(cmd.Context())
			if err != nil {
				return err
			}

			levels, err := graph.Level(graph.Build(tasks))
			if err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), levels.Groups)
			}
			printLevels(cmd.OutOrStdout(), levels)
			return nil
		},
	}
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the schedule and critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := loadTasks(cmd.Context())
			if err != nil {
				return err
			}

			result, err := schedule.Compute(tasks)
			if err != nil {
				return fmt.Errorf("schedule: %w", err)
			}

			rpt := reporter.New(flagProject, result)
			w := cmd.OutOrStdout()
			switch {
			case flagJSON:
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
			case flagSummary:
				fmt.Fprint(w, rpt.Summary())
			default:
				rpt.PrintPlan(w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagSummary, "summary", false, "Print a short summary instead of the full table")

	return cmd
}

func ganttCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Lay out the Gantt timeline",
		Long: `Lays out the snapshot's calendar tasks. Without calendar tasks the schedule
is placed on the calendar from --start (or today) at each task's earliest start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			cfg := config.Global()
			opts := timeline.Options{
				UnitWidth: cfg.Layout.UnitWidth,
				RowHeight: cfg.Layout.RowHeight,
			}
			if flagUnit > 0 {
				opts.UnitWidth = flagUnit
			}
			if opts.Start, err = parseDateFlag("start", flagStart); err != nil {
				return err
			}
			if opts.End, err = parseDateFlag("end", flagEnd); err != nil {
				return err
			}
			today, err := parseDateFlag("today", flagToday)
			if err != nil {
				return err
			}
			if today != nil {
				opts.Today = *today
			}

			bars := snap.Gantt
			if len(bars) == 0 && len(snap.Tasks) > 0 {
				result, err := schedule.Compute(snap.Tasks)
				if err != nil {
					return fmt.Errorf("schedule: %w", err)
				}
				anchor := timeline.Today()
				switch {
				case opts.Start != nil:
					anchor = *opts.Start
				case !opts.Today.IsZero():
					anchor = opts.Today
				}
				bars = schedule.ToGantt(result, anchor)
			}

			if err := opts.CheckBounds(len(bars) == 0); err != nil {
				return err
			}

			chart := timeline.Layout(bars, opts)
			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), chart)
			}
			ui.PrintGantt(cmd.OutOrStdout(), chart)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagStart, "start", "", "Chart start when there are no tasks; schedule anchor otherwise (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagEnd, "end", "", "Chart end when there are no tasks (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagToday, "today", "", "Date of the today marker (default: current date)")
	cmd.Flags().Float64Var(&flagUnit, "unit", 0, "Pixels per day")

	return cmd
}

func pertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pert",
		Short: "Print the PERT diagram as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := loadTasks(cmd.Context())
			if err != nil {
				return err
			}

			result, err := schedule.Compute(tasks)
			if err != nil {
				return fmt.Errorf("schedule: %w", err)
			}

			return outputJSON(cmd.OutOrStdout(), pert.Build(result, pertOptions()))
		},
	}

	cmd.Flags().BoolVar(&flagExact, "exact", false, "Mark only edges on a traced longest path as critical")

	return cmd
}

func vizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Print the dependency graph as ASCII or Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagFormat != "ascii" && flagFormat != "dot" {
				return fmt.Errorf("unsupported format: %s (use ascii or dot)", flagFormat)
			}

			tasks, err := loadTasks(cmd.Context())
			if err != nil {
				return err
			}

			result, err := schedule.Compute(tasks)
			if err != nil {
				return fmt.Errorf("schedule: %w", err)
			}

			if flagFormat == "dot" {
				printDOT(cmd.OutOrStdout(), result, flagExact)
				return nil
			}
			printASCIIDAG(cmd.OutOrStdout(), result, flagExact)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")
	cmd.Flags().BoolVar(&flagExact, "exact", false, "Mark only edges on a traced longest path as critical")

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the snapshot for invalid or cyclic tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			var problems []error
			if err := store.Validate(snap); err != nil {
				problems = append(problems, err)
			}
			if cycle := graph.Build(snap.Tasks).DetectCycle(); cycle != nil {
				problems = append(problems, &graph.CycleError{Path: cycle})
			}

			w := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintf(w, "%s %d tasks, %d calendar tasks\n", ui.Green("✓ valid:"), len(snap.Tasks), len(snap.Gantt))
				return nil
			}

			err = errors.Join(problems...)
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "  %s %s\n", ui.Red("✗"), line)
			}
			return err
		},
	}
}

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the content hash of the task snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := loadTasks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), schedule.Hash(tasks))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var (
		flagHost   string
		flagPort   string
		flagNoFile bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve PERT and Gantt layouts over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.Global()
			host, port := cfg.HTTP.Host, cfg.HTTP.Port
			if flagHost != "" {
				host = flagHost
			}
			if flagPort != "" {
				port = flagPort
			}

			var source store.Source
			if flagDB != "" || !flagNoFile {
				src, closeSource, err := openSource(ctx)
				if err != nil {
					return err
				}
				defer closeSource()
				source = src
			}

			memo, err := schedule.NewMemo(cfg.Memo.Size)
			if err != nil {
				return err
			}

			srv := viewer.New(logger, source, memo, viewer.Options{
				Gantt: timeline.Options{
					UnitWidth: cfg.Layout.UnitWidth,
					RowHeight: cfg.Layout.RowHeight,
				},
				Pert:        pertOptions(),
				ReleaseMode: cfg.Env != config.EnvLocal,
			})

			ui.PrintLogo(cmd.ErrOrStderr())
			fmt.Fprintf(cmd.ErrOrStderr(), "%s http://%s\n", ui.BoldGreen("Serving on"), net.JoinHostPort(host, port))
			return srv.ListenAndServe(ctx, net.JoinHostPort(host, port), cfg.HTTP.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&flagHost, "host", "", "Listen host (default from HTTP_HOST)")
	cmd.Flags().StringVar(&flagPort, "port", "", "Listen port (default from HTTP_PORT)")
	cmd.Flags().BoolVar(&flagNoFile, "no-file", false, "Serve uploaded snapshots only, without project routes")

	return cmd
}

func pushCmd() *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload the snapshot to a running taskflow server",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			if !strings.Contains(flagAddr, "://") {
				flagAddr = "http://" + flagAddr
			}
			hostPort := strings.TrimPrefix(strings.TrimPrefix(flagAddr, "http://"), "https://")
			if !viewer.IsPortOpen(hostPort) {
				return fmt.Errorf("no taskflow server listening on %s (start one with 'taskflow serve')", hostPort)
			}

			created, err := viewer.PostSnapshot(cmd.Context(), flagAddr, snap)
			if err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), created)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s %s\n", ui.BoldGreen("Uploaded"), created.ID, ui.Dim(created.Hash))
			fmt.Fprintf(w, "  %d tasks, %d days, critical: %s\n", created.TotalTasks, created.ProjectDuration, strings.Join(created.CriticalPath, ", "))
			fmt.Fprintf(w, "  PERT:  %s/api/v1/snapshots/%s/pert\n", flagAddr, created.ID)
			fmt.Fprintf(w, "  Gantt: %s/api/v1/snapshots/%s/gantt\n", flagAddr, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "localhost:7777", "Server address")

	return cmd
}

func pertOptions() pert.Options {
	cfg := config.Global()
	return pert.Options{
		ColumnWidth:        cfg.Layout.PertColumnWidth,
		RowHeight:          cfg.Layout.PertRowHeight,
		Padding:            cfg.Layout.PertPadding,
		ExactCriticalEdges: flagExact,
	}
}
