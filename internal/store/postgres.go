package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

// Schema creates the tables PostgresSource reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id            TEXT PRIMARY KEY,
    project_id    TEXT        NOT NULL,
    name          TEXT        NOT NULL,
    duration_days INTEGER     NOT NULL DEFAULT 0,
    status        TEXT        NOT NULL DEFAULT 'not-started',
    start_date    DATE,
    end_date      DATE,
    progress      INTEGER     NOT NULL DEFAULT 0,
    color         TEXT        NOT NULL DEFAULT '',
    assignee      TEXT,
    position      INTEGER     NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS task_dependencies (
    task_id       TEXT NOT NULL REFERENCES tasks (id) ON DELETE CASCADE,
    depends_on_id TEXT NOT NULL,
    PRIMARY KEY (task_id, depends_on_id)
);

CREATE INDEX IF NOT EXISTS tasks_project_idx ON tasks (project_id, position);
`

// PostgresSource lists tasks stored in PostgreSQL.
type PostgresSource struct {
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

// NewPostgresSource wraps an existing pool.
func NewPostgresSource(logger zerolog.Logger, pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{logger: logger, pool: pool}
}

// ConnectPostgres opens a pool for dsn and pings it within connectTimeout.
func ConnectPostgres(ctx context.Context, logger zerolog.Logger, dsn string, connectTimeout time.Duration) (*PostgresSource, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if connectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = connectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create postgres pool")
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx := ctx
	if connectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, connectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info().
		Str("host", cfg.ConnConfig.Host).
		Str("database", cfg.ConnConfig.Database).
		Msg("connected to postgres")
	return NewPostgresSource(logger, pool), nil
}

// EnsureSchema creates the task tables when they do not exist.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create schema")
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

func (s *PostgresSource) ListTasks(ctx context.Context, project string) ([]graph.TaskNode, error) {
	const selectTasksQuery = `
SELECT t.id,
       t.name,
       t.duration_days,
       t.status,
       COALESCE(array_agg(d.depends_on_id ORDER BY d.depends_on_id)
                FILTER (WHERE d.depends_on_id IS NOT NULL), '{}')
FROM tasks t
LEFT JOIN task_dependencies d ON d.task_id = t.id
WHERE t.project_id = $1
GROUP BY t.id
ORDER BY t.position, t.created_at, t.id
`
	rows, err := s.pool.Query(ctx, selectTasksQuery, project)
	if err != nil {
		return nil, s.queryError(err, project, "failed to select tasks")
	}
	defer rows.Close()

	var tasks []graph.TaskNode
	for rows.Next() {
		var (
			t      graph.TaskNode
			status string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Duration, &status, &t.Dependencies); err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Status = graph.Status(status)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryError(err, project, "failed to iterate over task rows")
	}

	s.logger.Debug().
		Str("project", project).
		Int("count", len(tasks)).
		Msg("selected tasks by project")
	return tasks, nil
}

func (s *PostgresSource) ListGanttTasks(ctx context.Context, project string) ([]timeline.GanttTask, error) {
	const selectGanttQuery = `
SELECT t.id,
       t.name,
       t.start_date,
       t.end_date,
       t.progress,
       t.color,
       COALESCE(t.assignee, ''),
       COALESCE(array_agg(d.depends_on_id ORDER BY d.depends_on_id)
                FILTER (WHERE d.depends_on_id IS NOT NULL), '{}')
FROM tasks t
LEFT JOIN task_dependencies d ON d.task_id = t.id
WHERE t.project_id = $1
  AND t.start_date IS NOT NULL
  AND t.end_date IS NOT NULL
GROUP BY t.id
ORDER BY t.position, t.created_at, t.id
`
	rows, err := s.pool.Query(ctx, selectGanttQuery, project)
	if err != nil {
		return nil, s.queryError(err, project, "failed to select gantt tasks")
	}
	defer rows.Close()

	var tasks []timeline.GanttTask
	for rows.Next() {
		var (
			t          timeline.GanttTask
			start, end time.Time
		)
		if err := rows.Scan(&t.ID, &t.Name, &start, &end, &t.Progress, &t.Color, &t.Assignee, &t.Dependencies); err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan gantt task")
			return nil, fmt.Errorf("scan gantt task: %w", err)
		}
		t.StartDate = timeline.DateOf(start)
		t.EndDate = timeline.DateOf(end)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryError(err, project, "failed to iterate over gantt rows")
	}

	s.logger.Debug().
		Str("project", project).
		Int("count", len(tasks)).
		Msg("selected gantt tasks by project")
	return tasks, nil
}

func (s *PostgresSource) queryError(err error, project, msg string) error {
	s.logger.Error().
		Err(err).
		Str("project", project).
		Msg(msg)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %s", ErrSchemaMissing, pgErr.Message)
	}
	return fmt.Errorf("query tasks for project %s: %w", project, err)
}
