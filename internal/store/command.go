package store

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

// ProjectPlaceholder in a command argument is replaced by the requested
// project name.
const ProjectPlaceholder = "{project}"

// CommandSource runs an external command that prints tasks as JSON, such
// as an issue tracker CLI, and decodes its output with DecodePayload.
type CommandSource struct {
	logger      zerolog.Logger
	bin         string
	args        []string
	payloadPath string
}

// NewCommandSource creates a CommandSource running bin with args.
func NewCommandSource(logger zerolog.Logger, bin string, args []string, payloadPath string) *CommandSource {
	return &CommandSource{
		logger:      logger,
		bin:         bin,
		args:        args,
		payloadPath: payloadPath,
	}
}

// ParseCommand splits a command line on whitespace into a CommandSource.
func ParseCommand(logger zerolog.Logger, line, payloadPath string) (*CommandSource, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return NewCommandSource(logger, fields[0], fields[1:], payloadPath), nil
}

func (s *CommandSource) run(ctx context.Context, project string) ([]byte, error) {
	args := make([]string, len(s.args))
	for i, a := range s.args {
		args[i] = strings.ReplaceAll(a, ProjectPlaceholder, project)
	}

	cmd := exec.CommandContext(ctx, s.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		s.logger.Error().
			Err(err).
			Str("bin", s.bin).
			Strs("args", args).
			Msg("task command failed")
		return nil, fmt.Errorf("%s %s: %w\n%s", s.bin, strings.Join(args, " "), err, stderr)
	}

	s.logger.Debug().
		Str("bin", s.bin).
		Int("bytes", len(out)).
		Msg("ran task command")
	return out, nil
}

// Snapshot runs the command and decodes its output.
func (s *CommandSource) Snapshot(ctx context.Context, project string) (*Snapshot, error) {
	out, err := s.run(ctx, project)
	if err != nil {
		return nil, err
	}
	snap, err := DecodePayload(out, s.payloadPath)
	if err != nil {
		return nil, err
	}
	if snap.Project == "" {
		snap.Project = project
	}
	return snap, nil
}

func (s *CommandSource) ListTasks(ctx context.Context, project string) ([]graph.TaskNode, error) {
	snap, err := s.Snapshot(ctx, project)
	if err != nil {
		return nil, err
	}
	return snap.Tasks, nil
}

func (s *CommandSource) ListGanttTasks(ctx context.Context, project string) ([]timeline.GanttTask, error) {
	snap, err := s.Snapshot(ctx, project)
	if err != nil {
		return nil, err
	}
	return snap.Gantt, nil
}
