package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

// FileSource reads snapshots from a YAML or JSON file. The file is read on
// every call so edits show up without restarting.
//
// The file holds either one snapshot or a list under "projects":
//
//	projects:
//	  - project: apollo
//	    tasks: [...]
type FileSource struct {
	logger      zerolog.Logger
	path        string
	payloadPath string
}

// NewFileSource creates a FileSource for path. When payloadPath is set the
// file is treated as a raw JSON payload and tasks are extracted at that
// gjson path (see DecodePayload).
func NewFileSource(logger zerolog.Logger, path, payloadPath string) *FileSource {
	return &FileSource{
		logger:      logger,
		path:        path,
		payloadPath: payloadPath,
	}
}

func (s *FileSource) ListTasks(_ context.Context, project string) ([]graph.TaskNode, error) {
	snap, err := s.load(project)
	if err != nil {
		return nil, err
	}
	return snap.Tasks, nil
}

func (s *FileSource) ListGanttTasks(_ context.Context, project string) ([]timeline.GanttTask, error) {
	snap, err := s.load(project)
	if err != nil {
		return nil, err
	}
	return snap.Gantt, nil
}

// Snapshot returns the whole snapshot for project.
func (s *FileSource) Snapshot(project string) (*Snapshot, error) {
	return s.load(project)
}

func (s *FileSource) load(project string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var snaps []*Snapshot
	if s.payloadPath != "" {
		snap, err := DecodePayload(data, s.payloadPath)
		if err != nil {
			return nil, err
		}
		if snap.Project == "" {
			snap.Project = project
		}
		snaps = []*Snapshot{snap}
	} else {
		snaps, err = ParseSnapshots(data, formatOf(s.path))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.path, err)
		}
	}

	snap, err := pick(snaps, project)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("path", s.path).
		Str("project", snap.Project).
		Int("tasks", len(snap.Tasks)).
		Int("gantt_tasks", len(snap.Gantt)).
		Msg("loaded snapshot")
	return snap, nil
}

// Format names a snapshot encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return ""
}

type snapshotList struct {
	Projects []*Snapshot `json:"projects" yaml:"projects"`
}

// ParseSnapshots decodes one snapshot or a "projects" list. An empty format
// sniffs JSON by its first non-space byte.
func ParseSnapshots(data []byte, format Format) ([]*Snapshot, error) {
	if format == "" {
		format = FormatYAML
		if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			format = FormatJSON
		}
	}

	switch format {
	case FormatJSON:
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("invalid JSON")
		}
		if gjson.GetBytes(data, "projects").IsArray() {
			var list snapshotList
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, fmt.Errorf("unmarshal snapshots: %w", err)
			}
			return list.Projects, nil
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		return []*Snapshot{&snap}, nil

	case FormatYAML:
		var list snapshotList
		if err := yaml.Unmarshal(data, &list); err == nil && len(list.Projects) > 0 {
			return list.Projects, nil
		}
		var snap Snapshot
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		return []*Snapshot{&snap}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// MarshalSnapshot encodes s in the given format.
func MarshalSnapshot(s *Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML, "":
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func pick(snaps []*Snapshot, project string) (*Snapshot, error) {
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	if project == "" {
		return snaps[0], nil
	}
	for _, s := range snaps {
		if s.Project == project {
			return s, nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", project, ErrNotFound)
}
