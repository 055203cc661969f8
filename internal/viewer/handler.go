package viewer

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/pert"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/schedule"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/store"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

// Created is the answer to a snapshot upload.
type Created struct {
	ID              string   `json:"id"`
	Hash            string   `json:"hash"`
	TotalTasks      int      `json:"totalTasks"`
	ProjectDuration int      `json:"projectDuration"`
	CriticalPath    []string `json:"criticalPath"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"snapshots":       s.snapshots.Len(),
		"cachedSchedules": s.memo.Len(),
	})
}

// handleCreateSnapshot stores an uploaded snapshot. The schedule is
// computed up front so a cyclic snapshot is refused at upload time.
// ?validate=true additionally rejects suspicious input.
func (s *Server) handleCreateSnapshot(c *gin.Context) {
	var snap store.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		s.logger.Debug().
			Err(err).
			Msg("failed to bind snapshot")
		s.abort(c, newBadRequestError("invalid snapshot: "+err.Error()))
		return
	}

	if ok, err := boolQuery(c, "validate"); err != nil {
		s.abort(c, err)
		return
	} else if ok {
		if err := store.Validate(&snap); err != nil {
			s.abort(c, newBadRequestError(err.Error()))
			return
		}
	}

	r, err := s.memo.Compute(snap.Tasks)
	if err != nil {
		s.abort(c, err)
		return
	}

	id := s.snapshots.Put(&snap)
	s.logger.Info().
		Str("id", id).
		Str("project", snap.Project).
		Int("tasks", r.Len()).
		Msg("stored snapshot")

	c.JSON(http.StatusCreated, Created{
		ID:              id,
		Hash:            r.Hash(),
		TotalTasks:      r.Len(),
		ProjectDuration: r.ProjectDuration(),
		CriticalPath:    r.CriticalTasks(),
	})
}

func (s *Server) handleGetSnapshot(c *gin.Context) {
	snap, err := s.snapshots.Get(c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(c *gin.Context) {
	if !s.snapshots.Delete(c.Param("id")) {
		s.abort(c, store.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSnapshotPert(c *gin.Context) {
	s.servePert(c, s.snapshots, c.Param("id"))
}

func (s *Server) handleSnapshotGantt(c *gin.Context) {
	s.serveGantt(c, s.snapshots, c.Param("id"))
}

func (s *Server) handleProjectPert(c *gin.Context) {
	s.servePert(c, s.source, c.Param("project"))
}

func (s *Server) handleProjectGantt(c *gin.Context) {
	s.serveGantt(c, s.source, c.Param("project"))
}

func (s *Server) servePert(c *gin.Context, src store.Source, key string) {
	exact, err := boolQuery(c, "exact")
	if err != nil {
		s.abort(c, err)
		return
	}

	tasks, err := src.ListTasks(c, key)
	if err != nil {
		s.abort(c, err)
		return
	}
	r, err := s.memo.Compute(tasks)
	if err != nil {
		s.abort(c, err)
		return
	}

	opts := s.opts.Pert
	opts.ExactCriticalEdges = exact
	c.JSON(http.StatusOK, pert.Build(r, opts))
}

// serveGantt lays out the stored calendar tasks. A snapshot without
// calendar tasks is scheduled and placed from ?start= (or today) on.
func (s *Server) serveGantt(c *gin.Context, src store.Source, key string) {
	opts, err := s.ganttOptions(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	bars, err := src.ListGanttTasks(c, key)
	if err != nil {
		s.abort(c, err)
		return
	}

	if len(bars) == 0 {
		tasks, err := src.ListTasks(c, key)
		if err != nil {
			s.abort(c, err)
			return
		}
		if len(tasks) > 0 {
			r, err := s.memo.Compute(tasks)
			if err != nil {
				s.abort(c, err)
				return
			}
			anchor := opts.Today
			if opts.Start != nil {
				anchor = *opts.Start
			}
			if anchor.IsZero() {
				anchor = timeline.Today()
			}
			bars = schedule.ToGantt(r, anchor)
		}
	}

	if err := opts.CheckBounds(len(bars) == 0); err != nil {
		s.abort(c, newBadRequestError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, timeline.Layout(bars, opts))
}

func (s *Server) ganttOptions(c *gin.Context) (timeline.Options, error) {
	opts := s.opts.Gantt

	for _, q := range []struct {
		name string
		dst  **timeline.Date
	}{
		{"start", &opts.Start},
		{"end", &opts.End},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		d, err := timeline.ParseDate(raw)
		if err != nil {
			return opts, newBadRequestError(q.name + ": " + err.Error())
		}
		*q.dst = &d
	}

	if raw := c.Query("today"); raw != "" {
		d, err := timeline.ParseDate(raw)
		if err != nil {
			return opts, newBadRequestError("today: " + err.Error())
		}
		opts.Today = d
	}

	if raw := c.Query("unit"); raw != "" {
		unit, err := strconv.ParseFloat(raw, 64)
		if err != nil || unit <= 0 {
			return opts, newBadRequestError("unit must be a positive number")
		}
		opts.UnitWidth = unit
	}

	return opts, nil
}

func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, newBadRequestError(name + " must be a boolean")
	}
	return v, nil
}
