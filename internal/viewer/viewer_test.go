package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/pert"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/schedule"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/store"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/timeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func chainTasks() []graph.TaskNode {
	return []graph.TaskNode{
		{ID: "a", Name: "Design", Duration: 3, Status: graph.StatusCompleted},
		{ID: "b", Name: "Build", Duration: 2, Dependencies: []string{"a"}, Status: graph.StatusInProgress},
		{ID: "c", Name: "Ship", Duration: 1, Dependencies: []string{"b"}, Status: graph.StatusNotStarted},
	}
}

type stubSource struct {
	tasks map[string][]graph.TaskNode
	gantt map[string][]timeline.GanttTask
}

func (s stubSource) ListTasks(_ context.Context, project string) ([]graph.TaskNode, error) {
	tasks, ok := s.tasks[project]
	if !ok {
		return nil, store.ErrNotFound
	}
	return tasks, nil
}

func (s stubSource) ListGanttTasks(_ context.Context, project string) ([]timeline.GanttTask, error) {
	if _, ok := s.tasks[project]; !ok {
		return nil, store.ErrNotFound
	}
	return s.gantt[project], nil
}

func newTestServer(t *testing.T, source store.Source) (*Server, http.Handler) {
	t.Helper()
	memo, err := schedule.NewMemo(8)
	require.NoError(t, err)
	srv := New(zerolog.Nop(), source, memo, Options{
		Gantt: timeline.Options{Today: timeline.NewDate(2024, 1, 1)},
	})
	return srv, srv.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func upload(t *testing.T, h http.Handler, snap store.Snapshot) Created {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/snapshots", snap)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[Created](t, rec)
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestCreateSnapshot(t *testing.T) {
	srv, h := newTestServer(t, nil)

	created := upload(t, h, store.Snapshot{Project: "apollo", Tasks: chainTasks()})

	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.Hash(chainTasks()), created.Hash)
	assert.Equal(t, 3, created.TotalTasks)
	assert.Equal(t, 6, created.ProjectDuration)
	assert.Equal(t, []string{"a", "b", "c"}, created.CriticalPath)
	assert.Equal(t, 1, srv.memo.Len())

	rec := do(t, h, http.MethodGet, "/api/v1/snapshots/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "apollo", decode[store.Snapshot](t, rec).Project)
}

func TestCreateSnapshot_BadBody(t *testing.T) {
	_, h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots", bytes.NewBufferString(`{"tasks":`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSnapshot_Cycle(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/snapshots", store.Snapshot{Tasks: []graph.TaskNode{
		{ID: "a", Duration: 1, Dependencies: []string{"b"}},
		{ID: "b", Duration: 1, Dependencies: []string{"a"}},
	}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode[struct {
		Error string   `json:"error"`
		Cycle []string `json:"cycle"`
	}](t, rec)
	assert.Contains(t, body.Error, "dependency cycle detected")
	require.Len(t, body.Cycle, 3)
	assert.Equal(t, body.Cycle[0], body.Cycle[2])
}

func TestCreateSnapshot_Validate(t *testing.T) {
	_, h := newTestServer(t, nil)
	snap := store.Snapshot{Tasks: []graph.TaskNode{{ID: "a", Duration: -2, Status: graph.StatusNotStarted}}}

	rec := do(t, h, http.MethodPost, "/api/v1/snapshots?validate=true", snap)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "negative duration")

	rec = do(t, h, http.MethodPost, "/api/v1/snapshots?validate=maybe", snap)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Without validation negative durations are scheduled as given.
	rec = do(t, h, http.MethodPost, "/api/v1/snapshots", snap)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, -2, decode[Created](t, rec).ProjectDuration)
}

func TestSnapshotPert(t *testing.T) {
	_, h := newTestServer(t, nil)
	tasks := append(chainTasks(), graph.TaskNode{ID: "d", Duration: 1, Dependencies: []string{"a"}})
	created := upload(t, h, store.Snapshot{Tasks: tasks})

	rec := do(t, h, http.MethodGet, "/api/v1/snapshots/"+created.ID+"/pert", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	diagram := decode[pert.Diagram](t, rec)

	require.Len(t, diagram.Nodes, 4)
	assert.Equal(t, "a", diagram.Nodes[0].ID)
	assert.Equal(t, float64(pert.DefaultPadding), diagram.Nodes[0].X)
	assert.Equal(t, 6, diagram.Metadata.ProjectDuration)
	assert.False(t, diagram.Metadata.ExactEdges)
	require.Len(t, diagram.Edges, 3)

	rec = do(t, h, http.MethodGet, "/api/v1/snapshots/"+created.ID+"/pert?exact=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[pert.Diagram](t, rec).Metadata.ExactEdges)

	rec = do(t, h, http.MethodGet, "/api/v1/snapshots/"+created.ID+"/pert?exact=perhaps", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshotGantt_DerivedFromSchedule(t *testing.T) {
	_, h := newTestServer(t, nil)
	created := upload(t, h, store.Snapshot{Tasks: chainTasks()})

	rec := do(t, h, http.MethodGet, "/api/v1/snapshots/"+created.ID+"/gantt?start=2024-03-04&unit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	chart := decode[timeline.Chart](t, rec)

	require.Len(t, chart.TaskBars, 3)
	assert.Equal(t, timeline.NewDate(2024, 2, 26), chart.ChartStart)
	assert.Equal(t, timeline.NewDate(2024, 3, 4), chart.TaskBars[0].Start)
	assert.Equal(t, timeline.NewDate(2024, 3, 6), chart.TaskBars[0].End)
	assert.Equal(t, timeline.NewDate(2024, 3, 7), chart.TaskBars[1].Start)
	assert.Equal(t, 100, chart.TaskBars[0].Progress)
	assert.Equal(t, 10.0, chart.UnitWidth)
	assert.Len(t, chart.Arrows, 2)
}

func TestSnapshotGantt_StoredBars(t *testing.T) {
	_, h := newTestServer(t, nil)
	created := upload(t, h, store.Snapshot{
		Tasks: chainTasks(),
		Gantt: []timeline.GanttTask{
			{ID: "a", Name: "Design", StartDate: timeline.NewDate(2024, 1, 1), EndDate: timeline.NewDate(2024, 1, 5)},
		},
	})

	rec := do(t, h, http.MethodGet, "/api/v1/snapshots/"+created.ID+"/gantt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	chart := decode[timeline.Chart](t, rec)

	require.Len(t, chart.TaskBars, 1)
	assert.Equal(t, timeline.NewDate(2023, 12, 25), chart.ChartStart)
	assert.Equal(t, timeline.NewDate(2024, 1, 19), chart.ChartEnd)
	assert.Equal(t, 26, chart.TotalDays)
	require.NotNil(t, chart.TodayOffset)
	assert.Equal(t, timeline.RelativeCurrent, chart.TaskBars[0].TodayRelative)
}

func TestSnapshotGantt_Empty(t *testing.T) {
	_, h := newTestServer(t, nil)
	created := upload(t, h, store.Snapshot{})

	rec := do(t, h, http.MethodGet, "/api/v1/snapshots/"+created.ID+"/gantt?start=2024-05-01&end=2024-05-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	chart := decode[timeline.Chart](t, rec)
	assert.Equal(t, 10, chart.TotalDays)
	assert.Empty(t, chart.TaskBars)
}

func TestSnapshotGantt_BadQuery(t *testing.T) {
	_, h := newTestServer(t, nil)
	created := upload(t, h, store.Snapshot{Tasks: chainTasks()})

	for _, q := range []string{"?start=tomorrow", "?end=2024-13-01", "?unit=0", "?unit=wide", "?today=x"} {
		rec := do(t, h, http.MethodGet, "/api/v1/snapshots/"+created.ID+"/gantt"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestSnapshotGantt_InvertedBounds(t *testing.T) {
	_, h := newTestServer(t, nil)
	empty := upload(t, h, store.Snapshot{})
	withTasks := upload(t, h, store.Snapshot{Tasks: chainTasks()})

	for _, path := range []string{
		"/api/v1/snapshots/" + empty.ID + "/gantt?start=2030-01-01",
		"/api/v1/snapshots/" + empty.ID + "/gantt?start=2024-05-10&end=2024-05-01",
		"/api/v1/snapshots/" + withTasks.ID + "/gantt?start=2024-05-10&end=2024-05-01",
	} {
		rec := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "chart ends before it starts", path)
	}
}

func TestSnapshot_NotFound(t *testing.T) {
	_, h := newTestServer(t, nil)
	id := uuid.NewString()

	for _, path := range []string{"", "/pert", "/gantt"} {
		rec := do(t, h, http.MethodGet, "/api/v1/snapshots/"+id+path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	_, h := newTestServer(t, nil)
	created := upload(t, h, store.Snapshot{Tasks: chainTasks()})

	rec := do(t, h, http.MethodDelete, "/api/v1/snapshots/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/snapshots/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectRoutes(t *testing.T) {
	src := stubSource{
		tasks: map[string][]graph.TaskNode{
			"apollo": chainTasks(),
			"loop": {
				{ID: "x", Duration: 1, Dependencies: []string{"y"}},
				{ID: "y", Duration: 1, Dependencies: []string{"x"}},
			},
		},
	}
	_, h := newTestServer(t, src)

	rec := do(t, h, http.MethodGet, "/api/v1/projects/apollo/pert", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[pert.Diagram](t, rec).Nodes, 3)

	rec = do(t, h, http.MethodGet, "/api/v1/projects/apollo/gantt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	chart := decode[timeline.Chart](t, rec)
	require.Len(t, chart.TaskBars, 3)
	assert.Equal(t, timeline.NewDate(2024, 1, 1), chart.TaskBars[0].Start)

	rec = do(t, h, http.MethodGet, "/api/v1/projects/loop/pert", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/projects/zeus/gantt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectRoutes_NoSource(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/projects/apollo/pert", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostSnapshot(t *testing.T) {
	_, h := newTestServer(t, nil)
	ts := httptest.NewServer(h)
	defer ts.Close()

	created, err := PostSnapshot(context.Background(), ts.URL, &store.Snapshot{Tasks: chainTasks()})
	require.NoError(t, err)
	assert.Equal(t, 6, created.ProjectDuration)

	_, err = PostSnapshot(context.Background(), ts.URL, &store.Snapshot{Tasks: []graph.TaskNode{
		{ID: "a", Dependencies: []string{"a"}},
	}})
	assert.ErrorContains(t, err, "422")

	assert.True(t, IsPortOpen(ts.Listener.Addr().String()))
}

func TestListenAndServe_Shutdown(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0", time.Second)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
