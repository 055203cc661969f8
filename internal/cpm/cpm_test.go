package cpm

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
)

func node(id string, duration int, deps ...string) graph.TaskNode {
	return graph.TaskNode{ID: id, Name: "Task " + id, Duration: duration, Dependencies: deps}
}

func analyze(t *testing.T, tasks ...graph.TaskNode) *Result {
	t.Helper()
	result, err := Analyze(graph.Build(tasks))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func TestAnalyze_WorkedExample(t *testing.T) {
	// A(2) -> B(3)
	// A(2) -> C(1)
	result := analyze(t,
		node("a", 2),
		node("b", 3, "a"),
		node("c", 1, "a"),
	)

	if result.ProjectDuration != 5 {
		t.Errorf("expected project duration 5, got %d", result.ProjectDuration)
	}

	assertSchedule(t, result.Tasks["a"], 0, 2, 0, 2, 0, true)
	assertSchedule(t, result.Tasks["b"], 2, 5, 2, 5, 0, true)
	assertSchedule(t, result.Tasks["c"], 2, 3, 4, 5, 2, false)

	if !reflect.DeepEqual(result.CriticalPath, []string{"a", "b"}) {
		t.Errorf("expected critical path [a b], got %v", result.CriticalPath)
	}
}

func TestAnalyze_LinearChain(t *testing.T) {
	// A -> B -> C (each duration 1)
	result := analyze(t,
		node("a", 1),
		node("b", 1, "a"),
		node("c", 1, "b"),
	)

	if result.ProjectDuration != 3 {
		t.Errorf("expected project duration 3, got %d", result.ProjectDuration)
	}
	if len(result.CriticalPath) != 3 {
		t.Errorf("expected 3 tasks on critical path, got %d: %v", len(result.CriticalPath), result.CriticalPath)
	}
	// Should be 3 levels (no parallelism in a chain)
	if len(result.Levels) != 3 {
		t.Errorf("expected 3 levels, got %d", len(result.Levels))
	}

	assertSchedule(t, result.Tasks["a"], 0, 1, 0, 1, 0, true)
	assertSchedule(t, result.Tasks["b"], 1, 2, 1, 2, 0, true)
	assertSchedule(t, result.Tasks["c"], 2, 3, 2, 3, 0, true)
}

func TestAnalyze_WithDurations(t *testing.T) {
	// A(5) -> B(1) -> D(1)
	// A(5) -> C(10) -> D(1)
	// Critical path should be A -> C -> D (total 16)
	result := analyze(t,
		node("a", 5),
		node("b", 1, "a"),
		node("c", 10, "a"),
		node("d", 1, "b", "c"),
	)

	if result.ProjectDuration != 16 {
		t.Errorf("expected project duration 16, got %d", result.ProjectDuration)
	}

	// B should have slack (not critical)
	if result.Tasks["b"].IsCritical {
		t.Error("expected task B to NOT be critical")
	}
	if result.Tasks["b"].Slack != 9 {
		t.Errorf("expected B slack=9, got %d", result.Tasks["b"].Slack)
	}

	for _, id := range []string{"a", "c", "d"} {
		if !result.Tasks[id].IsCritical {
			t.Errorf("expected task %s to be critical", id)
		}
	}

	if !reflect.DeepEqual(result.LongestPath(), []string{"a", "c", "d"}) {
		t.Errorf("expected longest path [a c d], got %v", result.LongestPath())
	}
}

func TestAnalyze_ParallelIndependent(t *testing.T) {
	result := analyze(t, node("a", 1), node("b", 4), node("c", 2))

	// All should be in level 0
	if len(result.Levels) != 1 {
		t.Errorf("expected 1 level, got %d", len(result.Levels))
	}
	if len(result.Levels[0].TaskIDs) != 3 {
		t.Errorf("expected 3 tasks in level 0, got %d", len(result.Levels[0].TaskIDs))
	}
	if result.ProjectDuration != 4 {
		t.Errorf("expected project duration 4, got %d", result.ProjectDuration)
	}
	assertSchedule(t, result.Tasks["a"], 0, 1, 3, 4, 3, false)
	assertSchedule(t, result.Tasks["b"], 0, 4, 0, 4, 0, true)
}

func TestAnalyze_Empty(t *testing.T) {
	result := analyze(t)

	if result.ProjectDuration != 0 {
		t.Errorf("expected project duration 0, got %d", result.ProjectDuration)
	}
	if len(result.Tasks) != 0 || len(result.Levels) != 0 || len(result.CriticalPath) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.LongestPath() != nil {
		t.Errorf("expected no longest path, got %v", result.LongestPath())
	}
}

func TestAnalyze_AllZeroDurations(t *testing.T) {
	result := analyze(t, node("a", 0), node("b", 0, "a"), node("c", 0))

	for _, id := range []string{"a", "b", "c"} {
		assertSchedule(t, result.Tasks[id], 0, 0, 0, 0, 0, true)
	}
}

func TestAnalyze_DanglingDependency(t *testing.T) {
	result := analyze(t,
		node("a", 3, "does-not-exist"),
		node("b", 2, "a", "also-missing"),
	)

	assertSchedule(t, result.Tasks["a"], 0, 3, 0, 3, 0, true)
	assertSchedule(t, result.Tasks["b"], 3, 5, 3, 5, 0, true)
}

func TestAnalyze_NegativeDurationPropagates(t *testing.T) {
	result := analyze(t, node("a", -2), node("b", 1, "a"))

	if result.Tasks["a"].EF != -2 {
		t.Errorf("expected EF=-2, got %d", result.Tasks["a"].EF)
	}
	if result.Tasks["b"].ES != -2 {
		t.Errorf("expected ES=-2, got %d", result.Tasks["b"].ES)
	}
}

func TestAnalyze_Cycle(t *testing.T) {
	_, err := Analyze(graph.Build([]graph.TaskNode{
		node("a", 1, "b"),
		node("b", 1, "a"),
	}))
	if !errors.Is(err, graph.ErrCycleDetected) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestAnalyze_Properties(t *testing.T) {
	tasks := []graph.TaskNode{
		node("design", 3),
		node("api", 5, "design"),
		node("ui", 4, "design"),
		node("db", 2),
		node("integrate", 2, "api", "ui", "db"),
		node("docs", 1, "api"),
		node("release", 1, "integrate", "docs"),
	}
	result := analyze(t, tasks...)

	maxEF := 0
	for _, id := range result.Order {
		m := result.Tasks[id]
		if m.EF != m.ES+m.Duration {
			t.Errorf("task %s: EF %d != ES %d + duration %d", id, m.EF, m.ES, m.Duration)
		}
		if m.Slack != m.LS-m.ES {
			t.Errorf("task %s: slack %d != LS %d - ES %d", id, m.Slack, m.LS, m.ES)
		}
		if m.Slack < 0 {
			t.Errorf("task %s: negative slack %d", id, m.Slack)
		}
		if m.EF > maxEF {
			maxEF = m.EF
		}
	}
	if result.ProjectDuration != maxEF {
		t.Errorf("expected project duration %d, got %d", maxEF, result.ProjectDuration)
	}

	// design(3) + api(5) + integrate(2) + release(1) = 11
	path := result.LongestPath()
	total := 0
	for _, id := range path {
		total += result.Tasks[id].Duration
		if result.Tasks[id].Slack != 0 {
			t.Errorf("task %s on longest path has slack %d", id, result.Tasks[id].Slack)
		}
	}
	if total != result.ProjectDuration {
		t.Errorf("longest path %v sums to %d, expected %d", path, total, result.ProjectDuration)
	}

	// Idempotence
	again := analyze(t, tasks...)
	for _, id := range result.Order {
		if *result.Tasks[id] != *again.Tasks[id] {
			t.Errorf("task %s: second analysis differs: %+v vs %+v", id, *result.Tasks[id], *again.Tasks[id])
		}
	}
}

func TestEdgeIsCritical_Approximation(t *testing.T) {
	// Two zero-slack chains a -> b -> d and a -> c -> d, plus a shortcut
	// a -> d that is not tight but still joins two critical tasks.
	result := analyze(t,
		node("a", 2),
		node("b", 3, "a"),
		node("c", 3, "a"),
		node("d", 1, "b", "c", "a"),
	)

	if !result.EdgeIsCritical("a", "d") {
		t.Error("expected the approximation to label a -> d critical")
	}

	traced := result.TraceCriticalEdges()
	want := []Edge{{From: "a", To: "b"}, {From: "a", To: "c"}, {From: "b", To: "d"}, {From: "c", To: "d"}}
	if !reflect.DeepEqual(traced, want) {
		t.Errorf("expected traced edges %v, got %v", want, traced)
	}
}

func TestEdgeIsCritical_UnknownTask(t *testing.T) {
	result := analyze(t, node("a", 1))
	if result.EdgeIsCritical("a", "ghost") {
		t.Error("edge to unknown task must not be critical")
	}
}

func TestEdges_SkipsDangling(t *testing.T) {
	result := analyze(t, node("a", 1), node("b", 1, "a", "ghost"))
	edges := result.Edges()
	if len(edges) != 1 || edges[0] != (Edge{From: "a", To: "b"}) {
		t.Errorf("expected [a->b], got %v", edges)
	}
}

func TestLevels_CriticalFlag(t *testing.T) {
	result := analyze(t, node("a", 2), node("b", 3, "a"), node("c", 1, "a"))

	if len(result.Levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(result.Levels))
	}
	if !reflect.DeepEqual(result.Levels[1].TaskIDs, []string{"b", "c"}) {
		t.Errorf("expected level 1 [b c], got %v", result.Levels[1].TaskIDs)
	}
	if !result.Levels[1].IsCritical {
		t.Error("expected level 1 to be flagged critical")
	}
	if result.Tasks["c"].Level != 1 {
		t.Errorf("expected c at level 1, got %d", result.Tasks["c"].Level)
	}
}

func assertSchedule(t *testing.T, m *Metrics, es, ef, ls, lf, slack int, critical bool) {
	t.Helper()
	if m == nil {
		t.Fatal("missing task metrics")
	}
	if m.ES != es {
		t.Errorf("task %s: expected ES=%d, got %d", m.TaskID, es, m.ES)
	}
	if m.EF != ef {
		t.Errorf("task %s: expected EF=%d, got %d", m.TaskID, ef, m.EF)
	}
	if m.LS != ls {
		t.Errorf("task %s: expected LS=%d, got %d", m.TaskID, ls, m.LS)
	}
	if m.LF != lf {
		t.Errorf("task %s: expected LF=%d, got %d", m.TaskID, lf, m.LF)
	}
	if m.Slack != slack {
		t.Errorf("task %s: expected slack=%d, got %d", m.TaskID, slack, m.Slack)
	}
	if m.IsCritical != critical {
		t.Errorf("task %s: expected critical=%v, got %v", m.TaskID, critical, m.IsCritical)
	}
}
