package graph

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

func mustLevel(t *testing.T, tasks []TaskNode) *Levels {
	t.Helper()
	levels, err := Level(Build(tasks))
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	return levels
}

func TestLevel_LinearChain(t *testing.T) {
	levels := mustLevel(t, []TaskNode{
		task("c", 1, "b"),
		task("b", 1, "a"),
		task("a", 1),
	})

	for id, want := range map[string]int{"a": 0, "b": 1, "c": 2} {
		if got, _ := levels.Of(id); got != want {
			t.Errorf("task %s: expected level %d, got %d", id, want, got)
		}
	}
	if levels.Depth() != 3 {
		t.Errorf("expected 3 levels, got %d", levels.Depth())
	}
}

func TestLevel_LongestChainWins(t *testing.T) {
	// d depends on a directly and on a via b -> c
	levels := mustLevel(t, []TaskNode{
		task("a", 1),
		task("b", 1, "a"),
		task("c", 1, "b"),
		task("d", 1, "a", "c"),
	})
	if got, _ := levels.Of("d"); got != 3 {
		t.Errorf("expected d at level 3, got %d", got)
	}
}

func TestLevel_GroupsKeepInputOrder(t *testing.T) {
	levels := mustLevel(t, []TaskNode{
		task("z", 1),
		task("y", 1, "z"),
		task("a", 1),
		task("x", 1, "a"),
		task("m", 1),
	})

	want := [][]string{{"z", "a", "m"}, {"y", "x"}}
	if !reflect.DeepEqual(levels.Groups, want) {
		t.Errorf("expected groups %v, got %v", want, levels.Groups)
	}
}

func TestLevel_DanglingDependency(t *testing.T) {
	levels := mustLevel(t, []TaskNode{
		task("a", 1, "ghost"),
		task("b", 1, "a", "phantom"),
	})
	if got, _ := levels.Of("a"); got != 0 {
		t.Errorf("expected a at level 0, got %d", got)
	}
	if got, _ := levels.Of("b"); got != 1 {
		t.Errorf("expected b at level 1, got %d", got)
	}
	if _, ok := levels.Of("ghost"); ok {
		t.Error("dangling id must not be leveled")
	}
}

func TestLevel_Empty(t *testing.T) {
	levels := mustLevel(t, nil)
	if levels.Depth() != 0 {
		t.Errorf("expected no levels, got %d", levels.Depth())
	}
}

func TestLevel_Cycle(t *testing.T) {
	_, err := Level(Build([]TaskNode{
		task("root", 1),
		task("a", 1, "root", "c"),
		task("b", 1, "a"),
		task("c", 1, "b"),
	}))
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	want := []string{"a", "c", "b", "a"}
	if !reflect.DeepEqual(ce.Path, want) {
		t.Errorf("expected path %v, got %v", want, ce.Path)
	}
}

func TestLevel_SelfDependency(t *testing.T) {
	_, err := Level(Build([]TaskNode{task("a", 1, "a")}))

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if !reflect.DeepEqual(ce.Path, []string{"a", "a"}) {
		t.Errorf("expected path [a a], got %v", ce.Path)
	}
}

func TestLevel_DeepChainDoesNotRecurse(t *testing.T) {
	const n = 100000
	tasks := make([]TaskNode, n)
	for i := range tasks {
		tasks[i] = TaskNode{ID: strconv.Itoa(i)}
		if i > 0 {
			tasks[i].Dependencies = []string{strconv.Itoa(i - 1)}
		}
	}
	// Reverse so the walk starts from the deepest task.
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		tasks[i], tasks[j] = tasks[j], tasks[i]
	}

	levels := mustLevel(t, tasks)
	if got, _ := levels.Of(strconv.Itoa(n - 1)); got != n-1 {
		t.Errorf("expected deepest level %d, got %d", n-1, got)
	}
}
