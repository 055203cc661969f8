package store

import (
	"errors"
	"fmt"
)

// Validate checks a snapshot for input the engine accepts silently but a
// caller usually wants rejected: empty or duplicate ids, negative
// durations, unknown statuses, progress outside 0-100 and inverted date
// ranges. All problems are reported together.
func Validate(s *Snapshot) error {
	var errs []error

	seen := make(map[string]bool, len(s.Tasks))
	for i, t := range s.Tasks {
		switch {
		case t.ID == "":
			errs = append(errs, fmt.Errorf("task #%d: empty id", i))
		case seen[t.ID]:
			errs = append(errs, fmt.Errorf("task %s: duplicate id", t.ID))
		}
		seen[t.ID] = true

		if t.Duration < 0 {
			errs = append(errs, fmt.Errorf("task %s: negative duration %d", t.ID, t.Duration))
		}
		if !t.Status.Valid() {
			errs = append(errs, fmt.Errorf("task %s: unknown status %q", t.ID, t.Status))
		}
	}

	seen = make(map[string]bool, len(s.Gantt))
	for i, t := range s.Gantt {
		switch {
		case t.ID == "":
			errs = append(errs, fmt.Errorf("gantt task #%d: empty id", i))
		case seen[t.ID]:
			errs = append(errs, fmt.Errorf("gantt task %s: duplicate id", t.ID))
		}
		seen[t.ID] = true

		if t.Progress < 0 || t.Progress > 100 {
			errs = append(errs, fmt.Errorf("gantt task %s: progress %d outside 0-100", t.ID, t.Progress))
		}
		if t.StartDate.IsZero() || t.EndDate.IsZero() {
			errs = append(errs, fmt.Errorf("gantt task %s: missing start or end date", t.ID))
		} else if t.EndDate.Before(t.StartDate) {
			errs = append(errs, fmt.Errorf("gantt task %s: ends %s before it starts %s", t.ID, t.EndDate, t.StartDate))
		}
	}

	return errors.Join(errs...)
}
