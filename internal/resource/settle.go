package resource

import (
	"context"
	"sort"
	"sync"
)

// Task is one independent load of a page.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Report lists the tasks that failed, sorted by name.
type Report struct {
	Failed []string `json:"failed,omitempty"`
}

func (r Report) Degraded() bool { return len(r.Failed) > 0 }

// Settle runs every task concurrently and returns once all of them have finished,
// whether they succeeded or not. A failing task does not cancel the others.
func Settle(ctx context.Context, tasks ...Task) Report {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report Report
	)
	for _, t := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			if err := t.Run(ctx); err != nil {
				mu.Lock()
				report.Failed = append(report.Failed, t.Name)
				mu.Unlock()
			}
		}(t)
	}
	wg.Wait()
	sort.Strings(report.Failed)
	return report
}

// Into loads r for key and stores the snapshot in dst.
func Into[T any](r *Resource[T], key, token string, dst *Snapshot[T]) Task {
	return Task{
		Name: r.Name(),
		Run: func(ctx context.Context) error {
			*dst = r.Load(ctx, key, token)
			return dst.Err
		},
	}
}
