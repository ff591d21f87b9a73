package pipeline

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/geom"
)

// Task is one independent pipeline run in a batch. Each task owns its
// cloud and options, so no locking is needed between workers.
type Task struct {
	ID    string
	Name  string
	Cloud geom.PointCloud
	Opts  curve.Options
}

// TaskResult pairs a task with its outcome.
type TaskResult struct {
	Task   Task
	Output Output
	Err    error
}

// RunBatch processes tasks with a fixed-size worker pool, one full
// pipeline run per task. Results are returned in task order. Tasks
// without an ID are assigned one. Cancellation propagates to the
// quadrature of in-flight runs and skips tasks not yet started.
func RunBatch(ctx context.Context, tasks []Task, workers int) []TaskResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	results := make([]TaskResult, len(tasks))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				task := tasks[i]
				if task.ID == "" {
					task.ID = uuid.New().String()
				}
				if ctx.Err() != nil {
					results[i] = TaskResult{Task: task, Err: ctx.Err()}
					continue
				}
				out, err := Run(ctx, task.Cloud, task.Opts)
				if err != nil {
					log.Printf("batch task %s (%s) failed: %v", task.ID, task.Name, err)
				}
				results[i] = TaskResult{Task: task, Output: out, Err: err}
			}
		}()
	}

	for i := range tasks {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}
