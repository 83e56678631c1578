package core

import (
	"context"
	"sync"
	"time"

	"ndkports/internal/policies"
	"ndkports/internal/types"
)

// PairTask is one (recipe, abi) node of the build graph. Deps index into
// the task list and always point at earlier tasks.
type PairTask struct {
	Recipe Recipe
	Abi    types.Abi
	API    int
	Deps   []int
}

type pairJob struct {
	index int
}

type pairResult struct {
	index    int
	err      error
	duration time.Duration
}

// Scheduler runs a task graph on a fixed worker pool. With one worker the
// tasks run strictly in list order.
type Scheduler struct {
	Workers int
	Policy  types.FailurePolicy
}

// Run executes tasks and returns one result per task in list order.
func (s Scheduler) Run(ctx context.Context, tasks []PairTask, run func(ctx context.Context, task PairTask) error) []types.PairResult {
	results := make([]types.PairResult, len(tasks))
	for i, task := range tasks {
		results[i] = types.PairResult{Port: task.Recipe.Spec().Name, Abi: task.Abi.Name, API: task.API}
	}
	if len(tasks) == 0 {
		return results
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	dependents := make([][]int, len(tasks))
	pending := make([]int, len(tasks))
	for i, task := range tasks {
		pending[i] = len(task.Deps)
		for _, dep := range task.Deps {
			dependents[dep] = append(dependents[dep], i)
		}
	}

	jobQueue := make(chan pairJob, len(tasks))
	resultChan := make(chan pairResult, len(tasks))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobQueue {
				started := time.Now()
				err := run(ctx, tasks[job.index])
				resultChan <- pairResult{index: job.index, err: err, duration: time.Since(started)}
			}
		}()
	}

	var ready []int
	for i := range tasks {
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}
	finished := make([]bool, len(tasks))
	inflight := 0
	stopped := false

	dispatch := func() {
		for !stopped && inflight < workers && len(ready) > 0 {
			next := popLowest(&ready)
			inflight++
			jobQueue <- pairJob{index: next}
		}
	}

	dispatch()
	for inflight > 0 {
		res := <-resultChan
		inflight--
		finished[res.index] = true
		results[res.index].Duration = res.duration
		if res.err == nil {
			results[res.index].Status = types.PairStatusSucceeded
			for _, dependent := range dependents[res.index] {
				pending[dependent]--
				if pending[dependent] == 0 {
					ready = append(ready, dependent)
				}
			}
		} else {
			results[res.index].Status = types.PairStatusFailed
			results[res.index].Err = res.err
			if !policies.ContinueAfterFailure(s.Policy) {
				stopped = true
			} else {
				skipDependents(res.index, dependents, finished, results)
			}
		}
		if ctx.Err() != nil {
			stopped = true
		}
		dispatch()
	}
	close(jobQueue)
	wg.Wait()

	for i := range results {
		if finished[i] {
			continue
		}
		results[i].Status = types.PairStatusSkipped
		if results[i].Reason == "" {
			if ctx.Err() != nil {
				results[i].Reason = "run cancelled"
			} else {
				results[i].Reason = "run stopped after failure"
			}
		}
	}
	return results
}

// skipDependents marks every transitive dependent of a failed task.
func skipDependents(failed int, dependents [][]int, finished []bool, results []types.PairResult) {
	queue := append([]int(nil), dependents[failed]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if finished[next] {
			continue
		}
		finished[next] = true
		results[next].Status = types.PairStatusSkipped
		results[next].Reason = "dependency " + results[failed].Port + " failed"
		queue = append(queue, dependents[next]...)
	}
}

func popLowest(ready *[]int) int {
	items := *ready
	best := 0
	for i := 1; i < len(items); i++ {
		if items[i] < items[best] {
			best = i
		}
	}
	value := items[best]
	*ready = append(items[:best], items[best+1:]...)
	return value
}
