package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndkports/internal/types"
)

func pairTasks(names ...string) []PairTask {
	tasks := make([]PairTask, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, PairTask{Recipe: newStub(name), Abi: types.AbiArm64, API: 21})
	}
	return tasks
}

func statuses(results []types.PairResult) []types.PairStatus {
	out := make([]types.PairStatus, 0, len(results))
	for _, result := range results {
		out = append(out, result.Status)
	}
	return out
}

func TestSchedulerSingleWorkerRunsInListOrder(t *testing.T) {
	tasks := pairTasks("a", "b", "c", "d")
	tasks[3].Deps = []int{0}

	var ran []string
	results := Scheduler{Workers: 1}.Run(t.Context(), tasks, func(_ context.Context, task PairTask) error {
		ran = append(ran, task.Recipe.Spec().Name)
		return nil
	})
	assert.Equal(t, []string{"a", "b", "c", "d"}, ran)
	assert.Equal(t, []types.PairStatus{
		types.PairStatusSucceeded, types.PairStatusSucceeded, types.PairStatusSucceeded, types.PairStatusSucceeded,
	}, statuses(results))
	assert.Equal(t, "a", results[0].Port)
	assert.Equal(t, "arm64-v8a", results[0].Abi)
	assert.Equal(t, 21, results[0].API)
}

func TestSchedulerFailFastSkipsRemaining(t *testing.T) {
	boom := errors.New("boom")
	tasks := pairTasks("a", "b", "c")

	var ran []string
	results := Scheduler{Workers: 1, Policy: types.FailurePolicyFailFast}.Run(t.Context(), tasks, func(_ context.Context, task PairTask) error {
		ran = append(ran, task.Recipe.Spec().Name)
		if task.Recipe.Spec().Name == "b" {
			return boom
		}
		return nil
	})
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Equal(t, []types.PairStatus{types.PairStatusSucceeded, types.PairStatusFailed, types.PairStatusSkipped}, statuses(results))
	assert.ErrorIs(t, results[1].Err, boom)
	assert.Equal(t, "run stopped after failure", results[2].Reason)
}

func TestSchedulerKeepGoingSkipsOnlyDependents(t *testing.T) {
	tasks := pairTasks("a", "b", "c", "d")
	tasks[1].Deps = []int{0}
	tasks[3].Deps = []int{1}

	results := Scheduler{Workers: 1, Policy: types.FailurePolicyKeepGoing}.Run(t.Context(), tasks, func(_ context.Context, task PairTask) error {
		if task.Recipe.Spec().Name == "a" {
			return errors.New("a broke")
		}
		return nil
	})
	assert.Equal(t, []types.PairStatus{
		types.PairStatusFailed, types.PairStatusSkipped, types.PairStatusSucceeded, types.PairStatusSkipped,
	}, statuses(results))
	assert.Equal(t, "dependency a failed", results[1].Reason)
	assert.Equal(t, "dependency a failed", results[3].Reason)
}

func TestSchedulerParallelRespectsDependencies(t *testing.T) {
	var tasks []PairTask
	for _, abi := range types.AllAbis() {
		tasks = append(tasks, PairTask{Recipe: newStub("openssl"), Abi: abi})
	}
	for i, abi := range types.AllAbis() {
		tasks = append(tasks, PairTask{Recipe: newStub("curl", "openssl"), Abi: abi, Deps: []int{i}})
	}

	var mu sync.Mutex
	done := map[string]bool{}
	var violations []string
	results := Scheduler{Workers: 4}.Run(t.Context(), tasks, func(_ context.Context, task PairTask) error {
		key := task.Recipe.Spec().Name + "/" + task.Abi.Name
		mu.Lock()
		defer mu.Unlock()
		if task.Recipe.Spec().Name == "curl" && !done["openssl/"+task.Abi.Name] {
			violations = append(violations, key)
		}
		done[key] = true
		return nil
	})
	assert.Empty(t, violations)
	for _, result := range results {
		assert.Equal(t, types.PairStatusSucceeded, result.Status)
	}
	require.Len(t, done, 8)
}

func TestSchedulerCancellationSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	tasks := pairTasks("a", "b", "c")

	results := Scheduler{Workers: 1}.Run(ctx, tasks, func(_ context.Context, _ PairTask) error {
		cancel()
		return nil
	})
	assert.Equal(t, []types.PairStatus{types.PairStatusSucceeded, types.PairStatusSkipped, types.PairStatusSkipped}, statuses(results))
	assert.Equal(t, "run cancelled", results[1].Reason)
}

func TestSchedulerNoTasks(t *testing.T) {
	results := Scheduler{}.Run(t.Context(), nil, func(context.Context, PairTask) error {
		t.Fatal("run called without tasks")
		return nil
	})
	assert.Empty(t, results)
}
