package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

type noopProcess struct{}

func (noopProcess) Run(context.Context, ports.ProcessRequest) error { return nil }

func TestDriverPlanPairDependencies(t *testing.T) {
	driver := NewDriver(portsLookup(), nil, noopProcess{})
	recipes, tasks, err := driver.Plan(Matrix{
		Recipes: []string{"openssl", "curl"},
		Abis:    []types.Abi{types.AbiArm, types.AbiArm64},
		MinSdk:  16,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"openssl", "curl"}, namesOf(recipes))
	require.Len(t, tasks, 4)

	type planned struct {
		Port string
		Abi  string
		API  int
		Deps []int
	}
	var got []planned
	for _, task := range tasks {
		got = append(got, planned{task.Recipe.Spec().Name, task.Abi.Name, task.API, task.Deps})
	}
	want := []planned{
		{"openssl", "armeabi-v7a", 16, nil},
		{"openssl", "arm64-v8a", 21, nil},
		{"curl", "armeabi-v7a", 16, []int{0}},
		{"curl", "arm64-v8a", 21, []int{1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected plan (-want +got):\n%s", diff)
	}
}

func TestDriverPlanIgnoresLaterDependencies(t *testing.T) {
	driver := NewDriver(portsLookup(), nil, noopProcess{})
	_, tasks, err := driver.Plan(Matrix{
		Recipes: []string{"curl", "openssl"},
		Abis:    []types.Abi{types.AbiX86},
		Order:   types.ScheduleOrderAsGiven,
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Empty(t, tasks[0].Deps)
}

func TestDriverRunValidation(t *testing.T) {
	driver := NewDriver(portsLookup(), nil, noopProcess{})
	tests := []struct {
		name   string
		matrix Matrix
		code   errbuilder.ErrCode
	}{
		{name: "ndk", matrix: Matrix{Recipes: []string{"zlib"}, Abis: types.AllAbis(), OutputDir: "out"}, code: errbuilder.CodeInvalidArgument},
		{name: "output", matrix: Matrix{Recipes: []string{"zlib"}, Abis: types.AllAbis(), NdkPath: "ndk"}, code: errbuilder.CodeInvalidArgument},
		{name: "abis", matrix: Matrix{Recipes: []string{"zlib"}, NdkPath: "ndk", OutputDir: "out"}, code: errbuilder.CodeInvalidArgument},
		{name: "unknown recipe", matrix: Matrix{Recipes: []string{"nope"}, Abis: types.AllAbis(), NdkPath: "ndk", OutputDir: "out"}, code: errbuilder.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := driver.Run(t.Context(), tt.matrix)
			require.Error(t, err)
			assert.Equal(t, tt.code, errbuilder.CodeOf(err))
		})
	}
}

func TestDriverRunBuildsEveryPair(t *testing.T) {
	out := t.TempDir()
	lookup := lookupOf(newStub("zlib"), newStub("libpng", "zlib"))
	driver := NewDriver(lookup, nil, noopProcess{})

	report, recipes, err := driver.Run(t.Context(), Matrix{
		Recipes:   []string{"libpng"},
		Abis:      []types.Abi{types.AbiArm64, types.AbiX86_64},
		MinSdk:    21,
		NdkPath:   filepath.Join(out, "ndk"),
		OutputDir: out,
		Order:     types.ScheduleOrderTopological,
		Workers:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"zlib", "libpng"}, report.Order)
	assert.Equal(t, []string{"zlib", "libpng"}, namesOf(recipes))
	assert.Equal(t, []string{"zlib", "libpng"}, report.CompletedPorts())
	assert.Len(t, report.Pairs, 4)
	for _, abi := range []string{"arm64-v8a", "x86_64"} {
		assert.FileExists(t, filepath.Join(out, "libpng", "install", abi, "lib", "liblibpng.so"))
	}
}

func TestDriverRunReturnsFirstFailure(t *testing.T) {
	out := t.TempDir()
	lookup := lookupOf(newStub("zlib"), newStub("libpng", "zlib"))
	driver := NewDriver(lookup, nil, noopProcess{})

	report, _, err := driver.Run(t.Context(), Matrix{
		Recipes:   []string{"libpng", "zlib"},
		Abis:      []types.Abi{types.AbiArm},
		NdkPath:   filepath.Join(out, "ndk"),
		OutputDir: out,
		Workers:   1,
	})
	require.Error(t, err)
	var stageErr *types.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "libpng", stageErr.Port)
	assert.Equal(t, types.StageConfigure, stageErr.Stage)

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, types.PairStatusSkipped, report.Pairs[1].Status)
	assert.Empty(t, report.CompletedPorts())
	_, statErr := os.Stat(filepath.Join(out, "zlib", "install"))
	assert.True(t, os.IsNotExist(statErr))
}
