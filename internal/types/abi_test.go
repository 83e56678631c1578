package types

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abiNames(abis []Abi) []string {
	names := make([]string, 0, len(abis))
	for _, abi := range abis {
		names = append(names, abi.Name)
	}
	return names
}

func TestParseAbis(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "default", input: nil, want: []string{"armeabi-v7a", "arm64-v8a", "x86", "x86_64"}},
		{name: "subset keeps order", input: []string{"x86_64", "arm64-v8a"}, want: []string{"x86_64", "arm64-v8a"}},
		{name: "duplicates dropped", input: []string{"x86", " x86", "x86"}, want: []string{"x86"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAbis(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, abiNames(got))
		})
	}

	_, err := ParseAbis([]string{"mips"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "unknown abi: mips")
}

func TestAbiAdjustAPI(t *testing.T) {
	assert.Equal(t, 21, AbiArm64.AdjustAPI(16))
	assert.Equal(t, 16, AbiArm.AdjustAPI(16))
	assert.Equal(t, 29, AbiX86_64.AdjustAPI(29))
}
