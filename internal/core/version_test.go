package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndkports/internal/types"
)

// ---------------------------------------------------------------------------
// ParseCMakeVersion
// ---------------------------------------------------------------------------

func TestParseCMakeVersion(t *testing.T) {
	tests := []struct {
		input string
		want  CMakeVersion
	}{
		{"7.66.0", CMakeVersion{7, 66, 0, 0}},
		{"1.1.1g", CMakeVersion{1, 1, 1, 7}},
		{"1.1.1G", CMakeVersion{1, 1, 1, 7}},
		{"1.2", CMakeVersion{1, 2, 0, 0}},
		{"3", CMakeVersion{3, 0, 0, 0}},
		{"1.0.2a", CMakeVersion{1, 0, 2, 1}},
		{"2z", CMakeVersion{2, 0, 0, 26}},
		{"1.2.3.4", CMakeVersion{1, 2, 3, 4}},
		{"20200911", CMakeVersion{20200911, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCMakeVersion(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected version (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCMakeVersionInvalid(t *testing.T) {
	inputs := []string{
		"",
		"1.2.3.4.5",
		"1.2.3.4a",
		"1..2",
		"1.2.",
		"v1.2",
		"1.2-beta",
		"1.ab",
		"a",
		"1.2.3ab",
		"99999999999999999999",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseCMakeVersion(input)
			require.Error(t, err)
			var invalid *types.InvalidVersionError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, input, invalid.Input)
		})
	}
}

func TestCMakeVersionStringRoundTrip(t *testing.T) {
	for _, input := range []string{"7.66.0", "1.1.1g", "1.2", "1.8.4"} {
		v, err := ParseCMakeVersion(input)
		require.NoError(t, err)
		again, err := ParseCMakeVersion(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, again, input)
	}
	v, err := ParseCMakeVersion("1.2")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0.0", v.String())
}

func TestCMakeVersionCompare(t *testing.T) {
	parse := func(s string) CMakeVersion {
		v, err := ParseCMakeVersion(s)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, 0, parse("1.2").Compare(parse("1.2.0.0")))
	assert.Equal(t, -1, parse("1.1.1").Compare(parse("1.1.1g")))
	assert.Equal(t, 1, parse("1.1.1h").Compare(parse("1.1.1g")))
	assert.Equal(t, -1, parse("1.9").Compare(parse("1.10")))
	assert.Equal(t, 1, parse("2").Compare(parse("1.99.99.99")))
}

func TestPrefabVersionOf(t *testing.T) {
	v, err := PrefabVersionOf(types.PortSpec{Name: "boringssl", Version: "20200911"})
	require.NoError(t, err)
	assert.Equal(t, "20200911.0.0.0", v.String())

	v, err = PrefabVersionOf(types.PortSpec{Name: "x", Version: "r25", PrefabVersion: "25.1"})
	require.NoError(t, err)
	assert.Equal(t, "25.1.0.0", v.String())

	_, err = PrefabVersionOf(types.PortSpec{Name: "x", Version: "r25"})
	require.Error(t, err)
}
