package core

import (
	"fmt"
	"strconv"
	"strings"

	"ndkports/internal/types"
)

const maxVersionParts = 4

// CMakeVersion is a version in the form CMake's find_package accepts: up
// to four non-negative integers, missing components being zero.
type CMakeVersion struct {
	Major int
	Minor int
	Patch int
	Tweak int
}

// ParseCMakeVersion converts a free-form upstream version into a
// CMakeVersion. A single trailing letter on the last component becomes the
// tweak component by its position in the alphabet, so "1.1.1g" parses as
// 1.1.1.7. The letter form is only accepted when fewer than four numeric
// components are present.
func ParseCMakeVersion(input string) (CMakeVersion, error) {
	if input == "" {
		return CMakeVersion{}, &types.InvalidVersionError{Input: input, Reason: "empty version"}
	}
	parts := strings.Split(input, ".")
	if len(parts) > maxVersionParts {
		return CMakeVersion{}, &types.InvalidVersionError{Input: input, Reason: "more than four components"}
	}

	letter := 0
	last := parts[len(parts)-1]
	if n := len(last); n > 1 && isASCIILetter(last[n-1]) && isDigit(last[n-2]) {
		if len(parts) == maxVersionParts {
			return CMakeVersion{}, &types.InvalidVersionError{Input: input, Reason: "letter suffix needs a free fourth component"}
		}
		letter = int(lowerASCII(last[n-1])-'a') + 1
		parts[len(parts)-1] = last[:n-1]
	}

	values := [maxVersionParts]int{}
	for i, part := range parts {
		value, err := parseComponent(part)
		if err != nil {
			return CMakeVersion{}, &types.InvalidVersionError{Input: input, Reason: err.Error()}
		}
		values[i] = value
	}
	if letter > 0 {
		values[maxVersionParts-1] = letter
	}
	return CMakeVersion{Major: values[0], Minor: values[1], Patch: values[2], Tweak: values[3]}, nil
}

func parseComponent(part string) (int, error) {
	if part == "" {
		return 0, fmt.Errorf("empty component")
	}
	for i := 0; i < len(part); i++ {
		if !isDigit(part[i]) {
			return 0, fmt.Errorf("non-numeric component %q", part)
		}
	}
	value, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("component %q out of range", part)
	}
	return value, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// String always prints all four components.
func (v CMakeVersion) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Tweak)
}

// Compare returns -1, 0 or 1, ordering lexicographically by component.
func (v CMakeVersion) Compare(other CMakeVersion) int {
	a := [maxVersionParts]int{v.Major, v.Minor, v.Patch, v.Tweak}
	b := [maxVersionParts]int{other.Major, other.Minor, other.Patch, other.Tweak}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// PrefabVersionOf derives the prefab version of a port.
func PrefabVersionOf(spec types.PortSpec) (CMakeVersion, error) {
	return ParseCMakeVersion(spec.EffectivePrefabVersion())
}
