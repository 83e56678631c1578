package types

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Abi describes one Android target architecture.
type Abi struct {
	Name            string
	Arch            string
	Triple          string
	ClangTriple     string
	MinSupportedAPI int
}

var (
	AbiArm    = Abi{Name: "armeabi-v7a", Arch: "arm", Triple: "arm-linux-androideabi", ClangTriple: "armv7a-linux-androideabi", MinSupportedAPI: 16}
	AbiArm64  = Abi{Name: "arm64-v8a", Arch: "arm64", Triple: "aarch64-linux-android", ClangTriple: "aarch64-linux-android", MinSupportedAPI: 21}
	AbiX86    = Abi{Name: "x86", Arch: "x86", Triple: "i686-linux-android", ClangTriple: "i686-linux-android", MinSupportedAPI: 16}
	AbiX86_64 = Abi{Name: "x86_64", Arch: "x86_64", Triple: "x86_64-linux-android", ClangTriple: "x86_64-linux-android", MinSupportedAPI: 21}
)

// AllAbis returns every supported ABI in the order they are built by default.
func AllAbis() []Abi {
	return []Abi{AbiArm, AbiArm64, AbiX86, AbiX86_64}
}

func (a Abi) String() string {
	return a.Name
}

// AdjustAPI raises api to the lowest level the ABI supports.
func (a Abi) AdjustAPI(api int) int {
	if api < a.MinSupportedAPI {
		return a.MinSupportedAPI
	}
	return api
}

// AbiByName looks up an ABI by its Android name (e.g. "arm64-v8a").
func AbiByName(name string) (Abi, error) {
	trimmed := strings.TrimSpace(name)
	for _, abi := range AllAbis() {
		if abi.Name == trimmed {
			return abi, nil
		}
	}
	return Abi{}, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unknown abi: %s", name))
}

// ParseAbis resolves a list of ABI names, defaulting to all ABIs when empty.
// Duplicates are dropped while preserving the first occurrence.
func ParseAbis(names []string) ([]Abi, error) {
	if len(names) == 0 {
		return AllAbis(), nil
	}
	seen := map[string]struct{}{}
	out := make([]Abi, 0, len(names))
	for _, name := range names {
		abi, err := AbiByName(name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[abi.Name]; ok {
			continue
		}
		seen[abi.Name] = struct{}{}
		out = append(out, abi)
	}
	return out, nil
}
