package adapters

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
)

// NdkInfoAdapter reads source.properties from an NDK installation.
type NdkInfoAdapter struct{}

func NewNdkInfoAdapter() NdkInfoAdapter {
	return NdkInfoAdapter{}
}

// MajorVersion returns the major component of Pkg.Revision.
func (a NdkInfoAdapter) MajorVersion(ndkRoot string) (int, error) {
	path := filepath.Join(ndkRoot, "source.properties")
	file, err := os.Open(path)
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("ndk source.properties not found under %s", ndkRoot)).
			WithCause(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok || strings.TrimSpace(key) != "Pkg.Revision" {
			continue
		}
		major, _, _ := strings.Cut(strings.TrimSpace(value), ".")
		n, err := strconv.Atoi(major)
		if err != nil {
			return 0, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid ndk revision %q", strings.TrimSpace(value))).
				WithCause(err)
		}
		return n, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read source.properties").
			WithCause(err)
	}
	return 0, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("Pkg.Revision missing from source.properties")
}

var _ ports.NdkInfoPort = NdkInfoAdapter{}
