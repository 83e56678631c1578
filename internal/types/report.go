package types

import "time"

// PairResult is the outcome of one (port, abi) pipeline.
type PairResult struct {
	Port     string
	Abi      string
	API      int
	Status   PairStatus
	Err      error
	Reason   string
	Duration time.Duration
}

type RunReport struct {
	Order []string
	Pairs []PairResult
}

// Failed returns the failed pairs in schedule order.
func (r RunReport) Failed() []PairResult {
	var out []PairResult
	for _, pair := range r.Pairs {
		if pair.Status == PairStatusFailed {
			out = append(out, pair)
		}
	}
	return out
}

// CompletedPorts returns, in schedule order, the ports whose every pair
// succeeded.
func (r RunReport) CompletedPorts() []string {
	ok := map[string]bool{}
	for _, pair := range r.Pairs {
		prev, seen := ok[pair.Port]
		if !seen {
			prev = true
		}
		ok[pair.Port] = prev && pair.Status == PairStatusSucceeded
	}
	var out []string
	for _, name := range r.Order {
		if ok[name] {
			out = append(out, name)
		}
	}
	return out
}

// PackageArtifacts lists what the packager wrote for one port.
type PackageArtifacts struct {
	Port      string
	PrefabDir string
	AarPath   string
	PomPath   string
}
