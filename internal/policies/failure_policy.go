package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/types"
)

// ParseFailurePolicy maps a user value to a failure policy. Empty selects
// fail-fast.
func ParseFailurePolicy(value string) (types.FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(types.FailurePolicyFailFast):
		return types.FailurePolicyFailFast, nil
	case string(types.FailurePolicyKeepGoing):
		return types.FailurePolicyKeepGoing, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported failure policy: %s", value))
	}
}

// ContinueAfterFailure reports whether independent pairs keep being
// scheduled once a pair has failed. Pairs depending on the failed one are
// never run.
func ContinueAfterFailure(policy types.FailurePolicy) bool {
	return policy == types.FailurePolicyKeepGoing
}

// ParseScheduleOrder maps a user value to a schedule order. Empty selects
// the caller's order.
func ParseScheduleOrder(value string) (types.ScheduleOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(types.ScheduleOrderAsGiven):
		return types.ScheduleOrderAsGiven, nil
	case string(types.ScheduleOrderTopological), "topo":
		return types.ScheduleOrderTopological, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported schedule order: %s", value))
	}
}
