package types

type BuildSystem string

const (
	BuildSystemAutoconf BuildSystem = "autoconf"
	BuildSystemCMake    BuildSystem = "cmake"
	BuildSystemNdkBuild BuildSystem = "ndk-build"
	BuildSystemNone     BuildSystem = "none"
)

type Stage string

const (
	StageExtract   Stage = "extract"
	StageConfigure Stage = "configure"
	StageBuild     Stage = "build"
	StageInstall   Stage = "install"
)

type ScheduleOrder string

const (
	ScheduleOrderAsGiven     ScheduleOrder = "as-given"
	ScheduleOrderTopological ScheduleOrder = "topological"
)

type FailurePolicy string

const (
	FailurePolicyFailFast  FailurePolicy = "fail-fast"
	FailurePolicyKeepGoing FailurePolicy = "keep-going"
)

type PairStatus string

const (
	PairStatusSucceeded PairStatus = "succeeded"
	PairStatusFailed    PairStatus = "failed"
	PairStatusSkipped   PairStatus = "skipped"
)
