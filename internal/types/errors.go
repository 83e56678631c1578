package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ToolNotFoundError reports an external tool that could not be started.
type ToolNotFoundError struct {
	Tool string
	Err  error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Tool)
}

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

func (e *ToolNotFoundError) Code() errbuilder.ErrCode { return errbuilder.CodeNotFound }

// ProcessFailedError reports a child process that exited non-zero.
type ProcessFailedError struct {
	Args     []string
	Dir      string
	ExitCode int
}

func (e *ProcessFailedError) Error() string {
	return fmt.Sprintf("process failed with exit code %d: %s", e.ExitCode, strings.Join(e.Args, " "))
}

func (e *ProcessFailedError) Code() errbuilder.ErrCode { return errbuilder.CodeFailedPrecondition }

// ProcessTimeoutError reports a child process killed after its deadline.
type ProcessTimeoutError struct {
	Args    []string
	Timeout time.Duration
}

func (e *ProcessTimeoutError) Error() string {
	return fmt.Sprintf("process timed out after %s: %s", e.Timeout, strings.Join(e.Args, " "))
}

func (e *ProcessTimeoutError) Code() errbuilder.ErrCode { return errbuilder.CodeFailedPrecondition }

// MissingArtifactError reports a declared module whose library is absent
// from an install tree.
type MissingArtifactError struct {
	Port   string
	Module string
	Abi    string
	Path   string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("missing artifact for module %s of %s (%s): %s", e.Module, e.Port, e.Abi, e.Path)
}

func (e *MissingArtifactError) Code() errbuilder.ErrCode { return errbuilder.CodeInternal }

type InvalidVersionError struct {
	Input  string
	Reason string
}

func (e *InvalidVersionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid version %q", e.Input)
	}
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
}

func (e *InvalidVersionError) Code() errbuilder.ErrCode { return errbuilder.CodeInvalidArgument }

// UnresolvedDependencyError reports a dependency that is unknown or whose
// install output is not present yet.
type UnresolvedDependencyError struct {
	Name       string
	RequiredBy string
	Abi        string
}

func (e *UnresolvedDependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unresolved dependency %s", e.Name)
	if e.RequiredBy != "" {
		fmt.Fprintf(&b, " required by %s", e.RequiredBy)
	}
	if e.Abi != "" {
		fmt.Fprintf(&b, " for %s", e.Abi)
	}
	return b.String()
}

func (e *UnresolvedDependencyError) Code() errbuilder.ErrCode { return errbuilder.CodeFailedPrecondition }

type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

func (e *CyclicDependencyError) Code() errbuilder.ErrCode { return errbuilder.CodeFailedPrecondition }

// StageError is the terminal failure of one (port, abi) pipeline.
type StageError struct {
	Port  string
	Abi   string
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s (%s) failed: %v", e.Port, e.Stage, e.Abi, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
