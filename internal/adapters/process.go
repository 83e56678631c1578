package adapters

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

// ProcessAdapter runs build tools as child processes sharing the
// orchestrator's stdout and stderr.
type ProcessAdapter struct {
	Stdout io.Writer
	Stderr io.Writer
	// BaseEnv returns the environment overlays apply to; os.Environ when nil.
	BaseEnv func() []string
}

func NewProcessAdapter() ProcessAdapter {
	return ProcessAdapter{Stdout: os.Stdout, Stderr: os.Stderr, BaseEnv: os.Environ}
}

func (a ProcessAdapter) Run(ctx context.Context, req ports.ProcessRequest) error {
	if len(req.Args) == 0 || strings.TrimSpace(req.Args[0]) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("command is empty")
	}
	if req.Dir != "" {
		if info, err := os.Stat(req.Dir); err != nil || !info.IsDir() {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("working directory does not exist: " + req.Dir)
		}
	}
	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	base := a.BaseEnv
	if base == nil {
		base = os.Environ
	}
	cmd := exec.CommandContext(runCtx, req.Args[0], req.Args[1:]...)
	cmd.Dir = req.Dir
	cmd.Env = mergeEnv(base(), req.Env, req.PathPrefix)
	cmd.Stdout = a.Stdout
	cmd.Stderr = a.Stderr

	log.Ctx(ctx).Debug().
		Strs("args", req.Args).
		Str("dir", req.Dir).
		Msg("running process")

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return &types.ToolNotFoundError{Tool: req.Args[0], Err: err}
	}
	if req.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return &types.ProcessTimeoutError{Args: req.Args, Timeout: req.Timeout}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("process cancelled").
				WithCause(ctx.Err())
		}
		return &types.ProcessFailedError{Args: req.Args, Dir: req.Dir, ExitCode: exitErr.ExitCode()}
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to run process").
		WithCause(err)
}

// mergeEnv overlays env on base and prepends pathPrefix to PATH. The
// result is sorted by key.
func mergeEnv(base []string, env map[string]string, pathPrefix []string) []string {
	values := map[string]string{}
	for _, entry := range base {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		values[key] = value
	}
	for key, value := range env {
		values[key] = value
	}
	if len(pathPrefix) > 0 {
		parts := append([]string{}, pathPrefix...)
		if current := values["PATH"]; current != "" {
			parts = append(parts, current)
		}
		values["PATH"] = strings.Join(parts, string(os.PathListSeparator))
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, key+"="+values[key])
	}
	return out
}

var _ ports.ProcessPort = ProcessAdapter{}
