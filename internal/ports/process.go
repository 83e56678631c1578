package ports

import (
	"context"
	"time"
)

// ProcessRequest describes one external tool invocation.
type ProcessRequest struct {
	Args []string
	Dir  string
	// Env is overlaid on the orchestrator's environment.
	Env map[string]string
	// PathPrefix entries are prepended to PATH.
	PathPrefix []string
	// Timeout of zero means no deadline beyond ctx.
	Timeout time.Duration
}

// ProcessPort runs external build tools with inherited stdout and stderr.
type ProcessPort interface {
	Run(ctx context.Context, req ProcessRequest) error
}
