package ports

import (
	"context"

	"msstore-packager/internal/types"
)

// RunnerPort executes one external process and captures its outcome. The
// runner never retries; cancellation terminates the process promptly.
type RunnerPort interface {
	Run(ctx context.Context, spec types.CommandSpec) (types.CommandResult, error)
}
