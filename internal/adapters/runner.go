package adapters

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"msstore-packager/internal/ports"
	"msstore-packager/internal/shared"
	"msstore-packager/internal/types"
)

// ProcessRunner executes external toolchain processes. Exit codes are
// reported in the result, not as errors; only failures to start the process
// or cancellation surface as errors.
type ProcessRunner struct {
	Status ports.StatusPort
}

func NewProcessRunner(status ports.StatusPort) ProcessRunner {
	if status == nil {
		status = NopStatus{}
	}
	return ProcessRunner{Status: status}
}

func (r ProcessRunner) Run(ctx context.Context, spec types.CommandSpec) (types.CommandResult, error) {
	if strings.TrimSpace(spec.Executable) == "" {
		return types.CommandResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("command executable is empty")
	}
	scope := spec.Label
	if scope == "" {
		scope = spec.Executable
	}
	r.Status.Start(scope)

	cmd := exec.CommandContext(ctx, spec.Executable, spec.Args...)
	cmd.Dir = spec.Dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.Status.Failure(scope, ctxErr)
		return types.CommandResult{}, ctxErr
	}
	result := types.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			err := errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("failed to start " + spec.Executable).
				WithCause(runErr)
			r.Status.Failure(scope, err)
			return types.CommandResult{}, err
		}
		result.ExitCode = exitErr.ExitCode()
	}
	if result.ExitCode == 0 {
		r.Status.Success(scope)
	} else {
		r.Status.Failure(scope, shared.CommandError(result.Stderr, runErr))
	}
	return result, nil
}

var _ ports.RunnerPort = ProcessRunner{}
