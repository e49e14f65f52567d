package toolchains

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"nathanbeddoewebdev/conform/internal/diag"
	"nathanbeddoewebdev/conform/internal/domain"

	"go.uber.org/zap"
)

// commandRunner is the seam between a toolchain and the operating
// system, so tests can substitute a recording fake.
type commandRunner interface {
	run(ctx context.Context, name string, args ...string) (*domain.CommandResult, error)
}

// execRunner runs real processes in a fixed working directory with
// extra environment entries appended to the inherited environment.
type execRunner struct {
	dir string
	env []string
}

// run executes the command and captures its output. A non-zero exit is
// not an error here; the result carries the exit code and the runner
// classifies it. An error means the command never ran.
func (r execRunner) run(ctx context.Context, name string, args ...string) (*domain.CommandResult, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), r.env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &domain.CommandResult{
		Line:     name + " " + strings.Join(args, " "),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrNotFound):
		diag.L().Debug("command not found", zap.String("name", name))
		return nil, fmt.Errorf("toolchains: %s: %w", name, domain.ErrToolchainUnavailable)
	default:
		return nil, fmt.Errorf("toolchains: run %s: %w", name, err)
	}

	diag.L().Debug("command finished",
		zap.String("line", result.Line),
		zap.String("dir", r.dir),
		zap.Int("exit", result.ExitCode),
		zap.Duration("took", result.Duration))
	return result, nil
}
