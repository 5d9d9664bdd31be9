package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner invokes an external command-line tool as a subprocess and
// captures its output. The tool and target are passed as an argument
// vector, never through a shell, so the target cannot smuggle in extra
// commands.
type Runner struct {
	timeout time.Duration
	logger  *slog.Logger
}

func NewRunner(timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{timeout: timeout, logger: logger}
}

// Run executes `tool target` and returns stdout. Non-empty stderr is
// appended under an "Errors:" section instead of failing the scan; tools
// routinely warn on stderr while still producing usable results. The
// process is killed when the configured timeout expires.
func (r *Runner) Run(ctx context.Context, tool, target string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, tool, target)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("launching %s: %w", tool, err)
	}

	err := cmd.Wait()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w after %s: %s %s", ErrScanTimeout, r.timeout, tool, target)
	}
	if err != nil {
		// A non-zero exit is not fatal: plenty of scanners exit non-zero
		// on partial results. Anything else means the wait itself failed.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("running %s: %w", tool, err)
		}
	}

	r.logger.Debug("tool finished",
		"tool", tool,
		"target", target,
		"duration", time.Since(start).String(),
	)

	output := stdout.String()
	if errText := strings.TrimSpace(stderr.String()); errText != "" {
		output += "\nErrors: " + errText
	}
	return output, nil
}
