// Package generate is the model-invocation boundary: prompt in, completion
// text out. The rest of the system treats any returned string literally —
// error sentinels produced here are scored like any other candidate and
// simply fail the equivalence check.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"linefix/internal/logging"
)

// Runner produces one completion for one prompt. Implementations must be
// safe for concurrent use.
type Runner interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OllamaRunner shells out to a local ollama model. Each call gets its own
// timeout; timeouts and transient failures are retried up to MaxRetries
// before giving up with an error sentinel string.
type OllamaRunner struct {
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// NewOllamaRunner returns a runner with the given model and sane defaults
// for timeout and retries.
func NewOllamaRunner(model string) *OllamaRunner {
	return &OllamaRunner{Model: model, Timeout: 60 * time.Second, MaxRetries: 3}
}

// Generate runs `ollama run <model>` with the prompt on stdin. After
// exhausting retries it returns the sentinel string and a nil error: the
// sentinel is a legitimate (failing) candidate, not a batch-level failure.
func (r *OllamaRunner) Generate(ctx context.Context, prompt string) (string, error) {
	logger := logging.New("ollama")

	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("retrying generation",
				"attempt", attempt, "max", r.MaxRetries, "error", lastErr)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		out, err := r.runOnce(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}

	return fmt.Sprintf("[ERROR: %v]", lastErr), nil
}

func (r *OllamaRunner) runOnce(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(callCtx, "ollama", "run", r.Model)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("timeout after %s", r.Timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("ollama: %s", msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}
