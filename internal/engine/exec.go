package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/questfoundry/qf/internal/logging"
)

// DefaultBinary is the engine executable resolved from PATH when no
// explicit path is configured.
const DefaultBinary = "questfoundry"

// ExecEngine runs loops by spawning the external questfoundry binary and
// decoding its JSON-lines event stream from stdout. This is a local
// subprocess boundary: no network is involved.
type ExecEngine struct {
	binary string
	log    *logging.Logger
}

// NewExecEngine creates an ExecEngine for the given binary. An empty binary
// falls back to DefaultBinary.
func NewExecEngine(binary string) *ExecEngine {
	if binary == "" {
		binary = DefaultBinary
	}
	return &ExecEngine{
		binary: binary,
		log:    logging.Default().With("component", "engine"),
	}
}

// RunLoop spawns the engine process and streams its events to the handler.
// Lines that are not JSON events are ignored (the engine also prints human
// progress text on stdout). A handler error aborts the process.
func (e *ExecEngine) RunLoop(ctx context.Context, req Request, handle Handler) error {
	args := []string{"run-loop", req.Loop, "--workspace", req.Workspace, "--events", "jsonl"}
	if req.Seed != "" {
		args = append(args, "--seed", req.Seed)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Dir = req.Workspace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open engine stdout: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start engine %s: %w", e.binary, err)
	}
	e.log.Debug("engine started", "loop", req.Loop, "binary", e.binary)

	var handleErr error
	scanner := bufio.NewScanner(stdout)
	// Event lines can carry long blocking-reason lists.
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			e.log.Debug("skipping unparseable event line", "error", err)
			continue
		}
		if ev.Type == "" {
			continue
		}

		if err := handle(ev); err != nil {
			handleErr = err
			cancel()
			break
		}
	}
	scanErr := scanner.Err()

	waitErr := cmd.Wait()

	if handleErr != nil {
		return handleErr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("engine failed: %w: %s", waitErr, msg)
		}
		return fmt.Errorf("engine failed: %w", waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("failed to read engine events: %w", scanErr)
	}
	return nil
}
