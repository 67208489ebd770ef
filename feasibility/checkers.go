package feasibility

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// execRunner is the seam the three concrete checkers invoke an external
// binary through; tests substitute a fake to avoid depending on a real
// model checker or compiler being on PATH, the same seam RunShell uses in
// the command-execution tools of the pack.
type execRunner interface {
	Run(ctx context.Context, timeout time.Duration, bin string, args []string) (stdout, stderr []byte, err error)
}

type osRunner struct{}

func (osRunner) Run(ctx context.Context, timeout time.Duration, bin string, args []string) (stdout, stderr []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// ModelCheckerAChecker delegates feasibility to a second, independently
// implemented model checker, run as an external binary against the
// restored translation unit.
type ModelCheckerAChecker struct {
	BinaryPath string
	Timeout    time.Duration
	runner     execRunner
}

// NewModelCheckerA builds a ModelCheckerAChecker invoking binaryPath.
func NewModelCheckerA(binaryPath string, timeout time.Duration) *ModelCheckerAChecker {
	return &ModelCheckerAChecker{BinaryPath: binaryPath, Timeout: timeout, runner: osRunner{}}
}

func (c *ModelCheckerAChecker) TempFileBuilder() (string, string) { return "mca-cex-", ".c" }

func (c *ModelCheckerAChecker) CexFileTemplate() (PathTemplate, bool) { return DefaultPathTemplate, true }

func (c *ModelCheckerAChecker) Write(_ Witness, restored []byte) ([]byte, error) {
	return restored, nil
}

func (c *ModelCheckerAChecker) Decide(w Witness, path string) (bool, error) {
	out, _, err := c.runner.Run(context.Background(), c.timeout(), c.BinaryPath, []string{"--spec", "error-reachable", path})
	if err != nil {
		var exitErr *exec.ExitError
		if isExitError(err, &exitErr) {
			// A non-zero exit with recognisable output is how these
			// tools report "property violated" vs. "property holds";
			// any other non-zero exit is a genuine check failure.
			if bytes.Contains(out, []byte("VERIFICATION FAILED")) {
				return true, nil
			}
			if bytes.Contains(out, []byte("VERIFICATION SUCCESSFUL")) {
				return false, nil
			}
			return false, fmt.Errorf("feasibility: %s exited without a recognisable verdict: %w", w.Function, err)
		}
		return false, err
	}
	return bytes.Contains(out, []byte("VERIFICATION FAILED")), nil
}

func (c *ModelCheckerAChecker) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 2 * time.Minute
	}
	return c.Timeout
}

// SameToolWithConfigChecker re-invokes the original verifier binary, but
// under a second configuration file tuned for precision over speed
// (spec.md §6: "ConfigPath: required when the checker kind is
// SameToolWithConfig").
type SameToolWithConfigChecker struct {
	BinaryPath string
	ConfigPath string
	Timeout    time.Duration
	runner     execRunner
}

// NewSameToolWithConfig builds a SameToolWithConfigChecker. It fails fast
// with ErrConfigRequired when configPath is empty, mirroring how the
// driver validates required options before a round ever starts.
func NewSameToolWithConfig(binaryPath, configPath string, timeout time.Duration) (*SameToolWithConfigChecker, error) {
	if configPath == "" {
		return nil, ErrConfigRequired
	}
	return &SameToolWithConfigChecker{BinaryPath: binaryPath, ConfigPath: configPath, Timeout: timeout, runner: osRunner{}}, nil
}

func (c *SameToolWithConfigChecker) TempFileBuilder() (string, string) { return "retry-cex-", ".c" }

func (c *SameToolWithConfigChecker) CexFileTemplate() (PathTemplate, bool) {
	return DefaultPathTemplate, true
}

func (c *SameToolWithConfigChecker) Write(_ Witness, restored []byte) ([]byte, error) {
	return restored, nil
}

func (c *SameToolWithConfigChecker) Decide(w Witness, path string) (bool, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	out, _, err := c.runner.Run(context.Background(), timeout, c.BinaryPath, []string{"-config", c.ConfigPath, path})
	if err != nil {
		var exitErr *exec.ExitError
		if isExitError(err, &exitErr) {
			if bytes.Contains(out, []byte("Verification result: FALSE")) {
				return true, nil
			}
			if bytes.Contains(out, []byte("Verification result: TRUE")) {
				return false, nil
			}
			return false, fmt.Errorf("feasibility: %s rerun of %s produced no verdict: %w", w.Function, c.BinaryPath, err)
		}
		return false, err
	}
	return bytes.Contains(out, []byte("Verification result: FALSE")), nil
}

// ConcreteExecutionChecker compiles the restored translation unit and
// runs it, treating a non-zero exit (assertion failure / trap) as
// confirmation that the error location is reachable.
type ConcreteExecutionChecker struct {
	CompilerPath string // e.g. "cc"
	Timeout      time.Duration
	runner       execRunner
}

// NewConcreteExecution builds a ConcreteExecutionChecker using compilerPath.
func NewConcreteExecution(compilerPath string, timeout time.Duration) *ConcreteExecutionChecker {
	if compilerPath == "" {
		compilerPath = "cc"
	}
	return &ConcreteExecutionChecker{CompilerPath: compilerPath, Timeout: timeout, runner: osRunner{}}
}

func (c *ConcreteExecutionChecker) TempFileBuilder() (string, string) { return "exec-cex-", ".c" }

// CexFileTemplate returns false: a compiled-and-run check has no reason
// to persist its input past the round, unlike the two delegate-tool
// checkers whose counterexample files are meant for later inspection.
func (c *ConcreteExecutionChecker) CexFileTemplate() (PathTemplate, bool) { return PathTemplate{}, false }

func (c *ConcreteExecutionChecker) Write(_ Witness, restored []byte) ([]byte, error) {
	return restored, nil
}

func (c *ConcreteExecutionChecker) Decide(w Witness, path string) (bool, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	binPath := path + ".bin"
	if _, _, err := c.runner.Run(context.Background(), timeout, c.CompilerPath, []string{path, "-o", binPath}); err != nil {
		return false, fmt.Errorf("feasibility: compiling restored counterexample for %s: %w", w.Function, err)
	}
	_, _, err := c.runner.Run(context.Background(), timeout, binPath, nil)
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if isExitError(err, &exitErr) {
		return true, nil
	}
	return false, err
}

func isExitError(err error, target **exec.ExitError) bool {
	return errors.As(err, target)
}
