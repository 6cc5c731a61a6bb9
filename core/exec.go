package core

import (
	"bytes"
	"errors"
	"os"
	"os/exec"

	"github.com/sherut/sherut/core/logger"
	"github.com/sherut/sherut/core/shell"
)

// ExecResult holds the outcome of one subordinate process run.
type ExecResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the interpreter exited zero. Output content is
// never inspected for classification.
func (r *ExecResult) Success() bool {
	return r.ExitCode == 0
}

// Execute runs script under the dialect's interpreter as `<shell> -c
// <script>`, writes body to its stdin, and collects stdout, stderr and the
// exit status. extraEnv entries are applied on top of the full inherited
// environment.
//
// A failed stdin write is logged as a warning and does not abort the run;
// whatever output the process produces is still collected. A process that
// cannot be spawned at all is reported as an error, distinct from a non-zero
// exit which is reported through ExitCode.
func Execute(dialect shell.Dialect, script string, extraEnv []string, body []byte, events *logger.RequestLogger) (*ExecResult, error) {
	cmd := exec.Command(dialect.Executable(), "-c", script)
	cmd.Env = append(os.Environ(), extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}

	if _, err := stdin.Write(body); err != nil {
		logger.Warnf("Failed to write to stdin: %v", err)
		events.StdinWriteFailure(&logger.StdinWriteFailure{ErrorMessage: err.Error()})
	}
	// Close stdin to signal EOF, even for empty bodies.
	stdin.Close()

	result := &ExecResult{}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		result.ExitCode = exitErr.ExitCode()
	}
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()
	return result, nil
}
