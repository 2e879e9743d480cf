// Package exec runs tracked commands on the local machine.
package exec

import (
	"bytes"
	"io"
	"os"
	"os/exec"

	"github.com/tracklet/tracklet/internal/errors"
)

// ExecuteLocal runs a command locally, streaming output to the provided
// writers. Returns the exit code and any execution error; a non-zero exit
// from the command itself is not an error.
func ExecuteLocal(cmd string, workDir string, stdout, stderr io.Writer) (exitCode int, err error) {
	// Use shell to interpret the command (handles pipes, redirects, etc.)
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	command := exec.Command(shell, "-c", cmd)
	if workDir != "" {
		command.Dir = workDir
	}
	command.Stdout = stdout
	command.Stderr = stderr

	runErr := command.Run()
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run the command locally",
			"Make sure the command exists and is executable.")
	}

	return 0, nil
}

// LineWriter is an io.Writer that forwards complete lines to a callback
// while buffering partial writes. Flush delivers any trailing partial line.
type LineWriter struct {
	emit func(line string)
	buf  bytes.Buffer
}

// NewLineWriter creates a LineWriter delivering lines to emit.
func NewLineWriter(emit func(line string)) *LineWriter {
	return &LineWriter{emit: emit}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			return len(p), nil
		}
		line := string(w.buf.Next(idx + 1))
		w.emit(line[:len(line)-1])
	}
}

// Flush emits any buffered partial line.
func (w *LineWriter) Flush() {
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}
