// Package spawn handles re-invoking the current program as a worker
// process. The spawned copy is the same binary; what routes it into the
// worker loop instead of the normal CLI is an entry mark carried in the
// environment. The launcher sets the mark on the owning process just long
// enough for the child to inherit it, then restores the previous state on
// every exit path.
package spawn

import (
	"os"
	"os/exec"

	"github.com/tracklet/tracklet/internal/errors"
)

// EntryEnv is the environment variable whose presence routes a process into
// the worker entry point. Its value is the serialized worker settings.
const EntryEnv = "TRACKLET_WORKER_ENTRY"

// Context is the explicit spawn context for a worker process: which binary
// to run and with what arguments. It exists so process creation does not
// depend on mutable global state beyond the entry mark.
type Context struct {
	Executable string
	Args       []string
}

// Resolve determines the spawn context for re-invoking this program.
// It prefers the running executable's path and falls back to looking up
// argv[0]; programs reachable by neither cannot spawn process-mode workers.
func Resolve() (Context, error) {
	exe, err := os.Executable()
	if err != nil {
		if len(os.Args) > 0 {
			if path, lookErr := exec.LookPath(os.Args[0]); lookErr == nil {
				return Context{Executable: path}, nil
			}
		}
		return Context{}, errors.WrapWithCode(err, errors.ErrSpawn,
			"Cannot locate the tracklet executable to spawn a worker",
			"Use thread mode (start_mode: thread) when the binary is not re-invokable")
	}
	return Context{Executable: exe}, nil
}

// Command builds the exec.Cmd for the worker copy. The environment is
// deliberately left nil so the child inherits the caller's environment,
// entry mark included.
func (c Context) Command() *exec.Cmd {
	return exec.Command(c.Executable, c.Args...)
}

// WithEntryMark runs start with the entry mark set to mark in this
// process's environment, restoring the previous value (or absence) after
// start returns, whether it succeeds, fails, or panics. An empty mark makes
// this a no-op wrapper around start.
func WithEntryMark(mark string, start func() error) error {
	if mark == "" {
		return start()
	}

	prev, had := os.LookupEnv(EntryEnv)
	if err := os.Setenv(EntryEnv, mark); err != nil {
		return errors.WrapWithCode(err, errors.ErrSpawn,
			"Cannot set the worker entry mark",
			"Check the process environment is writable")
	}
	defer func() {
		if had {
			os.Setenv(EntryEnv, prev)
		} else {
			os.Unsetenv(EntryEnv)
		}
	}()

	return start()
}

// EntryMark reports the entry mark if this process was spawned as a worker.
func EntryMark() (string, bool) {
	return os.LookupEnv(EntryEnv)
}
