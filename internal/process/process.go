package process

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for the process package.
var (
	// ErrNotStarted is returned when an operation requires a started process.
	ErrNotStarted = errors.New("process not started")

	// ErrAlreadyStarted is returned when starting a process twice.
	ErrAlreadyStarted = errors.New("process already started")
)

// State represents the state of a process.
type State int

const (
	// StateCreated indicates the process has been created but not started.
	StateCreated State = iota
	// StateRunning indicates the process is running.
	StateRunning
	// StateExited indicates the process exited on its own.
	StateExited
	// StateKilled indicates the process was terminated by a signal.
	StateKilled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Process is a child process with piped standard streams.
type Process struct {
	// ID is unique per started process and is meant for log fields.
	ID string

	// Name is a human-readable name for the process.
	Name string

	Cmd *exec.Cmd

	Stdin  io.WriteCloser
	Stdout io.ReadCloser
	Stderr io.ReadCloser

	// Started is the time the process was started.
	Started time.Time

	done     chan struct{}
	state    atomic.Int32
	exitCode atomic.Int32
	waitErr  error
	waitOnce sync.Once
}

// New wraps cmd without starting it. The standard streams of cmd must not be
// set; they are replaced by pipes.
func New(name string, cmd *exec.Cmd) *Process {
	p := &Process{
		ID:   uuid.New().String(),
		Name: name,
		Cmd:  cmd,
		done: make(chan struct{}),
	}
	p.state.Store(int32(StateCreated))
	p.exitCode.Store(-1)
	return p
}

// Start creates the pipes and launches path with args.
func Start(name, path string, args ...string) (*Process, error) {
	p := New(name, exec.Command(path, args...))
	if err := p.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

// Start creates the pipes and launches the command.
func (p *Process) Start() error {
	if p.State() != StateCreated {
		return ErrAlreadyStarted
	}

	var created []io.Closer
	cleanup := func() {
		for _, c := range created {
			_ = c.Close()
		}
	}

	stdin, err := p.Cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	created = append(created, stdin)

	stdout, err := p.Cmd.StdoutPipe()
	if err != nil {
		cleanup()
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	created = append(created, stdout)

	stderr, err := p.Cmd.StderrPipe()
	if err != nil {
		cleanup()
		return fmt.Errorf("create stderr pipe: %w", err)
	}
	created = append(created, stderr)

	if err := p.Cmd.Start(); err != nil {
		cleanup()
		return fmt.Errorf("start %s: %w", p.Name, err)
	}

	p.Stdin, p.Stdout, p.Stderr = stdin, stdout, stderr
	p.Started = time.Now()
	p.state.Store(int32(StateRunning))
	return nil
}

// State returns the current process state.
func (p *Process) State() State {
	return State(p.state.Load())
}

// ExitCode returns the exit code, or -1 if the process has not been reaped
// or was killed by a signal.
func (p *Process) ExitCode() int {
	return int(p.exitCode.Load())
}

// PID returns the OS process id, or -1 if not started.
func (p *Process) PID() int {
	if p.Cmd.Process == nil {
		return -1
	}
	return p.Cmd.Process.Pid
}

// Done returns a channel that is closed once Wait has reaped the process.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the process exits and records its exit status. It is
// safe to call more than once; later calls return the first result.
func (p *Process) Wait() error {
	if p.State() == StateCreated {
		return ErrNotStarted
	}

	p.waitOnce.Do(func() {
		err := p.Cmd.Wait()
		p.waitErr = err

		code := 0
		state := StateExited
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
				if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
					state = StateKilled
				}
			} else {
				code = -1
			}
		}

		p.exitCode.Store(int32(code))
		p.state.Store(int32(state))
		close(p.done)
	})
	return p.waitErr
}

// Kill sends SIGKILL to a running process.
func (p *Process) Kill() error {
	if p.State() != StateRunning || p.Cmd.Process == nil {
		return ErrNotStarted
	}
	return p.Cmd.Process.Signal(syscall.SIGKILL)
}

// Runtime returns how long the process has been running.
func (p *Process) Runtime() time.Duration {
	if p.Started.IsZero() {
		return 0
	}
	return time.Since(p.Started)
}
