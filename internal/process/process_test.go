package process

import (
	"bufio"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	p := New("echo", exec.Command("echo", "hello"))

	if p.ID == "" {
		t.Error("expected a generated ID")
	}
	if p.State() != StateCreated {
		t.Errorf("expected state created, got %v", p.State())
	}
	if p.ExitCode() != -1 {
		t.Errorf("expected exit code -1, got %d", p.ExitCode())
	}
	if p.PID() != -1 {
		t.Errorf("expected PID -1 before start, got %d", p.PID())
	}
	if p.Runtime() != 0 {
		t.Errorf("expected zero runtime before start, got %v", p.Runtime())
	}

	other := New("echo", exec.Command("echo"))
	if other.ID == p.ID {
		t.Error("expected distinct IDs")
	}
}

func TestWait_NotStarted(t *testing.T) {
	p := New("echo", exec.Command("echo"))
	if err := p.Wait(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Wait() error = %v, want ErrNotStarted", err)
	}
	if err := p.Kill(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Kill() error = %v, want ErrNotStarted", err)
	}
}

func TestStart_EchoesStdin(t *testing.T) {
	p, err := Start("cat", "cat")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if p.State() != StateRunning {
		t.Errorf("expected state running, got %v", p.State())
	}
	if p.PID() <= 0 {
		t.Errorf("expected positive PID, got %d", p.PID())
	}

	if _, err := io.WriteString(p.Stdin, "{\"method\":\"ping\"}\n"); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	line, err := bufio.NewReader(p.Stdout).ReadString('\n')
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if line != "{\"method\":\"ping\"}\n" {
		t.Errorf("echoed %q", line)
	}

	// Closing stdin is the termination signal.
	if err := p.Stdin.Close(); err != nil {
		t.Fatalf("close stdin: %v", err)
	}
	_, _ = io.Copy(io.Discard, p.Stdout)
	_, _ = io.Copy(io.Discard, p.Stderr)

	if err := p.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if p.State() != StateExited || p.ExitCode() != 0 {
		t.Errorf("state=%v code=%d, want exited/0", p.State(), p.ExitCode())
	}
	select {
	case <-p.Done():
	default:
		t.Error("Done() not closed after Wait")
	}
}

func TestStart_Twice(t *testing.T) {
	p, err := Start("true", "true")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := p.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
	_ = p.Wait()
}

func TestStart_MissingBinary(t *testing.T) {
	_, err := Start("missing", "/nonexistent/xi-core-binary")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestWait_NonZeroExit(t *testing.T) {
	p, err := Start("sh", "sh", "-c", "echo oops >&2; exit 3")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	diag, _ := io.ReadAll(p.Stderr)
	_, _ = io.Copy(io.Discard, p.Stdout)

	err = p.Wait()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Wait() error = %v, want *exec.ExitError", err)
	}
	if p.ExitCode() != 3 {
		t.Errorf("exit code = %d, want 3", p.ExitCode())
	}
	if !strings.Contains(string(diag), "oops") {
		t.Errorf("stderr = %q", diag)
	}

	// Later calls return the first result.
	if again := p.Wait(); again != err {
		t.Errorf("second Wait() = %v, want %v", again, err)
	}
}

func TestKill(t *testing.T) {
	p, err := Start("sleep", "sleep", "10")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := p.Kill(); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}
	_ = p.Wait()
	if p.State() != StateKilled {
		t.Errorf("state = %v, want killed", p.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StateRunning, "running"},
		{StateExited, "exited"},
		{StateKilled, "killed"},
		{State(42), "unknown(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
