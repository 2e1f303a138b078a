package system

import (
	"errors"
	"strings"
	"testing"
)

func TestRunOutputCapturesStdout(t *testing.T) {
	e := NewExecutor(false)

	output, err := e.RunOutput("sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("RunOutput() error = %v", err)
	}
	if strings.TrimSpace(output) != "hello" {
		t.Errorf("output = %q, want hello", output)
	}
}

func TestRunInputFeedsStdin(t *testing.T) {
	e := NewExecutor(false)

	output, err := e.RunInput("Yes\n", "sh", "-c", "read line; echo got $line")
	if err != nil {
		t.Fatalf("RunInput() error = %v", err)
	}
	if strings.TrimSpace(output) != "got Yes" {
		t.Errorf("output = %q, want got Yes", output)
	}
}

func TestRunReturnsCommandError(t *testing.T) {
	e := NewExecutor(false)

	err := e.Run("sh", "-c", "echo partial; echo diagnostic >&2; exit 3")
	if err == nil {
		t.Fatal("Run() error = nil, want *CommandError")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %T, want *CommandError", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", cmdErr.ExitCode)
	}
	if !strings.Contains(cmdErr.Stdout, "partial") {
		t.Errorf("Stdout = %q, want captured partial output", cmdErr.Stdout)
	}
	if !strings.Contains(cmdErr.Stderr, "diagnostic") {
		t.Errorf("Stderr = %q, want captured diagnostics", cmdErr.Stderr)
	}
}

func TestCheckDependencies(t *testing.T) {
	e := NewExecutor(false)

	if err := e.CheckDependencies([]string{"sh"}); err != nil {
		t.Errorf("CheckDependencies(sh) error = %v", err)
	}

	err := e.CheckDependencies([]string{"sh", "definitely-not-a-real-tool"})
	if err == nil || !strings.Contains(err.Error(), "definitely-not-a-real-tool") {
		t.Errorf("CheckDependencies() error = %v, want missing tool named", err)
	}
}
