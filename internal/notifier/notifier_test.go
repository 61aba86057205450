package notifier

import (
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/planriseapp/planrise/internal/constants"
)

// Mock Process
type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func TestGetAgentConfigDir(t *testing.T) {
	tempDir := t.TempDir()

	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}

	expected := filepath.Join(tempDir, constants.AppName)
	dir, err := GetAgentConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != expected {
		t.Errorf("expected %s, got %s", expected, dir)
	}
}

func TestFindAndValidateAgentProcess(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()

	tempDir := t.TempDir()
	lockfilePath := filepath.Join(tempDir, constants.AgentLockfileName)

	// Lockfile missing
	if _, _, err := findAndValidateAgentProcess(lockfilePath); err == nil {
		t.Error("expected error for missing lockfile")
	}

	// Malformed lockfile
	if err := os.WriteFile(lockfilePath, []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := findAndValidateAgentProcess(lockfilePath); err == nil {
		t.Error("expected error for malformed lockfile")
	}

	// Port out of range
	if err := os.WriteFile(lockfilePath, []byte("99999|1234|secret"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := findAndValidateAgentProcess(lockfilePath); err == nil {
		t.Error("expected error for out-of-range port")
	}

	// Valid lockfile but wrong executable
	if err := os.WriteFile(lockfilePath, []byte("8135|1234|secret"), 0600); err != nil {
		t.Fatal(err)
	}
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "not-the-agent"}, nil
	}
	if _, _, err := findAndValidateAgentProcess(lockfilePath); err == nil {
		t.Error("expected error for wrong process executable")
	}

	// Valid lockfile and matching agent process
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.AgentProcessPrefix}, nil
	}
	port, secret, err := findAndValidateAgentProcess(lockfilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8135" || secret != "secret" {
		t.Errorf("unexpected lockfile values: port=%s secret=%s", port, secret)
	}
}
