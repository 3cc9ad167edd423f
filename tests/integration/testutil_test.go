// Package integration provides CLI integration tests for ripple.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// rippleBin is the path to the built ripple binary.
	rippleBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetRippleBin sets the path to the ripple binary (called from TestMain).
func SetRippleBin(path string) {
	rippleBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment with the tracker schema
// written to its temp directory (not yet loaded).
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build ripple: %v", buildErr)
	}
	if rippleBin == "" {
		t.Fatal("ripple binary not built (rippleBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "tracker.yaml"), []byte(trackerSchema), 0644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// SchemaPath returns the path of the tracker schema document.
func (e *TestEnv) SchemaPath() string {
	return filepath.Join(e.TempDir, "tracker.yaml")
}

// CmdResult holds the result of a ripple command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunRipple executes the ripple CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunRipple(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(rippleBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run ripple: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunRipple executes the ripple CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunRipple(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunRipple(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("ripple %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// CLIObject mirrors the JSON shape of an object for output parsing.
type CLIObject struct {
	ObjectID  string `json:"ObjectID"`
	Type      string `json:"Type"`
	Name      string `json:"Name"`
	CreatedAt string `json:"CreatedAt"`
}

// CLILink mirrors the JSON shape of a link row for output parsing.
type CLILink struct {
	LinkID    string `json:"LinkID"`
	Name      string `json:"Name"`
	SourceID  string `json:"SourceID"`
	TargetID  string `json:"TargetID"`
	CreatedAt string `json:"CreatedAt"`
}
