package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildBcflowBinary builds the CLI into a temporary directory
func buildBcflowBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "bcflow")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bcflow")

	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build bcflow binary: %v\n%s", err, out)
	}
	return binaryPath
}

// createTestConfigFile writes a .bcflow.toml that directs reports to outputDir
func createTestConfigFile(t *testing.T, testDir, outputDir string) {
	t.Helper()
	configFile := filepath.Join(testDir, ".bcflow.toml")
	configContent := fmt.Sprintf("[output]\ndirectory = %q\n", outputDir)
	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
}

// createTestDocument writes an IR document into dir
func createTestDocument(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", filename, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test document %s: %v", filename, err)
	}
	return path
}

const loopDocument = `class: com.example.Loops
methods:
  - name: count
    nodes:
      - {position: 0, kind: plain}
      - {position: 2, kind: plain}
      - {position: 5, kind: branch}
      - {position: 8, kind: plain}
      - {position: 11, kind: goto}
      - {position: 14, kind: plain}
    edges:
      - {from: 0, to: 2}
      - {from: 2, to: 5}
      - {from: 5, to: 8, leg: false}
      - {from: 5, to: 14, leg: true}
      - {from: 8, to: 11}
      - {from: 11, to: 2}
`

const corruptDocument = `class: com.example.Broken
methods:
  - name: halfBranch
    nodes:
      - {position: 0, kind: branch}
      - {position: 3, kind: plain}
    edges:
      - {from: 0, to: 3, leg: false}
`
