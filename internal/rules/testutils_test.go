package rules

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"dssrules/internal/logging"
)

// writeRules creates the given slash-separated files under a fresh temp dir
// and returns the dir.
func writeRules(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// bootstrapFixture has every bootstrap and "code" suggestion document.
func bootstrapFixture() map[string]string {
	return map[string]string{
		"00-dss-core.mdc":                           "---\ndescription: Core DSS rules\nalwaysApply: true\n---\n# Core\n",
		"01-dss-behavior.mdc":                       "# Behavior\nBe helpful.\n",
		"workflows/00-workflow-selection.mdc":       "---\ndescription: Pick a workflow\nglobs: *.go\n---\n# Selection\n",
		"workflows/02-code-modification.mdc":        "# Code Modification\n",
		"guidelines/11-documentation-standards.mdc": "# Documentation Standards\n",
		"guidelines/04-validation-rules.mdc":        "validation without heading\n",
	}
}

func newTestService(t *testing.T, dir string) (*Service, *atomic.Bool) {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	served := new(atomic.Bool)
	return NewService(dir, served, logger), served
}

func identifiers(results []LoadResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Identifier
	}
	return ids
}
