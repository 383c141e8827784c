package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geneai/bddctl/internal/config"
	"github.com/geneai/bddctl/internal/fs"
	"github.com/geneai/bddctl/internal/logging"
)

func writeFile(t *testing.T, pth, body string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0o755))
	require.NoError(t, os.WriteFile(pth, []byte(body), 0o644))
}

func TestPrepare_RestoresHistory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := config.AllureConfig{
		ResultsDir: filepath.Join(root, "allure-results"),
		ReportDir:  filepath.Join(root, "allureReport"),
		Clean:      true,
	}

	writeFile(t, filepath.Join(cfg.ResultsDir, "old-result.json"), `{"status":"passed"}`)
	writeFile(t, filepath.Join(cfg.ReportDir, "index.html"), "<html>")
	writeFile(t, filepath.Join(cfg.ReportDir, "history", "history-trend.json"), `[{"data":{"passed":3}}]`)

	Prepare(cfg, logging.Discard())

	require.False(t, fs.Exists(filepath.Join(cfg.ResultsDir, "old-result.json")))
	require.False(t, fs.Exists(cfg.ReportDir))

	b, err := os.ReadFile(filepath.Join(cfg.ResultsDir, "history", "history-trend.json"))
	require.NoError(t, err)
	require.Equal(t, `[{"data":{"passed":3}}]`, string(b))
}

func TestPrepare_NoHistory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := config.AllureConfig{
		ResultsDir: filepath.Join(root, "allure-results"),
		ReportDir:  filepath.Join(root, "allureReport"),
		Clean:      true,
	}

	writeFile(t, filepath.Join(cfg.ResultsDir, "old-result.json"), "{}")

	Prepare(cfg, logging.Discard())

	entries, err := os.ReadDir(cfg.ResultsDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestPrepare_Disabled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	results := filepath.Join(root, "allure-results")
	writeFile(t, filepath.Join(results, "old-result.json"), "{}")

	testCases := []struct {
		name string
		cfg  config.AllureConfig
	}{
		{
			name: "test_clean_false",
			cfg:  config.AllureConfig{ResultsDir: results},
		},
		{
			name: "test_no_results_dir",
			cfg:  config.AllureConfig{Clean: true, ReportDir: filepath.Join(root, "report")},
		},
	}

	for _, tc := range testCases {
		Prepare(tc.cfg, logging.Discard())
		require.True(t, fs.Exists(filepath.Join(results, "old-result.json")), tc.name)
	}
}
