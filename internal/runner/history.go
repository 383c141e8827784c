package runner

import (
	"os"
	"path/filepath"

	"github.com/phuslu/log"

	"github.com/geneai/bddctl/internal/allure"
	"github.com/geneai/bddctl/internal/config"
	"github.com/geneai/bddctl/internal/fs"
)

// Prepare wipes the results and report directories before a run when the
// config asks for it. The previous report's history is carried into the new
// results directory so the generator keeps trend data. Every failure here is
// logged and swallowed.
func Prepare(cfg config.AllureConfig, logger *log.Logger) {
	if !cfg.Clean || cfg.ResultsDir == "" {
		return
	}

	backup := backupHistory(cfg.ReportDir, logger)
	if backup != "" {
		defer os.RemoveAll(backup)
	}

	if err := os.RemoveAll(cfg.ResultsDir); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.ResultsDir).Msg("Failed to remove previous results")
	}

	if cfg.ReportDir != "" {
		if err := os.RemoveAll(cfg.ReportDir); err != nil {
			logger.Warn().Err(err).Str("dir", cfg.ReportDir).Msg("Failed to remove previous report")
		}
	}

	if err := fs.Mkdir(cfg.ResultsDir); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.ResultsDir).Msg("Failed to recreate results directory")
	}

	if backup == "" {
		return
	}

	dest := filepath.Join(cfg.ResultsDir, allure.HistoryDir)
	if err := fs.CopyDir(filepath.Join(backup, allure.HistoryDir), dest); err != nil {
		logger.Warn().Err(err).Msg("Failed to restore Allure history")
		return
	}

	logger.Info().Str("dir", dest).Msg("Restored Allure history")
}

func backupHistory(reportDir string, logger *log.Logger) string {
	if reportDir == "" {
		return ""
	}

	hist := filepath.Join(reportDir, allure.HistoryDir)
	if !fs.IsDir(hist) {
		return ""
	}

	tmp, err := os.MkdirTemp("", "allure-history-")
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to backup existing Allure history")
		return ""
	}

	if err = fs.CopyDir(hist, filepath.Join(tmp, allure.HistoryDir)); err != nil {
		logger.Warn().Err(err).Msg("Failed to backup existing Allure history")
		_ = os.RemoveAll(tmp)
		return ""
	}

	logger.Info().Str("dir", tmp).Msg("Backed up previous Allure history")

	return tmp
}
