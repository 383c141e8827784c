package report

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/geneai/bddctl/internal/allure"
	"github.com/geneai/bddctl/internal/config"
	"github.com/geneai/bddctl/internal/fs"
)

const (
	ExecutorName = "GeneAI BDD"
	ExecutorType = "local"
	ReportName   = "GeneAI Automated Test Report"
)

// DefaultCategories classify assertion failures and broken tests so the
// categories tab is never empty.
var DefaultCategories = []allure.Category{
	{Name: "Assertion Failures", MatchedStatuses: []string{allure.StatusFail}, MessageRegex: ".*expect.*"},
	{Name: "Broken Tests", MatchedStatuses: []string{allure.StatusBroken}},
}

// WriteEnvironment writes environment.properties and executor.json into dir.
func WriteEnvironment(dir string, cfg *config.Config, now time.Time) error {
	if err := fs.Mkdir(dir); err != nil {
		return err
	}

	props := []string{
		"OS=" + runtime.GOOS,
		"Runtime=" + runtime.Version(),
		"Parallel=" + strconv.Itoa(cfg.Run.Parallel),
		"Retry=" + strconv.Itoa(cfg.Run.Retry),
		"Browser=" + cfg.Browser.Name,
	}

	pth := filepath.Join(dir, allure.EnvironmentFile)
	if err := os.WriteFile(pth, []byte(strings.Join(props, "\n")), 0o644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	executor := allure.Executor{
		Name:       ExecutorName,
		Type:       ExecutorType,
		BuildName:  now.UTC().Format(isoMillis),
		BuildOrder: now.UnixMilli(),
		ReportName: ReportName,
	}

	return fs.WriteJSON(filepath.Join(dir, allure.ExecutorFile), executor)
}

// WriteCategories writes the default categories.json unless one exists.
func WriteCategories(dir string) (bool, error) {
	pth := filepath.Join(dir, allure.CategoriesFile)
	if fs.Exists(pth) {
		return false, nil
	}

	if err := fs.WriteJSON(pth, DefaultCategories); err != nil {
		return false, err
	}

	return true, nil
}
