package runner

import (
	"strconv"

	"github.com/geneai/bddctl/internal/config"
)

// BuildArgs returns the runner argument vector. The allure formatter is
// only added when results are captured.
func BuildArgs(cfg *config.Config, tagExpression string) []string {
	rc := cfg.Runner

	args := []string{rc.Features}
	if rc.RequireModule != "" {
		args = append(args, "--require-module", rc.RequireModule)
	}

	for _, r := range rc.Require {
		args = append(args, "--require", r)
	}

	args = append(
		args,
		"--parallel", strconv.Itoa(cfg.Run.Parallel),
		"--retry", strconv.Itoa(cfg.Run.Retry),
		"--format", "progress",
	)

	if rc.JSONReport != "" {
		args = append(args, "--format", "json:"+rc.JSONReport)
	}

	args = append(args, "--tags", tagExpression)

	if cfg.Allure.ResultsDir != "" && rc.AllureFormat != "" {
		args = append(args, "--format", rc.AllureFormat)
	}

	return args
}
