package main

import (
	"fmt"
	"io"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/geneai/bddctl/internal/config"
	"github.com/geneai/bddctl/internal/logging"
	"github.com/geneai/bddctl/internal/report"
	"github.com/geneai/bddctl/internal/runner"
	"github.com/geneai/bddctl/internal/tags"
)

// exitCodeError carries a process exit code out of RunE without printing.
type exitCodeError int

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// lookupEnv is swapped in tests.
var lookupEnv config.LookupFunc = os.LookupEnv

var rootCmd = &cobra.Command{
	Use:   "bddctl [tags|profile|flags...]",
	Short: "Run the cucumber suite and build the Allure report",
	Long: `Run the cucumber suite with a resolved tag expression, then build the Allure report.

Tag selection, highest priority first:
  --tags <expr>, -t <expr>, --tags=<expr>   explicit expression
  @smoke, "@a and not @b"                    bare expression
  --profile <name>, -p <name>, <name>        named profile
  TAGS                                        environment variable
  not @ignore                                 default`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logger, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		logger.Debug().Strs("args", args).Msg("Raw arguments")

		expr := tags.NewResolver(cfg.Profiles).Resolve(args, tags.LookupFunc(lookupEnv))
		logger.Info().Str("tags", expr).Msg("Executing Cucumber with tag expression")

		runArgs := runner.BuildArgs(cfg, expr)
		logger.Debug().Strs("args", runArgs).Msg("Cucumber arguments")

		runner.Prepare(cfg.Allure, logger)

		res := runner.New(
			cfg.Runner.Binary,
			runner.WithLogger(logger),
			runner.WithMirror(cmd.ErrOrStderr()),
		).Run(ctx, runArgs)

		code := 0
		if res.Failed {
			code = 1
		}

		if cfg.Allure.ResultsDir != "" {
			code = report.New(cfg, report.WithLogger(logger)).Run(ctx, res.Failed).ExitCode
		}

		if code != 0 {
			return exitCodeError(code)
		}

		return nil
	},
}

// setup loads env/.env and the config file and builds the logger.
func setup(w io.Writer) (*config.Config, *log.Logger, error) {
	if err := config.LoadDotEnv(config.DefaultDotEnv); err != nil {
		return nil, nil, fmt.Errorf("config.LoadDotEnv: %w", err)
	}

	pth := config.DefaultPath
	if v, ok := lookupEnv(config.EnvConfigPath); ok && v != "" {
		pth = v
	}

	cfg, err := config.Load(pth, lookupEnv)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load: %w", err)
	}

	color := false
	if f, ok := w.(*os.File); ok {
		color = log.IsTerminal(f.Fd())
	}

	return cfg, logging.New(cfg.Run.LogLevel, w, color), nil
}
