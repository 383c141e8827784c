package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/geneai/bddctl/internal/nodebin"
)

type Generator interface {
	Generate(ctx context.Context, resultsDir, reportDir string, clean bool) error
}

var _ Generator = (*CLIGenerator)(nil)

// CLIGenerator runs `allure generate` from node_modules/.bin or through npx.
type CLIGenerator struct {
	Binary string
	Dir    string
	Output io.Writer
}

func NewCLIGenerator(binary string) *CLIGenerator {
	return &CLIGenerator{Binary: binary, Dir: ".", Output: os.Stderr}
}

func (g *CLIGenerator) Command(resultsDir, reportDir string, clean bool) nodebin.Command {
	args := []string{"generate", resultsDir, "-o", reportDir}
	if clean {
		args = append(args, "--clean")
	}

	return nodebin.Resolve(g.Dir, g.Binary, args...)
}

func (g *CLIGenerator) Generate(ctx context.Context, resultsDir, reportDir string, clean bool) error {
	c := g.Command(resultsDir, reportDir, clean)

	cmd := c.Cmd(ctx)
	cmd.Dir = g.Dir
	cmd.Stdout = g.Output
	cmd.Stderr = g.Output

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command Run %s: %w", c, err)
	}

	return nil
}
