// Package nodebin locates node tool executables the way npm scripts do: the
// project-local node_modules/.bin first, npx otherwise.
package nodebin

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/geneai/bddctl/internal/fs"
)

const Shim = "npx"

type Command struct {
	Path string
	Args []string
}

// Resolve builds the invocation of the tool name with args, relative to the
// project directory dir.
func Resolve(dir, name string, args ...string) Command {
	local := LocalPath(dir, name)
	if fs.Exists(local) {
		return Command{Path: local, Args: args}
	}

	return Command{Path: Shim, Args: append([]string{name}, args...)}
}

// LocalPath is where npm links the executable of an installed package.
func LocalPath(dir, name string) string {
	if runtime.GOOS == "windows" {
		name += ".cmd"
	}

	return filepath.Join(dir, "node_modules", ".bin", name)
}

func (c Command) Cmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, c.Path, c.Args...)
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}
