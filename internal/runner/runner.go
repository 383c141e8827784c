package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/phuslu/log"

	"github.com/geneai/bddctl/internal/logging"
	"github.com/geneai/bddctl/internal/nodebin"
)

const outputTail = 64 << 10

// Result describes how the runner process ended. LaunchErr is set when the
// process never started; that alone does not fail the run.
type Result struct {
	ExitCode  int
	Failed    bool
	LaunchErr error
	Stdout    []byte
	Stderr    []byte
}

type CommandFunc func(args []string) nodebin.Command

type Option func(*Runner)

func WithWorkDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithMirror sets where child stdout and stderr are echoed live.
func WithMirror(w io.Writer) Option {
	return func(r *Runner) {
		r.mirror = w
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithCommand replaces binary resolution, mostly for tests.
func WithCommand(fn CommandFunc) Option {
	return func(r *Runner) {
		r.command = fn
	}
}

type Runner struct {
	binary  string
	dir     string
	mirror  io.Writer
	logger  *log.Logger
	command CommandFunc
}

// New returns a runner for the named node binary.
func New(binary string, opts ...Option) *Runner {
	r := Runner{
		binary: binary,
		dir:    ".",
		mirror: os.Stderr,
		logger: logging.Discard(),
	}

	for _, o := range opts {
		o(&r)
	}

	if r.command == nil {
		r.command = func(args []string) nodebin.Command {
			return nodebin.Resolve(r.dir, r.binary, args...)
		}
	}

	return &r
}

// Run starts the runner and blocks until it exits. The child inherits the
// environment; there is no timeout, only ctx cancellation.
func (r *Runner) Run(ctx context.Context, args []string) Result {
	c := r.command(args)
	r.logger.Debug().Str("cmd", c.String()).Msg("Launching runner")

	stdout, stderr := newTailBuffer(outputTail), newTailBuffer(outputTail)
	mirror := &lockedWriter{w: r.mirror}

	cmd := c.Cmd(ctx)
	cmd.Dir = r.dir
	cmd.Stdout = io.MultiWriter(stdout, mirror)
	cmd.Stderr = io.MultiWriter(stderr, mirror)

	if err := cmd.Start(); err != nil {
		r.logger.Error().Err(err).Str("cmd", c.Path).Msgf("Failed to launch %s", r.binary)
		return Result{LaunchErr: err}
	}

	waitErr := cmd.Wait()

	res := Result{
		ExitCode: -1,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}

	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		r.logger.Warn().Err(waitErr).Msg("Runner output was not fully collected")
	}

	res.Failed = res.ExitCode != 0

	if res.Failed {
		r.logger.Error().Int("exit_code", res.ExitCode).Msg("Some Test(s) failed. Review report.")
	} else {
		r.logger.Info().Msg("Cucumber execution completed successfully.")
	}

	return res
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.w.Write(p)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf []byte
	max int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}

	return len(p), nil
}

func (t *tailBuffer) Bytes() []byte {
	return t.buf
}
