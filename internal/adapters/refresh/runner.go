// Package refresh runs the external command that rebuilds the data
// directory and streams its output.
package refresh

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/drafter/pkg/logger"
)

// Sentinel errors for refresh runs.
var (
	ErrDisabled = errors.New("refresh command not configured")
	ErrBusy     = errors.New("refresh already running")
	ErrFailed   = errors.New("refresh command failed")
	ErrTimeout  = errors.New("refresh command timed out")
)

const (
	defaultTimeout = 10 * time.Minute
	// waitDelay bounds how long Wait keeps draining pipes after the group
	// has been killed.
	waitDelay = 2 * time.Second
)

// Runner executes one configured command at a time.
type Runner struct {
	args    []string
	dir     string
	env     []string
	timeout time.Duration
	log     logger.Logger
	running atomic.Bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithDir sets the working directory of the command.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(kv ...string) Option {
	return func(r *Runner) { r.env = append(r.env, kv...) }
}

// WithTimeout bounds a single run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger command output is written to.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// New builds a runner for argv. An empty argv yields a disabled runner.
func New(argv []string, opts ...Option) *Runner {
	r := &Runner{
		args:    append([]string(nil), argv...),
		timeout: defaultTimeout,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether a command is configured.
func (r *Runner) Enabled() bool { return len(r.args) > 0 }

// Running reports whether a run is in progress.
func (r *Runner) Running() bool { return r.running.Load() }

// Run executes the command, passing each stdout and stderr line to sink
// (which may be nil) as it arrives. Concurrent calls fail with ErrBusy.
func (r *Runner) Run(ctx context.Context, sink func(line string)) error {
	if !r.Enabled() {
		return ErrDisabled
	}
	if !r.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.args[0], r.args[1:]...)
	cmd.Dir = r.dir
	killGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}

	started := time.Now()
	r.log.Info(ctx, "refresh started", logger.Strings("argv", r.args), logger.String("dir", r.dir))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start %s: %w", ErrFailed, r.args[0], err)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	emit := func(stream string, line string) {
		r.log.Info(ctx, line, logger.String("stream", stream))
		if sink != nil {
			mu.Lock()
			sink(line)
			mu.Unlock()
		}
	}
	wg.Add(2)
	go func() { defer wg.Done(); scan(stdout, "stdout", emit) }()
	go func() { defer wg.Done(); scan(stderr, "stderr", emit) }()
	// Pipes must be drained before Wait closes them. A descendant outside
	// the process group can still hold them open, so give up reading
	// waitDelay after the deadline.
	drained := make(chan struct{})
	go func() { wg.Wait(); close(drained) }()
	select {
	case <-drained:
	case <-ctx.Done():
		select {
		case <-drained:
		case <-time.After(waitDelay):
			_ = stdout.Close()
			_ = stderr.Close()
			<-drained
		}
	}

	err = cmd.Wait()
	elapsed := time.Since(started)
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		r.log.Error(ctx, "refresh timed out", logger.Duration("timeout", r.timeout))
		return fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
	case err != nil:
		r.log.Error(ctx, "refresh failed", logger.Error(err), logger.Duration("elapsed", elapsed))
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}
	r.log.Info(ctx, "refresh finished", logger.Duration("elapsed", elapsed))
	return nil
}

func scan(rd io.Reader, stream string, emit func(stream, line string)) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		emit(stream, sc.Text())
	}
}
