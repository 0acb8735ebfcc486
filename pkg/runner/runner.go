// Package runner launches the rsync transfer subprocess and streams its
// combined output through the classifier into a renderer.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/micahcheng/smart-rsync/internal/rsyncbin"
	"github.com/micahcheng/smart-rsync/pkg/render"
	"github.com/micahcheng/smart-rsync/pkg/stream"
)

// startCommand launches rsync with stdout and stderr merged into a single
// line stream. Swapped in tests.
var startCommand = func(path string, args []string) (io.Reader, func() error, error) {
	cmd := exec.Command(path, args...)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	wait := func() error {
		err := cmd.Wait()
		pw.Close()
		return err
	}
	return pr, wait, nil
}

// Runner drives one transfer subprocess.
type Runner struct {
	tool     rsyncbin.Tool
	renderer render.Renderer
	clock    clockwork.Clock
}

func NewRunner(tool rsyncbin.Tool, renderer render.Renderer, clock clockwork.Clock) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{tool: tool, renderer: renderer, clock: clock}
}

// Outcome summarizes one finished (or canceled) transfer.
type Outcome struct {
	ExitCode int
	Errors   []string
	Elapsed  time.Duration
	Canceled bool
}

// Run executes the transfer and blocks until rsync exits or ctx is canceled.
// Cancellation abandons the read loop without terminating the child; the
// returned Outcome has Canceled set and nothing else populated.
func (r *Runner) Run(ctx context.Context, spec rsyncbin.TransferSpec) (*Outcome, error) {
	sess := stream.NewSession(spec.Source, spec.Dest, spec.DryRun, spec.Delete, r.clock)

	args := r.tool.TransferArgs(spec)
	logrus.WithField("args", args).Debug("launching rsync transfer")

	out, wait, err := startCommand(r.tool.Path, args)
	if err != nil {
		return nil, fmt.Errorf("start rsync: %w", err)
	}

	r.renderer.Start(spec.DryRun)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(out)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	waitErr := make(chan error, 1)
	go func() { waitErr <- wait() }()

loop:
	for {
		select {
		case <-ctx.Done():
			r.renderer.Canceled()
			// The child keeps running; drain the stream in the background so
			// the scanner and wait goroutines can finish when it exits.
			go func() {
				for range lines {
				}
				<-waitErr
			}()
			return &Outcome{Canceled: true}, nil
		case raw, ok := <-lines:
			if !ok {
				break loop
			}

			line := stream.Sanitize(raw)
			if line == "" {
				continue
			}

			switch sess.Apply(line) {
			case stream.KindProgress:
				r.renderer.Progress(sess.CurrentFile(), line)
			case stream.KindError:
				r.renderer.Error(line)
			}
		}
	}

	exitCode := 0
	if err := <-waitErr; err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("wait for rsync: %w", err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &Outcome{
		ExitCode: exitCode,
		Errors:   sess.Errors(),
		Elapsed:  sess.Elapsed(),
	}, nil
}
