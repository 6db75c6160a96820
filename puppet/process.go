package puppet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// ErrRendererGone is returned by Serve when the renderer exited and was
// not restarted.
var ErrRendererGone = errors.New("puppet: renderer exited")

// Process is a renderer child process. It reads commands on its stdin and
// writes replies on its stdout.
type Process struct {
	*Connection

	cmd     *exec.Cmd
	exited  chan struct{}
	exitErr error
	closed  bool
	drained bool
}

// Exited is closed when the process has exited.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// ExitErr returns the result of waiting for the process. It is only
// meaningful once Exited is closed.
func (p *Process) ExitErr() error {
	return p.exitErr
}

func (p *Process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Close ends the connection and kills the process. An exit caused by
// Close is not reported as a crash.
func (p *Process) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.Connection.Close()
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	<-p.exited
	return nil
}

// Launcher starts renderer processes. Only the most recently started
// process is served.
type Launcher struct {
	Path   string
	Args   []string
	Logger *slog.Logger

	current *Process
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Current returns the process started last, or nil once it exited.
func (l *Launcher) Current() *Process {
	return l.current
}

// Start launches a renderer whose replies go to handler. The previous
// process, if still running, is closed.
func (l *Launcher) Start(handler ReplyHandler) (*Process, error) {
	if l.current != nil {
		l.current.Close()
		l.current = nil
	}

	// The child reads commands from cmdR and writes replies to replyW.
	cmdR, cmdW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("puppet: pipe: %w", err)
	}
	replyR, replyW, err := os.Pipe()
	if err != nil {
		cmdR.Close()
		cmdW.Close()
		return nil, fmt.Errorf("puppet: pipe: %w", err)
	}

	cmd := exec.Command(l.Path, l.Args...)
	cmd.Stdin = cmdR
	cmd.Stdout = replyW
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		cmdR.Close()
		cmdW.Close()
		replyR.Close()
		replyW.Close()
		return nil, fmt.Errorf("puppet: start %s: %w", l.Path, err)
	}
	cmdR.Close()
	replyW.Close()

	p := &Process{
		Connection: NewConnectionSplit(replyR, cmdW, handler, WithLogger(l.logger())),
		cmd:        cmd,
		exited:     make(chan struct{}),
	}
	go func() {
		p.exitErr = cmd.Wait()
		close(p.exited)
	}()

	l.logger().Info("puppet: renderer started", "path", l.Path, "pid", p.Pid(), "session", p.Session().String())
	l.current = p
	p.ensureHandler()
	return p, nil
}

// Serve is the owner loop: it processes replies of the current process,
// runs functions received on posted, and calls onCrash when the current
// process exits without having been closed. Serve returns when ctx is
// done, or with ErrRendererGone when the process exited and onCrash did
// not start a new one.
func (l *Launcher) Serve(ctx context.Context, posted <-chan func(), onCrash func()) error {
	for {
		p := l.current
		var signal, exited <-chan struct{}
		if p != nil {
			exited = p.exited
			if !p.drained {
				signal = p.processSignal
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case f := <-posted:
			f()

		case _, open := <-signal:
			if !open {
				p.drained = true
				continue
			}
			if err := p.Process(); err != nil {
				l.logger().Warn("puppet: connection failed", "error", err)
			}

		case <-exited:
			if l.current == p {
				l.current = nil
			}
			if p.closed {
				continue
			}
			l.logger().Warn("puppet: renderer exited unexpectedly", "pid", p.Pid(), "error", p.exitErr)
			// Replies written before the exit are still queued.
			p.Process()
			onCrash()
			if l.current == nil {
				return ErrRendererGone
			}
		}
	}
}
