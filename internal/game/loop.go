package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrRunnerStopped is returned for commands sent after Stop
var ErrRunnerStopped = errors.New("runner stopped")

// Command runs Fn against the session between ticks
type Command struct {
	Fn    func(*Session) (any, error)
	Reply chan CommandResult
}

// CommandResult is the reply to a Command
type CommandResult struct {
	Value any
	Err   error
}

// InputCommand queues intents for the next tick
type InputCommand struct {
	Input Input
}

// Runner owns a Session on a single goroutine. Ticks, commands from other
// goroutines and the autosave timer are serialized through one select loop.
type Runner struct {
	Inbox chan any

	session  *Session
	tickRate int
	autosave time.Duration
	input    Input
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewRunner creates a runner ticking tickRate times per second. A zero
// autosave interval disables the autosave timer.
func NewRunner(session *Session, tickRate int, autosave time.Duration) *Runner {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Runner{
		Inbox:    make(chan any, 256),
		session:  session,
		tickRate: tickRate,
		autosave: autosave,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run drives the frame loop until Stop is called
func (r *Runner) Run() {
	defer close(r.done)

	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	var autosave <-chan time.Time
	if r.autosave > 0 {
		t := time.NewTicker(r.autosave)
		defer t.Stop()
		autosave = t.C
	}

	last := time.Now()
	for {
		select {
		case <-r.quit:
			// let a pending write land before the process goes away
			r.session.saves.Wait()
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-autosave:
			r.session.RequestAutosave()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			r.session.Tick(dt, r.input)
			r.input = Input{}
		}
	}
}

func (r *Runner) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Command:
		value, err := r.session.runCommand(c.Fn)
		c.Reply <- CommandResult{Value: value, Err: err}
	case InputCommand:
		r.input.Move = r.input.Move.Add(c.Input.Move)
		r.input.Look = r.input.Look.Add(c.Input.Look)
		r.input.Confirm = r.input.Confirm || c.Input.Confirm
		r.input.Cancel = r.input.Cancel || c.Input.Cancel
	default:
		r.session.env.Logger.Warn("Unknown runner command", zap.Any("command", cmd))
	}
}

// Do runs fn on the loop goroutine and waits for its result
func (r *Runner) Do(ctx context.Context, fn func(*Session) (any, error)) (any, error) {
	reply := make(chan CommandResult, 1)
	select {
	case r.Inbox <- Command{Fn: fn, Reply: reply}:
	case <-r.done:
		return nil, ErrRunnerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.Value, res.Err
	case <-r.done:
		return nil, ErrRunnerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SendInput queues intents for the next tick without waiting
func (r *Runner) SendInput(in Input) {
	select {
	case r.Inbox <- InputCommand{Input: in}:
	case <-r.done:
	}
}

// Stop ends the loop and waits for it to exit. Run must have been started.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
	<-r.done
}

// runCommand shields the loop from a panicking command
func (s *Session) runCommand(fn func(*Session) (any, error)) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.env.Logger.Error("Command panicked", zap.Any("panic", rec))
			err = errors.New("command failed")
		}
	}()
	return fn(s)
}
