// Package supervisor runs the request-serving loop next to a one-shot
// liveness check and stops both together.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"dssrules/internal/logging"

	"golang.org/x/sync/errgroup"
)

// DefaultLivenessDelay is how long the server waits for a first retrieval
// before warning.
const DefaultLivenessDelay = 5 * time.Second

// State of a Supervisor.
type State int32

const (
	Starting State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ServeFunc is the request loop. It blocks until the transport reaches end
// of input (returning nil), ctx is cancelled, or a fatal error occurs.
type ServeFunc func(ctx context.Context) error

// Supervisor owns the liveness flag and the two tasks of a server run.
type Supervisor struct {
	logger *logging.AppLogger
	delay  time.Duration
	onIdle func()

	bootstrapped atomic.Bool
	state        atomic.Int32
}

// Option customizes a Supervisor.
type Option func(*Supervisor)

// WithIdleHook registers fn to run, after the warning is logged, when no
// retrieval completed within the liveness delay.
func WithIdleHook(fn func()) Option {
	return func(s *Supervisor) { s.onIdle = fn }
}

// New creates a Supervisor. A non-positive delay selects DefaultLivenessDelay.
func New(logger *logging.AppLogger, delay time.Duration, opts ...Option) *Supervisor {
	if delay <= 0 {
		delay = DefaultLivenessDelay
	}
	s := &Supervisor{logger: logger, delay: delay}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrapped returns the liveness flag. The request handler sets it when
// a retrieval completes; the supervisor reads it once after the delay.
func (s *Supervisor) Bootstrapped() *atomic.Bool {
	return &s.bootstrapped
}

// State returns the current state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Run starts serve and the liveness check and returns once both have
// exited. The liveness timer is torn down as soon as serve returns.
// Cancellation of ctx is a clean shutdown; any other error from serve is
// returned.
func (s *Supervisor) Run(ctx context.Context, serve ServeFunc) error {
	if serve == nil {
		return errors.New("supervisor: nil serve function")
	}
	if !s.state.CompareAndSwap(int32(Starting), int32(Running)) {
		return fmt.Errorf("supervisor: cannot run from state %s", s.State())
	}
	defer s.transition(Stopped)
	s.logger.LogStateTransition("supervisor", Starting.String(), Running.String())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if err := serve(gctx); err != nil {
			return fmt.Errorf("request loop: %w", err)
		}
		s.logger.Info("Request loop finished")
		return nil
	})
	g.Go(func() error {
		s.checkLiveness(gctx)
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Supervisor) checkLiveness(ctx context.Context) {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.logger.Debug("Liveness check cancelled")
		return
	case <-timer.C:
	}

	if s.bootstrapped.Load() {
		s.logger.Debug("Liveness check passed")
		return
	}

	s.logger.Warn(fmt.Sprintf("No get_dss_rules call detected within %s of server start. "+
		"Agents should invoke get_dss_rules() to load bootstrap rules.", s.delay))
	if s.onIdle != nil {
		s.onIdle()
	}
}

func (s *Supervisor) transition(to State) {
	from := State(s.state.Swap(int32(to)))
	s.logger.LogStateTransition("supervisor", from.String(), to.String())
}
