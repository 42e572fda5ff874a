package supervisor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dssrules/internal/logging"
	"dssrules/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const idleWarning = "No get_dss_rules call detected"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRun_WarnsOnceWhenIdle(t *testing.T) {
	logger, buf := logging.NewTestLogger()
	stop := make(chan struct{})
	var idleCalls atomic.Int32

	sup := New(logger, 10*time.Millisecond, WithIdleHook(func() {
		idleCalls.Add(1)
		close(stop)
	}))

	err := sup.Run(context.Background(), func(ctx context.Context) error {
		<-stop
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), idleCalls.Load())
	assert.Equal(t, 1, strings.Count(buf.String(), idleWarning))
	assert.Contains(t, buf.String(), "Agents should invoke get_dss_rules()")
	assert.Equal(t, Stopped, sup.State())
}

func TestRun_RetrievalAfterIdleWarningSucceeds(t *testing.T) {
	dir := t.TempDir()
	for _, id := range rules.BootstrapRules {
		path := filepath.Join(dir, filepath.FromSlash(id))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("# "+id+"\n"), 0644))
	}

	logger, buf := logging.NewTestLogger()
	idle := make(chan struct{})
	sup := New(logger, 10*time.Millisecond, WithIdleHook(func() { close(idle) }))
	svc := rules.NewService(dir, sup.Bootstrapped(), logger)

	var out string
	err := sup.Run(context.Background(), func(ctx context.Context) error {
		<-idle
		out = svc.GetRules(rules.AbsentRequest(), "", true)
		return nil
	})

	require.NoError(t, err)
	for _, id := range rules.BootstrapRules {
		assert.Contains(t, out, "## File: "+id)
	}
	assert.NotContains(t, out, "No rule files could be loaded")
	assert.True(t, sup.Bootstrapped().Load())
	assert.Equal(t, 1, strings.Count(buf.String(), idleWarning))
}

func TestRun_NoWarningOnceServed(t *testing.T) {
	logger, buf := logging.NewTestLogger()
	sup := New(logger, 10*time.Millisecond, WithIdleHook(func() {
		t.Error("idle hook must not run after a retrieval")
	}))

	err := sup.Run(context.Background(), func(ctx context.Context) error {
		sup.Bootstrapped().Store(true)
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	require.NoError(t, err)
	assert.NotContains(t, buf.String(), idleWarning)
}

func TestRun_EndOfInputStopsTimer(t *testing.T) {
	logger, buf := logging.NewTestLogger()
	sup := New(logger, time.Hour)

	done := make(chan error, 1)
	go func() {
		done <- sup.Run(context.Background(), func(ctx context.Context) error { return nil })
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the request loop finished")
	}

	assert.Equal(t, Stopped, sup.State())
	assert.NotContains(t, buf.String(), idleWarning)
	assert.Contains(t, buf.String(), "Liveness check cancelled")
}

func TestRun_ServeErrorIsFatal(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	sup := New(logger, time.Hour)
	boom := errors.New("transport broke")

	err := sup.Run(context.Background(), func(ctx context.Context) error { return boom })

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Stopped, sup.State())
}

func TestRun_ParentCancelIsClean(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	sup := New(logger, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	err := sup.Run(ctx, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	assert.NoError(t, err)
}

func TestRun_OnlyOnce(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	sup := New(logger, time.Hour)
	serve := func(ctx context.Context) error { return nil }

	require.NoError(t, sup.Run(context.Background(), serve))
	assert.Error(t, sup.Run(context.Background(), serve))
	assert.Error(t, New(logger, time.Hour).Run(context.Background(), nil))
}

func TestRun_StateWhileServing(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	sup := New(logger, time.Hour)
	assert.Equal(t, Starting, sup.State())

	var during State
	require.NoError(t, sup.Run(context.Background(), func(ctx context.Context) error {
		during = sup.State()
		return nil
	}))

	assert.Equal(t, Running, during)
	assert.Equal(t, Stopped, sup.State())
}

func TestNew_DefaultDelay(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	assert.Equal(t, DefaultLivenessDelay, New(logger, 0).delay)
	assert.Equal(t, time.Second, New(logger, time.Second).delay)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "starting", Starting.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "state(7)", State(7).String())
}
