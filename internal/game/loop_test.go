package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/memory-beacon/internal/types"
)

func startRunner(t *testing.T, f *sessionFixture) *Runner {
	t.Helper()
	runner := NewRunner(f.session, 240, 0)
	go runner.Run()
	t.Cleanup(runner.Stop)
	return runner
}

func TestRunnerDo(t *testing.T) {
	f := newSessionFixture(t)
	runner := startRunner(t, f)
	ctx := context.Background()

	_, err := runner.Do(ctx, func(s *Session) (any, error) {
		s.NewGame()
		return nil, nil
	})
	require.NoError(t, err)

	value, err := runner.Do(ctx, func(s *Session) (any, error) {
		return s.Status(), nil
	})
	require.NoError(t, err)
	status, ok := value.(Status)
	require.True(t, ok)
	assert.True(t, status.Started)
	assert.Equal(t, "scene1", status.Scene)

	_, err = runner.Do(ctx, func(s *Session) (any, error) {
		return nil, s.Save(9, "")
	})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestRunnerRecoversPanics(t *testing.T) {
	f := newSessionFixture(t)
	runner := startRunner(t, f)

	_, err := runner.Do(context.Background(), func(*Session) (any, error) {
		panic("boom")
	})
	assert.EqualError(t, err, "command failed")

	// the loop is still alive
	_, err = runner.Do(context.Background(), func(*Session) (any, error) { return nil, nil })
	assert.NoError(t, err)
}

func TestRunnerInputReachesTick(t *testing.T) {
	f := newSessionFixture(t)
	runner := startRunner(t, f)
	ctx := context.Background()

	_, err := runner.Do(ctx, func(s *Session) (any, error) {
		s.NewGame()
		return nil, nil
	})
	require.NoError(t, err)

	runner.SendInput(Input{Move: types.Vec3{X: 2}})
	assert.Eventually(t, func() bool {
		value, err := runner.Do(ctx, func(s *Session) (any, error) {
			return s.Player().Position.X, nil
		})
		return err == nil && value.(float64) == 2
	}, testTimeout, testInterval)
}

func TestRunnerStopped(t *testing.T) {
	f := newSessionFixture(t)
	runner := NewRunner(f.session, 240, 0)
	go runner.Run()
	runner.Stop()
	runner.Stop()

	_, err := runner.Do(context.Background(), func(*Session) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrRunnerStopped)
}

func TestRunnerStopWaitsForSave(t *testing.T) {
	f := newSessionFixture(t)
	runner := NewRunner(f.session, 240, 0)
	go runner.Run()

	_, err := runner.Do(context.Background(), func(s *Session) (any, error) {
		s.NewGame()
		return nil, s.Save(1, "on the way out")
	})
	require.NoError(t, err)
	runner.Stop()

	assert.True(t, f.session.Saves().Slots()[1].Exists)
}
