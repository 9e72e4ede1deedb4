package poll_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/rapidfire/pkg/adapters/poll"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scripted(levels ...float64) poll.ReadFunc {
	var calls atomic.Int64
	return func(ctx context.Context) (float64, error) {
		i := int(calls.Add(1)) - 1
		if i >= len(levels) {
			i = len(levels) - 1
		}
		if levels[i] < 0 {
			return 0, errors.New("device busy")
		}
		return levels[i], nil
	}
}

func TestSource_StreamsAndSkipsFailures(t *testing.T) {
	src := poll.NewSource(scripted(0.1, -1, 0.999), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := src.Subscribe(ctx)
	require.NoError(t, err)

	var got []float64
	for len(got) < 2 {
		select {
		case v := <-ch:
			got = append(got, v)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for readings")
		}
	}
	assert.Equal(t, []float64{0.1, 0.999}, got)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, time.Millisecond)
}

func TestSource_Level(t *testing.T) {
	level, err := poll.NewSource(scripted(0.4), 0).Level(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.4, level, 1e-9)

	_, err = poll.NewSource(scripted(-1), 0).Level(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = poll.NewSource(scripted(1.5), 0).Level(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = poll.NewSource(nil, 0).Subscribe(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
