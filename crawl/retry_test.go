package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/couponcrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailURL = "https://www.discudemy.com/go/learn-go"

func TestExponentialDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, crawl.ExponentialDelays(3, time.Second))
	assert.Empty(t, crawl.ExponentialDelays(0, time.Second))
	assert.Empty(t, crawl.ExponentialDelays(-2, time.Second))
}

func TestBackoff_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns first successful body", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "<html>ok</html>", nil
		}

		var retried []int
		b := crawl.Backoff{
			Delays:  []time.Duration{0, 0, 0},
			OnRetry: func(_ string, attempt int, _ error) { retried = append(retried, attempt) },
		}
		html, err := b.Fetch(context.Background(), detailURL, fetch)

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 3}, retried)
	})

	t.Run("returns last error after exhausting attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", errors.New("boom")
		}

		_, err := crawl.Backoff{Delays: []time.Duration{0, 0}}.Fetch(context.Background(), detailURL, fetch)

		require.EqualError(t, err, "boom")
		assert.Equal(t, 3, calls)
	})

	t.Run("makes a single attempt with no delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", errors.New("boom")
		}

		_, err := crawl.Backoff{}.Fetch(context.Background(), detailURL, fetch)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops retrying when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			cancel()
			return "", errors.New("boom")
		}

		_, err := crawl.Backoff{Delays: []time.Duration{time.Hour}}.Fetch(ctx, detailURL, fetch)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
