package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func fastBackoff(attempts int) Backoff {
	return Backoff{Attempts: attempts, Initial: time.Millisecond, Max: 2 * time.Millisecond, Factor: 2}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	var retried []int
	b := fastBackoff(3)
	b.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	val, err := Retry(context.Background(), b, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(errors.New("503"), 503)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastBackoff(5), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("bad request")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastBackoff(2), func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(errors.New("timeout"), 0)
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_CustomRetryable(t *testing.T) {
	calls := 0
	b := fastBackoff(3)
	b.Retryable = func(error) bool { return true }

	_, err := Retry(context.Background(), b, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("anything")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, fastBackoff(5), func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(errors.New("503"), 503)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffFromMillis(t *testing.T) {
	b := BackoffFromMillis(4, 100, 0)
	assert.Equal(t, 4, b.Attempts)
	assert.Equal(t, 100*time.Millisecond, b.Initial)
	assert.Equal(t, DefaultBackoff().Max, b.Max)
}

func TestBackoff_DelayCapped(t *testing.T) {
	b := Backoff{Attempts: 10, Initial: time.Second, Max: 3 * time.Second, Factor: 10}.normalized()
	assert.Equal(t, time.Second, b.delay(0))
	assert.Equal(t, 3*time.Second, b.delay(4))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"explicit", NewTransientError(errors.New("x"), 429), true},
		{"reset", errors.New("read: connection reset by peer"), true},
		{"dns", errors.New("dial tcp: lookup s.jina.ai: no such host"), true},
		{"plain", errors.New("invalid query"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 404} {
		assert.False(t, IsTransientStatus(code), code)
	}
}
