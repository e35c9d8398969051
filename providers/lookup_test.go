package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mibig-toxins/config"
)

const testURL = "https://db.example.org/compound/42"

type recordedSleeps struct {
	waits []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func newTestClient(t *testing.T) (*LookupClient, *recordedSleeps) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	client := NewLookupClient("test", config.Default(), zap.NewNop())
	sleeps := &recordedSleeps{}
	client.Sleep = sleeps.sleep
	return client, sleeps
}

func TestLookupClient_RateLimitedThenOK(t *testing.T) {
	client, sleeps := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusTooManyRequests, "slow down").
			Then(httpmock.NewStringResponder(http.StatusOK, "XLYOFNOQVPJJNP-UHFFFAOYSA-N")))

	resp, err := client.Get(context.Background(), "42", testURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "XLYOFNOQVPJJNP-UHFFFAOYSA-N", string(resp.Body))
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
	assert.Equal(t, []time.Duration{60 * time.Second}, sleeps.waits)
}

func TestLookupClient_TransientExhaustsAttempts(t *testing.T) {
	client, sleeps := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "maintenance"))

	resp, err := client.Get(context.Background(), "42", testURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
	// Nach dem letzten Versuch wird nicht mehr gewartet.
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps.waits)
	assert.Error(t, resp.Err())
}

func TestLookupClient_RequestTimeoutIsRetried(t *testing.T) {
	client, sleeps := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testURL,
		httpmock.NewStringResponder(http.StatusRequestTimeout, "").
			Then(httpmock.NewStringResponder(http.StatusOK, "{}")))

	resp, err := client.Get(context.Background(), "42", testURL)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, []time.Duration{time.Second}, sleeps.waits)
}

func TestLookupClient_OtherStatusNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusBadRequest} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			client, sleeps := newTestClient(t)
			httpmock.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(status, "nope"))

			resp, err := client.Get(context.Background(), "42", testURL)
			require.NoError(t, err)
			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, 1, httpmock.GetTotalCallCount())
			assert.Empty(t, sleeps.waits)
		})
	}
}

func TestLookupClient_TransportErrorNotRetried(t *testing.T) {
	client, sleeps := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testURL, httpmock.NewErrorResponder(errors.New("connection refused")))

	resp, err := client.Get(context.Background(), "42", testURL)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.Empty(t, sleeps.waits)
}

func TestLookupClient_CancelledDuringBackoff(t *testing.T) {
	client, _ := newTestClient(t)
	client.Sleep = SleepContext
	httpmock.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(http.StatusTooManyRequests, ""))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "42", testURL)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestLookupClient_SendsUserAgent(t *testing.T) {
	client, _ := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, userAgent, req.Header.Get("User-Agent"))
		return httpmock.NewStringResponse(http.StatusOK, ""), nil
	})

	_, err := client.Get(context.Background(), "42", testURL)
	require.NoError(t, err)
}

func TestResponse_Err(t *testing.T) {
	assert.NoError(t, (&Response{StatusCode: http.StatusNoContent}).Err())
	assert.Error(t, (&Response{URL: testURL, StatusCode: http.StatusNotFound}).Err())
}
