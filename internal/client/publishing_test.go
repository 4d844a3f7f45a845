package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishing_Submit(t *testing.T) {
	t.Parallel()

	var (
		gotPath string
		gotAuth string
		gotBody []byte
	)

	client, _ := newTestClient(t, &cms.Config{AccessToken: "secret", ChannelToken: "abc"}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.URL.Query().Get("channelToken"), "management requests are not channel scoped")

		_, _ = w.Write([]byte(`{"id": "job-1", "operation": "publish", "status": "pending"}`))
	})

	job, err := client.Publishing().Submit(context.Background(), nil, &cms.PublishJobRequest{
		Operation: "publish",
		Items:     []string{"item-1", "item-2"},
		Channels:  []string{"web"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/content/management/api/v1.1/publish/jobs", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth, "management requests keep the Authorization header")
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, cms.JobPending, job.Status)

	var submitted cms.PublishJobRequest

	require.NoError(t, json.Unmarshal(gotBody, &submitted))
	assert.Equal(t, "publish", submitted.Operation)
	assert.Equal(t, []string{"item-1", "item-2"}, submitted.Items)
	assert.Equal(t, []string{"web"}, submitted.Channels)
}

func TestPublishing_Submit_Validation(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected")
	})

	tests := []struct {
		name string
		job  *cms.PublishJobRequest
	}{
		{name: "nil job", job: nil},
		{name: "missing operation", job: &cms.PublishJobRequest{Items: []string{"item-1"}}},
		{name: "missing items", job: &cms.PublishJobRequest{Operation: "publish"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := client.Publishing().Submit(context.Background(), nil, tt.job)
			require.ErrorIs(t, err, cms.ErrInvalidRequest)
		})
	}
}

func TestPublishing_GetJob(t *testing.T) {
	t.Parallel()

	var gotPath string

	client, _ := newTestClient(t, &cms.Config{AccessToken: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		_, _ = w.Write([]byte(`{"id": "job-1", "status": "inprogress"}`))
	})

	job, err := client.Publishing().GetJob(context.Background(), "job-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "/content/management/api/v1.1/publish/jobs/job-1", gotPath)
	assert.Equal(t, cms.JobInProgress, job.Status)
	assert.False(t, job.Status.Terminal())
}

func TestPublishing_PollJob_CompletesOnTerminalState(t *testing.T) {
	t.Parallel()

	responses := []string{
		`{"id": "job-1", "status": "pending"}`,
		`{"id": "job-1", "status": "inprogress"}`,
		`{"id": "job-1", "status": "complete"}`,
	}

	calls := 0

	client, _ := newTestClient(t, &cms.Config{AccessToken: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(responses[calls]))
		calls++
	})

	job, err := client.Publishing().PollJob(context.Background(), "job-1", nil, &cms.PollOptions{
		Interval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, cms.JobComplete, job.Status)
	assert.Equal(t, 3, calls)
}

func TestPublishing_PollJob_FailedJob(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, &cms.Config{AccessToken: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": "job-1",
			"status": "failed",
			"errors": [
				{"title": "Validation", "detail": "item item-1 is not publishable"},
				{"title": "Validation", "detail": "channel web is closed"}
			]
		}`))
	})

	job, err := client.Publishing().PollJob(context.Background(), "job-1", nil, &cms.PollOptions{
		Interval: time.Millisecond,
	})
	require.ErrorIs(t, err, cms.ErrJobFailed)
	assert.Contains(t, err.Error(), "item item-1 is not publishable; channel web is closed")

	// The failed job is still returned for inspection.
	require.NotNil(t, job)
	assert.Equal(t, cms.JobFailed, job.Status)
}

func TestPublishing_PollJob_AttemptBudget(t *testing.T) {
	t.Parallel()

	calls := 0

	client, _ := newTestClient(t, &cms.Config{AccessToken: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"id": "job-1", "status": "inprogress"}`))
	})

	_, err := client.Publishing().PollJob(context.Background(), "job-1", nil, &cms.PollOptions{
		Attempts: cms.Attempts(2),
		Interval: time.Millisecond,
	})
	require.ErrorIs(t, err, cms.ErrPollingNotCompleted)
	assert.Equal(t, 2, calls)
}

func TestPublishing_SubmitAsync(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, &cms.Config{AccessToken: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "job-1", "status": "pending"}`))
	})

	result := <-client.Publishing().SubmitAsync(context.Background(), nil, &cms.PublishJobRequest{
		Operation: "publish",
		Items:     []string{"item-1"},
	})
	require.NoError(t, result.Err)
	assert.Equal(t, "job-1", result.Value.ID)
}
