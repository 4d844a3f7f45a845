package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/meridian-io/cms/internal/constants"
	"github.com/meridian-io/cms/pkg/cms"
)

// PublishingClient implements cms.PublishingClient. All operations run
// in the management scope and keep the Authorization header.
type PublishingClient struct {
	c *Client
}

// Submit implements cms.PublishingClient.Submit.
func (p *PublishingClient) Submit(ctx context.Context, req *cms.Request, job *cms.PublishJobRequest) (*cms.PublishJob, error) {
	if job == nil || job.Operation == "" || len(job.Items) == 0 {
		return nil, fmt.Errorf("%w: publish job needs an operation and items", cms.ErrInvalidRequest)
	}

	req = managementRequest(req)

	return submit[cms.PublishJob](ctx, p.c, req, "publish/jobs", job)
}

// SubmitAsync implements cms.PublishingClient.SubmitAsync.
func (p *PublishingClient) SubmitAsync(ctx context.Context, req *cms.Request, job *cms.PublishJobRequest) <-chan cms.Result[*cms.PublishJob] {
	return cms.Async(ctx, func(ctx context.Context) (*cms.PublishJob, error) {
		return p.Submit(ctx, req, job)
	})
}

// SubmitCallback implements cms.PublishingClient.SubmitCallback.
func (p *PublishingClient) SubmitCallback(ctx context.Context, req *cms.Request, job *cms.PublishJobRequest, cb cms.Callback[*cms.PublishJob]) {
	cms.Notify(ctx, func(ctx context.Context) (*cms.PublishJob, error) {
		return p.Submit(ctx, req, job)
	}, cb)
}

// GetJob implements cms.PublishingClient.GetJob.
func (p *PublishingClient) GetJob(ctx context.Context, jobID string, req *cms.Request) (*cms.PublishJob, error) {
	if err := requireID("job id", jobID); err != nil {
		return nil, err
	}

	req = managementRequest(req)

	return fetchOne[cms.PublishJob](ctx, p.c, req, "publish/jobs/"+url.PathEscape(jobID))
}

// PollJob implements cms.PublishingClient.PollJob: the job is fetched on
// the parsed-poll cadence until it reaches a terminal state. When the
// caller bounds neither attempts nor time, a default timeout applies so
// an abandoned job cannot poll forever.
func (p *PublishingClient) PollJob(ctx context.Context, jobID string, req *cms.Request, opts *cms.PollOptions) (*cms.PublishJob, error) {
	if err := requireID("job id", jobID); err != nil {
		return nil, err
	}

	attempts, interval, timeout := pollSettings(opts)
	if attempts == nil && timeout == 0 {
		timeout = constants.DefaultJobPollTimeout
	}

	ctx, cancel := withPollTimeout(ctx, timeout)
	defer cancel()

	job, err := retryPoll(ctx, attempts, interval, func(ctx context.Context) (*cms.PublishJob, error) {
		job, err := p.GetJob(ctx, jobID, req)
		if err != nil {
			return nil, err
		}

		if !job.Status.Terminal() {
			return nil, cms.ErrPollingNotCompleted
		}

		return job, nil
	})
	if err != nil {
		return nil, err
	}

	if job.Status == cms.JobFailed {
		return job, fmt.Errorf("%w: %s", cms.ErrJobFailed, formatJobErrors(job))
	}

	return job, nil
}

// managementRequest pins the request to the management scope without
// touching the caller's other parameters.
func managementRequest(req *cms.Request) *cms.Request {
	if req == nil {
		req = cms.NewRequest()
	}

	return req.WithScope(cms.ScopeManagement)
}

// formatJobErrors formats job errors for display.
func formatJobErrors(job *cms.PublishJob) string {
	if len(job.Errors) == 0 {
		if job.Message != "" {
			return job.Message
		}

		return "no error details available"
	}

	details := make([]string, 0, len(job.Errors))
	for _, jobErr := range job.Errors {
		details = append(details, jobErr.Detail)
	}

	return strings.Join(details, "; ")
}
