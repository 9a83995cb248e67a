// Package matcher calls the external matching service: it posts a resume
// file and decodes the returned job list. The service is a webhook with a
// loose contract, so three response shapes are accepted; anything else is a
// hard failure.
package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
	"github.com/resumodo/jobmatch/internal/models"
	"github.com/resumodo/jobmatch/internal/normalizer"
	"golang.org/x/time/rate"
)

// ErrUnexpectedFormat means the response JSON matched none of the accepted
// shapes: a bare job array, an object with a "jobs" array, or a single
// job-like object.
var ErrUnexpectedFormat = errors.New("unexpected response format from matcher")

// NetworkError covers transport failures and non-success statuses from the
// matching call. The core never retries; the caller decides.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("matcher request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("matcher request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient  HTTPClient
	webhookURL  string
	rateLimiter *rate.Limiter
}

func NewClient(webhookURL string) *Client {
	return &Client{httpClient: &http.Client{}, webhookURL: webhookURL}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// MatchResume posts the file as a multipart body under field name "data"
// and returns the normalized job records. The call is one-shot: no retry,
// no cancellation beyond ctx.
func (c *Client) MatchResume(ctx context.Context, filename string, file io.Reader) ([]models.JobRecord, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("data", filename)
	if err != nil {
		return nil, fmt.Errorf("error building multipart body: %v", err)
	}
	if _, err = io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("error copying file into request: %v", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("error finalizing multipart body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, &body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := c.handleResponse(resp)
	if err != nil {
		return nil, err
	}

	raw, err := decodeJobs(payload)
	if err != nil {
		return nil, err
	}
	return normalizer.Jobs(raw), nil
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("body: %v", string(payload)),
		}
	}
	return payload, nil
}

// decodeJobs classifies the response into one of the three accepted shapes
// and flattens it to a list of raw job objects.
func decodeJobs(payload []byte) ([]map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, errors.Wrap(ErrUnexpectedFormat, err.Error())
	}

	switch value := decoded.(type) {
	case []any:
		return rawJobs(value), nil
	case map[string]any:
		if jobs, ok := value["jobs"].([]any); ok {
			return rawJobs(jobs), nil
		}
		if looksLikeJob(value) {
			return []map[string]any{value}, nil
		}
	}
	return nil, errors.Wrap(ErrUnexpectedFormat, "response is neither a job array, a jobs object nor a single job")
}

func rawJobs(items []any) []map[string]any {
	jobs := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if job, ok := item.(map[string]any); ok {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

func looksLikeJob(value map[string]any) bool {
	if _, ok := value["job_id"]; ok {
		return true
	}
	_, hasTitle := value["title"]
	_, hasCompany := value["company"]
	return hasTitle && hasCompany
}
