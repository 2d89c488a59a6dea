package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/convx/internal/models"
	"github.com/desertthunder/convx/internal/shared"
)

// JobsService submits conversion jobs and reads/acts on the job collection.
type JobsService struct {
	client *Client
}

// NewJobsService creates a JobsService on the shared transport.
func NewJobsService(client *Client) *JobsService {
	return &JobsService{client: client}
}

// List fetches the job collection, following pagination, optionally filtered
// by status. The returned slice is a single consistent server read; jobs not
// matching the requested filter are dropped even if a misbehaving server
// includes them.
func (s *JobsService) List(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	query := url.Values{}
	if status != models.StatusAll && status != "" {
		query.Set("status", string(status))
	}

	var jobs []models.Job
	path := "/jobs/"

	for {
		payload, err := s.client.GetWithQuery(ctx, path, query)
		if err != nil {
			return nil, err
		}

		var page models.JobPage
		if err := payload.Decode(&page); err != nil {
			return nil, err
		}

		for _, job := range page.Results {
			if status != models.StatusAll && status != "" && job.Status != status {
				continue
			}
			jobs = append(jobs, job)
		}

		if page.Next == nil || *page.Next == "" {
			break
		}

		next, err := url.Parse(*page.Next)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pagination link: %v", shared.ErrDecode, err)
		}
		path = next.Path
		if prefix := s.client.BaseURL(); strings.HasPrefix(path, basePath(prefix)) {
			path = strings.TrimPrefix(path, basePath(prefix))
		}
		query = next.Query()
	}

	return jobs, nil
}

// basePath extracts the path component of a base URL for pagination trimming.
func basePath(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

// Get fetches a single job by ID.
func (s *JobsService) Get(ctx context.Context, id string) (models.Job, error) {
	payload, err := s.client.Get(ctx, "/jobs/"+id+"/")
	if err != nil {
		return models.Job{}, err
	}

	var job models.Job
	if err := payload.Decode(&job); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// Submit validates a file and format pair client-side, uploads the file, and
// returns the created job (initial status pending).
//
// Each precondition produces a distinct validation failure before any network
// call. Whether the formats are members of the catalog is NOT checked here;
// that validation is authoritative server-side, and the CLI surfaces unknown
// formats as advisory warnings only.
func (s *JobsService) Submit(ctx context.Context, filePath, inputFormat, outputFormat string) (models.Job, error) {
	if filePath == "" {
		return models.Job{}, fmt.Errorf("%w: no file selected", shared.ErrValidation)
	}
	if strings.TrimSpace(inputFormat) == "" {
		return models.Job{}, fmt.Errorf("%w: input format is required", shared.ErrValidation)
	}
	if strings.TrimSpace(outputFormat) == "" {
		return models.Job{}, fmt.Errorf("%w: output format is required", shared.ErrValidation)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return models.Job{}, fmt.Errorf("%w: cannot open %s: %v", shared.ErrValidation, filePath, err)
	}
	defer file.Close()

	fields := map[string]string{
		"inputFormat":  strings.ToLower(strings.TrimSpace(inputFormat)),
		"outputFormat": strings.ToLower(strings.TrimSpace(outputFormat)),
	}

	payload, err := s.client.Upload(ctx, "/conversions/upload/", filepath.Base(filePath), file, fields)
	if err != nil {
		return models.Job{}, err
	}

	var job models.Job
	if err := payload.Decode(&job); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// Cancel requests cancellation of a job. The caller is responsible for the
// non-terminal precondition; the cached job list is never mutated locally,
// the next poll reflects the cancelled state.
func (s *JobsService) Cancel(ctx context.Context, id string) (models.Job, error) {
	payload, err := s.client.Post(ctx, "/jobs/"+id+"/cancel/", nil)
	if err != nil {
		return models.Job{}, err
	}

	var job models.Job
	if err := payload.Decode(&job); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// Download fetches the binary result of a completed job. The result is
// immutable server-side, so repeated downloads return identical bytes.
func (s *JobsService) Download(ctx context.Context, id string) ([]byte, error) {
	payload, err := s.client.Get(ctx, "/jobs/"+id+"/download/")
	if err != nil {
		return nil, err
	}

	if payload.Kind != PayloadBinary {
		return nil, fmt.Errorf("%w: expected a binary result, got content type %q", shared.ErrDecode, payload.Headers.Get("Content-Type"))
	}

	return payload.Body, nil
}
