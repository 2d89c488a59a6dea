// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/convx/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MemorySessionRepo is an in-memory session.Repository for tests.
type MemorySessionRepo struct {
	mu      sync.Mutex
	sess    models.Session
	live    bool
	SaveErr error
	LoadErr error
}

func (r *MemorySessionRepo) Save(sess models.Session) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sess = sess
	r.live = true
	return nil
}

func (r *MemorySessionRepo) Load() (models.Session, bool, error) {
	if r.LoadErr != nil {
		return models.Session{}, false, r.LoadErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess, r.live, nil
}

func (r *MemorySessionRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sess = models.Session{}
	r.live = false
	return nil
}

// Stored reports the persisted session and whether one exists.
func (r *MemorySessionRepo) Stored() (models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess, r.live
}

// StubLister is a scripted tasks.JobLister: each List call pops the next
// result; the last result repeats once the script is exhausted.
type StubLister struct {
	mu      sync.Mutex
	Results [][]models.Job
	Errs    []error
	Calls   int
}

func (s *StubLister) List(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.Calls
	s.Calls++

	if len(s.Errs) > 0 {
		if idx >= len(s.Errs) {
			idx = len(s.Errs) - 1
		}
		if err := s.Errs[idx]; err != nil {
			return nil, err
		}
	}

	if len(s.Results) == 0 {
		return nil, nil
	}
	if idx >= len(s.Results) {
		idx = len(s.Results) - 1
	}
	out := make([]models.Job, len(s.Results[idx]))
	copy(out, s.Results[idx])
	return out, nil
}

// CallCount reports how many times List has been invoked.
func (s *StubLister) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

var _ io.ReadCloser = (*FCloser)(nil)
