package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/convx/internal/models"
	"github.com/desertthunder/convx/internal/shared"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestJobsService(t *testing.T) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		t.Run("fetches a single page", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/jobs/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"count": 2, "next": null, "previous": null,
					"results": [
						{"id": "j1", "status": "pending"},
						{"id": "j2", "status": "completed"}
					]
				}`))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))

			got, err := jobs.List(ctx, models.StatusAll)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 jobs, got %d", len(got))
			}
			if got[0].ID != "j1" || got[1].ID != "j2" {
				t.Errorf("unexpected jobs: %+v", got)
			}
		})

		t.Run("follows pagination links", func(t *testing.T) {
			var server *httptest.Server
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Query().Get("page") {
				case "":
					next := fmt.Sprintf("%s/jobs/?page=2", server.URL)
					fmt.Fprintf(w, `{"count": 3, "next": %q, "previous": null, "results": [
						{"id": "j1", "status": "pending"}, {"id": "j2", "status": "pending"}
					]}`, next)
				case "2":
					w.Write([]byte(`{"count": 3, "next": null, "previous": null, "results": [
						{"id": "j3", "status": "pending"}
					]}`))
				default:
					t.Errorf("unexpected page: %s", r.URL.Query().Get("page"))
				}
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))

			got, err := jobs.List(ctx, models.StatusAll)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("expected 3 jobs across pages, got %d", len(got))
			}
			if got[2].ID != "j3" {
				t.Errorf("expected j3 last, got %+v", got[2])
			}
		})

		t.Run("sends the status filter and drops mismatches", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("status") != "completed" {
					t.Errorf("expected status query, got %v", r.URL.Query())
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"count": 2, "next": null, "previous": null,
					"results": [
						{"id": "j1", "status": "completed"},
						{"id": "j2", "status": "pending"}
					]
				}`))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))

			got, err := jobs.List(ctx, models.StatusCompleted)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != 1 || got[0].ID != "j1" {
				t.Errorf("expected only the completed job, got %+v", got)
			}
		})

		t.Run("unfiltered listing sends no status parameter", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Has("status") {
					t.Errorf("expected no status query, got %v", r.URL.Query())
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"count": 0, "next": null, "previous": null, "results": []}`))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))
			if _, err := jobs.List(ctx, models.StatusAll); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Submit", func(t *testing.T) {
		t.Run("each missing precondition fails distinctly before the network", func(t *testing.T) {
			// Unroutable address: reaching the network would fail differently.
			jobs := NewJobsService(NewClient("http://127.0.0.1:1", nil, nil))

			cases := []struct {
				name             string
				file, from, to   string
				expectedFragment string
			}{
				{"missing file", "", "txt", "pdf", "no file selected"},
				{"missing input format", "something.txt", "", "pdf", "input format"},
				{"missing output format", "something.txt", "txt", "  ", "output format"},
			}

			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					_, err := jobs.Submit(ctx, tc.file, tc.from, tc.to)
					if !errors.Is(err, shared.ErrValidation) {
						t.Fatalf("expected ErrValidation, got %v", err)
					}
				})
			}
		})

		t.Run("unreadable file is a validation failure", func(t *testing.T) {
			jobs := NewJobsService(NewClient("http://127.0.0.1:1", nil, nil))

			_, err := jobs.Submit(ctx, filepath.Join(t.TempDir(), "missing.txt"), "txt", "pdf")
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})

		t.Run("uploads and returns the created job", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/conversions/upload/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					t.Errorf("failed to parse form: %v", err)
				}
				if r.FormValue("inputFormat") != "txt" || r.FormValue("outputFormat") != "pdf" {
					t.Errorf("unexpected formats: %s %s", r.FormValue("inputFormat"), r.FormValue("outputFormat"))
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id": "job-1", "status": "pending", "input_filename": "notes.txt"}`))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))
			path := writeTempFile(t, "notes.txt", "hello")

			// Formats arrive uppercase; the wire values must be normalized.
			job, err := jobs.Submit(ctx, path, "TXT", " PDF ")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if job.ID != "job-1" || job.Status != models.StatusPending {
				t.Errorf("unexpected job: %+v", job)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("fetches one job", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/jobs/job-1/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id": "job-1", "status": "processing", "progress": 40}`))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))

			job, err := jobs.Get(ctx, "job-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if job.Progress != 40 {
				t.Errorf("unexpected job: %+v", job)
			}
		})
	})

	t.Run("Cancel", func(t *testing.T) {
		t.Run("posts to the cancel endpoint", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/jobs/job-1/cancel/" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id": "job-1", "status": "cancelled"}`))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))

			job, err := jobs.Cancel(ctx, "job-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if job.Status != models.StatusCancelled {
				t.Errorf("expected cancelled status, got %s", job.Status)
			}
		})

		t.Run("terminal job rejection surfaces the server detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"detail": "job already finished"}`))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))

			if _, err := jobs.Cancel(ctx, "job-1"); !errors.Is(err, shared.ErrRequestFailed) {
				t.Errorf("expected ErrRequestFailed, got %v", err)
			}
		})
	})

	t.Run("Download", func(t *testing.T) {
		t.Run("returns the binary result", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/jobs/job-1/download/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/octet-stream")
				w.Write([]byte("converted-bytes"))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))

			data, err := jobs.Download(ctx, "job-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(data) != "converted-bytes" {
				t.Errorf("unexpected content: %q", data)
			}
		})

		t.Run("rejects a non-binary response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"detail": "not ready"}`))
			}))
			defer server.Close()

			jobs := NewJobsService(NewClient(server.URL, nil, authedStore(t)))

			if _, err := jobs.Download(ctx, "job-1"); !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	})
}
