package models

import (
	"testing"

	"golang.org/x/oauth2"
)

func TestJobStatus(t *testing.T) {
	t.Run("Terminal", func(t *testing.T) {
		t.Run("completed, failed and cancelled are terminal", func(t *testing.T) {
			for _, status := range []JobStatus{StatusCompleted, StatusFailed, StatusCancelled} {
				if !status.Terminal() {
					t.Errorf("expected %s to be terminal", status)
				}
			}
		})

		t.Run("pending and processing are active", func(t *testing.T) {
			for _, status := range []JobStatus{StatusPending, StatusProcessing} {
				if status.Terminal() {
					t.Errorf("expected %s to be active", status)
				}
			}
		})
	})

	t.Run("ParseJobStatus", func(t *testing.T) {
		t.Run("empty and all resolve to the unfiltered sentinel", func(t *testing.T) {
			for _, input := range []string{"", "all", "All", "  ALL  "} {
				status, err := ParseJobStatus(input)
				if err != nil {
					t.Fatalf("expected no error for %q, got %v", input, err)
				}
				if status != StatusAll {
					t.Errorf("expected StatusAll for %q, got %s", input, status)
				}
			}
		})

		t.Run("normalizes case and whitespace", func(t *testing.T) {
			status, err := ParseJobStatus(" Completed ")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if status != StatusCompleted {
				t.Errorf("expected completed, got %s", status)
			}
		})

		t.Run("rejects unknown statuses", func(t *testing.T) {
			if _, err := ParseJobStatus("exploded"); err == nil {
				t.Error("expected error for unknown status")
			}
		})
	})
}

func TestJob(t *testing.T) {
	t.Run("SuggestedFilename", func(t *testing.T) {
		t.Run("prefers the server-reported output name", func(t *testing.T) {
			job := Job{InputFilename: "report.docx", OutputFilename: "report.pdf", OutputFormat: "pdf"}
			if got := job.SuggestedFilename(); got != "report.pdf" {
				t.Errorf("expected report.pdf, got %s", got)
			}
		})

		t.Run("derives from the input name when absent", func(t *testing.T) {
			job := Job{InputFilename: "report.docx", OutputFormat: "PDF"}
			if got := job.SuggestedFilename(); got != "report.pdf" {
				t.Errorf("expected report.pdf, got %s", got)
			}
		})

		t.Run("handles names without an extension", func(t *testing.T) {
			job := Job{InputFilename: "report", OutputFormat: "pdf"}
			if got := job.SuggestedFilename(); got != "report.pdf" {
				t.Errorf("expected report.pdf, got %s", got)
			}
		})
	})
}

func TestSession(t *testing.T) {
	valid := Session{
		Token:    oauth2.Token{AccessToken: "tok", TokenType: "Bearer"},
		Identity: Identity{Email: "user@example.com"},
	}

	t.Run("Live", func(t *testing.T) {
		if !valid.Live() {
			t.Error("expected session with token to be live")
		}
		if (Session{}).Live() {
			t.Error("expected empty session to not be live")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("accepts a paired session", func(t *testing.T) {
			if err := valid.Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("accepts an empty session", func(t *testing.T) {
			if err := (Session{}).Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("rejects a token without an identity", func(t *testing.T) {
			sess := Session{Token: oauth2.Token{AccessToken: "tok"}}
			if err := sess.Validate(); err == nil {
				t.Error("expected error for unpaired token")
			}
		})

		t.Run("rejects an identity without a token", func(t *testing.T) {
			sess := Session{Identity: Identity{Email: "user@example.com"}}
			if err := sess.Validate(); err == nil {
				t.Error("expected error for unpaired identity")
			}
		})
	})
}

func TestIdentity(t *testing.T) {
	t.Run("IsAdmin", func(t *testing.T) {
		if !(Identity{Role: "admin"}).IsAdmin() {
			t.Error("expected admin role to report admin")
		}
		if (Identity{Role: "user"}).IsAdmin() {
			t.Error("expected user role to not report admin")
		}
	})
}
