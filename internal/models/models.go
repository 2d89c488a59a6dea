package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// JobStatus is the server-assigned lifecycle state of a conversion job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"

	// StatusAll is the sentinel filter value for an unfiltered job listing.
	StatusAll JobStatus = "all"
)

// Statuses lists every concrete job status in lifecycle order.
func Statuses() []JobStatus {
	return []JobStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled}
}

// Terminal reports whether no further transition occurs from this status.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a concrete job status.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseJobStatus normalizes and validates a status filter string.
// Empty input and "all" both resolve to [StatusAll].
func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(strings.ToLower(strings.TrimSpace(s)))
	if status == "" || status == StatusAll {
		return StatusAll, nil
	}
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// Job represents a single server-tracked conversion request.
// The server owns every field; the client holds a read-mostly copy that is
// replaced wholesale on each successful fetch, never field-patched.
type Job struct {
	ID             string     `json:"id"`
	User           string     `json:"user"`
	UserEmail      string     `json:"user_email"`
	InputFilename  string     `json:"input_filename"`
	OutputFilename string     `json:"output_filename"`
	InputFormat    string     `json:"input_format"`
	OutputFormat   string     `json:"output_format"`
	Status         JobStatus  `json:"status"`
	Progress       int        `json:"progress"`
	FileSize       int64      `json:"file_size"`
	ErrorMessage   string     `json:"error_message"`
	ToolUsed       string     `json:"tool_used"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// SuggestedFilename derives the download filename for a completed job.
// The server reports output_filename; older servers only send the input name,
// in which case the stem is re-suffixed with the output format.
func (j Job) SuggestedFilename() string {
	if j.OutputFilename != "" {
		return j.OutputFilename
	}
	stem := j.InputFilename
	if idx := strings.LastIndex(stem, "."); idx > 0 {
		stem = stem[:idx]
	}
	return stem + "." + strings.ToLower(j.OutputFormat)
}

// JobPage is the paginated envelope the jobs collection endpoint returns.
type JobPage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Job   `json:"results"`
}

// Identity represents the authenticated user's profile.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	StorageQuota int64     `json:"storage_quota"`
	StorageUsed  int64     `json:"storage_used"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

// StorageInfo reports storage quota usage for the current user.
type StorageInfo struct {
	Quota      int64   `json:"quota"`
	Used       int64   `json:"used"`
	Available  int64   `json:"available"`
	Percentage float64 `json:"percentage"`
}

// Session is the authenticated state a user currently holds: the bearer token
// pair plus the identity it was issued for. The access token is present iff
// the identity is present; a Session violating that is never constructed.
type Session struct {
	Token    oauth2.Token
	Identity Identity
}

// Live reports whether the session carries an access token.
func (s Session) Live() bool {
	return s.Token.AccessToken != ""
}

// Validate checks the access-token/identity pairing invariant.
func (s Session) Validate() error {
	if (s.Token.AccessToken == "") != (s.Identity.Email == "") {
		return fmt.Errorf("access token and identity must be set together")
	}
	return nil
}
