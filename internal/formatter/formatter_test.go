package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/convx/internal/models"
)

func sampleJobs() []models.Job {
	created := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	return []models.Job{
		{
			ID:            "job-1",
			InputFilename: "report.docx",
			InputFormat:   "docx",
			OutputFormat:  "pdf",
			Status:        models.StatusCompleted,
			Progress:      100,
			CreatedAt:     created,
		},
		{
			ID:            "job-2",
			InputFilename: "track.wav",
			InputFormat:   "wav",
			OutputFormat:  "mp3",
			Status:        models.StatusFailed,
			Progress:      40,
			ErrorMessage:  "encoder crashed",
			CreatedAt:     created,
		},
	}
}

func TestExportToCSV(t *testing.T) {
	t.Run("writes a header and one record per job", func(t *testing.T) {
		data, err := ExportToCSV(sampleJobs())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header plus 2 records, got %d rows", len(records))
		}
		if records[0][0] != "ID" {
			t.Errorf("unexpected header: %v", records[0])
		}
		if records[1][0] != "job-1" || records[1][4] != "completed" {
			t.Errorf("unexpected first record: %v", records[1])
		}
	})

	t.Run("empty listing yields only the header", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 1 {
			t.Errorf("expected a single header line, got %d", len(lines))
		}
	})
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("renders a table with every job", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleJobs())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		text := string(data)
		if !strings.Contains(text, "# Conversion Jobs") {
			t.Error("expected a title")
		}
		if !strings.Contains(text, "| job-1 |") || !strings.Contains(text, "| job-2 |") {
			t.Errorf("expected both jobs in the table, got:\n%s", text)
		}
	})
}

func TestExportToText(t *testing.T) {
	t.Run("includes error messages", func(t *testing.T) {
		data, err := ExportToText(sampleJobs())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		text := string(data)
		if !strings.Contains(text, "encoder crashed") {
			t.Errorf("expected the failure reason, got:\n%s", text)
		}
		if !strings.Contains(text, "wav → mp3") {
			t.Errorf("expected the conversion pair, got:\n%s", text)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("chooses the format from the extension", func(t *testing.T) {
		for _, ext := range []string{".csv", ".md", ".txt"} {
			path := filepath.Join(t.TempDir(), "jobs"+ext)

			written, err := WriteExport(sampleJobs(), path)
			if err != nil {
				t.Fatalf("export to %s failed: %v", ext, err)
			}
			if written != path {
				t.Errorf("expected %s, got %s", path, written)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected file at %s: %v", path, err)
			}
		}
	})

	t.Run("missing extension defaults to text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jobs")

		written, err := WriteExport(sampleJobs(), path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasSuffix(written, ".txt") {
			t.Errorf("expected a .txt suffix, got %s", written)
		}
	})

	t.Run("rejects unknown extensions", func(t *testing.T) {
		if _, err := WriteExport(sampleJobs(), "jobs.xlsx"); err == nil {
			t.Error("expected error for unsupported extension")
		}
	})
}
