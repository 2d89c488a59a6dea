// package formatter provides functions to export job listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/convx/internal/models"
)

// ExportToCSV converts a job listing to CSV format with columns: ID, File, From, To, Status, Progress, Created
func ExportToCSV(jobs []models.Job) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "File", "From", "To", "Status", "Progress", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, job := range jobs {
		record := []string{
			job.ID,
			job.InputFilename,
			job.InputFormat,
			job.OutputFormat,
			string(job.Status),
			strconv.Itoa(job.Progress),
			job.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a job listing to a Markdown table.
func ExportToMarkdown(jobs []models.Job) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Conversion Jobs\n\n")
	buf.WriteString(fmt.Sprintf("**Jobs**: %d\n\n", len(jobs)))

	buf.WriteString("| ID | File | Conversion | Status | Progress |\n")
	buf.WriteString("|----|------|------------|--------|----------|\n")
	for _, job := range jobs {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s → %s | %s | %d%% |\n",
			job.ID, job.InputFilename, job.InputFormat, job.OutputFormat, job.Status, job.Progress))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a job listing to plain text format.
func ExportToText(jobs []models.Job) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Jobs: %d\n\n", len(jobs)))
	for i, job := range jobs {
		buf.WriteString(fmt.Sprintf("%d. %s  %s (%s → %s)  %s %d%%\n",
			i+1, job.ID, job.InputFilename, job.InputFormat, job.OutputFormat, job.Status, job.Progress))
		if job.ErrorMessage != "" {
			buf.WriteString(fmt.Sprintf("   error: %s\n", job.ErrorMessage))
		}
	}

	return buf.Bytes(), nil
}

// WriteExport writes a job listing to path, choosing the format from the file
// extension: .csv, .md/.markdown, or .txt. Returns the path written.
func WriteExport(jobs []models.Job, path string) (string, error) {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = ExportToCSV(jobs)
	case ".md", ".markdown":
		data, err = ExportToMarkdown(jobs)
	case ".txt", "":
		data, err = ExportToText(jobs)
	default:
		return "", fmt.Errorf("unsupported export extension %q, use csv, md or txt", filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}

	if filepath.Ext(path) == "" {
		path += ".txt"
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
