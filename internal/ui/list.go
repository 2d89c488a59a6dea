package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/convx/internal/models"
)

var _ list.Item = jobItem{}

// jobItem wraps [models.Job] to implement [list.Item].
type jobItem struct {
	job models.Job
}

func (i jobItem) FilterValue() string { return i.job.InputFilename }
func (i jobItem) Title() string {
	return fmt.Sprintf("%s (%s → %s)", i.job.InputFilename, i.job.InputFormat, i.job.OutputFormat)
}
func (i jobItem) Description() string {
	desc := fmt.Sprintf("%s • %d%%", i.job.Status, i.job.Progress)
	if i.job.ErrorMessage != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.job.ErrorMessage)
	}
	return desc
}
