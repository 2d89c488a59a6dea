package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/convx/internal/models"
	"github.com/desertthunder/convx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	JobListView ViewState = iota
	ConfirmView
)

// JobClient performs job actions triggered from the TUI.
type JobClient interface {
	Cancel(ctx context.Context, id string) (models.Job, error)
	Download(ctx context.Context, id string) ([]byte, error)
}

// Options configures the initial polling cycle.
type Options struct {
	Filter    models.JobStatus
	Interval  time.Duration
	RateLimit float64
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	client   JobClient
	poller   *tasks.Poller
	opts     Options
	width    int
	height   int
	jobList  list.Model
	filter   models.JobStatus
	pending  *models.Job
	progress chan tasks.PollUpdate
	status   string
	warning  string
	err      error
	help     help.Model
	keys     keyMap
}

type pollUpdateMsg tasks.PollUpdate

type actionDoneMsg struct {
	message string
	err     error
}

// filterCycle is the order the f key steps through.
var filterCycle = []models.JobStatus{
	models.StatusAll,
	models.StatusPending,
	models.StatusProcessing,
	models.StatusCompleted,
	models.StatusFailed,
	models.StatusCancelled,
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, client JobClient, poller *tasks.Poller, opts Options) *Model {
	if opts.Filter == "" {
		opts.Filter = models.StatusAll
	}

	jobList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	jobList.Title = listTitle(opts.Filter)
	jobList.SetShowHelp(false)

	return &Model{
		ctx:    ctx,
		view:   JobListView,
		client: client,
		poller: poller,
		opts:   opts,
		filter: opts.Filter,
		// One channel for the lifetime of the model; restarting the cycle on a
		// filter change must not strand a pending read on an old channel.
		progress: make(chan tasks.PollUpdate, 16),
		jobList:  jobList,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init arms the polling cycle and begins consuming updates.
func (m *Model) Init() tea.Cmd {
	m.startPolling(m.filter)
	return m.waitForUpdate()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.jobList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case JobListView:
			return m.handleJobListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case pollUpdateMsg:
		update := tasks.PollUpdate(msg)
		switch update.Phase {
		case tasks.Warning:
			// The list keeps showing the last good snapshot.
			m.warning = update.Message
		case tasks.Snapshot, tasks.Settled:
			m.warning = ""
			m.setJobs(update.Jobs)
		}
		return m, m.waitForUpdate()

	case actionDoneMsg:
		m.status = msg.message
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.jobList, cmd = m.jobList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	default:
		return m.renderJobList()
	}
}

func (m *Model) handleJobListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.poller.Stop()
		return m, tea.Quit
	case "f":
		m.filter = nextFilter(m.filter)
		m.jobList.Title = listTitle(m.filter)
		m.startPolling(m.filter)
		return m, nil
	case "c":
		if job, ok := m.selectedJob(); ok {
			if job.Status.Terminal() {
				m.status = fmt.Sprintf("Job %s is already %s", job.ID, job.Status)
				return m, nil
			}
			m.pending = &job
			m.view = ConfirmView
		}
		return m, nil
	case "d":
		if job, ok := m.selectedJob(); ok {
			if job.Status != models.StatusCompleted {
				m.status = fmt.Sprintf("Job %s is %s, only completed jobs can be downloaded", job.ID, job.Status)
				return m, nil
			}
			return m, m.downloadJob(job)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.jobList, cmd = m.jobList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.pending = nil
		m.view = JobListView
		return m, nil
	case "y":
		job := m.pending
		m.pending = nil
		m.view = JobListView
		if job == nil {
			return m, nil
		}
		return m, m.cancelJob(*job)
	}
	return m, nil
}

// setJobs replaces the list contents wholesale with a fresh snapshot.
func (m *Model) setJobs(jobs []models.Job) {
	selected := m.jobList.Index()
	items := make([]list.Item, len(jobs))
	for i, job := range jobs {
		items[i] = jobItem{job: job}
	}
	m.jobList.SetItems(items)
	if selected < len(items) {
		m.jobList.Select(selected)
	}
}

func (m *Model) selectedJob() (models.Job, bool) {
	item := m.jobList.SelectedItem()
	if item == nil {
		return models.Job{}, false
	}
	ji, ok := item.(jobItem)
	return ji.job, ok
}

func (m *Model) startPolling(filter models.JobStatus) {
	m.poller.Start(m.ctx, m.progress, tasks.PollOptions{
		Filter:    filter,
		Interval:  m.opts.Interval,
		RateLimit: m.opts.RateLimit,
	})
}

func (m *Model) waitForUpdate() tea.Cmd {
	progress := m.progress
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return tea.Quit()
		case update := <-progress:
			return pollUpdateMsg(update)
		}
	}
}

// cancelJob requests a cancellation. The list is never patched locally, the
// next snapshot reflects the server's answer.
func (m *Model) cancelJob(job models.Job) tea.Cmd {
	return func() tea.Msg {
		cancelled, err := m.client.Cancel(m.ctx, job.ID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{message: fmt.Sprintf("Cancellation requested, server reports %s", cancelled.Status)}
	}
}

func (m *Model) downloadJob(job models.Job) tea.Cmd {
	return func() tea.Msg {
		data, err := m.client.Download(m.ctx, job.ID)
		if err != nil {
			return actionDoneMsg{err: err}
		}

		path := job.SuggestedFilename()
		if err := os.WriteFile(path, data, 0644); err != nil {
			return actionDoneMsg{err: fmt.Errorf("failed to write result: %w", err)}
		}
		return actionDoneMsg{message: fmt.Sprintf("Saved %d bytes to %s", len(data), path)}
	}
}

func (m *Model) renderJobList() string {
	helpKeys := []key.Binding{m.keys.filter, m.keys.cancel, m.keys.download, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var footer string
	if m.warning != "" {
		footer = styles.warn.Render(m.warning) + "\n"
	}
	if m.err != nil {
		footer += styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	} else if m.status != "" {
		footer += styles.ok.Render(m.status) + "\n"
	}

	return fmt.Sprintf("%s\n%s%s", m.jobList.View(), footer, helpView)
}

func (m *Model) renderConfirm() string {
	if m.pending == nil {
		return ""
	}

	title := styles.title.Render(fmt.Sprintf("Cancel job %s?", m.pending.ID))
	info := fmt.Sprintf("\nFile: %s (%s → %s)\nStatus: %s\n",
		m.pending.InputFilename, m.pending.InputFormat, m.pending.OutputFormat, m.pending.Status)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func nextFilter(current models.JobStatus) models.JobStatus {
	for i, status := range filterCycle {
		if status == current {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return models.StatusAll
}

func listTitle(filter models.JobStatus) string {
	if filter == models.StatusAll {
		return "Conversion Jobs"
	}
	return fmt.Sprintf("Conversion Jobs (%s)", filter)
}
