// package tasks implements the job polling engine.
//
// The core abstraction is Poller, which repeatedly fetches the job collection
// and replaces its in-memory snapshot wholesale on each successful tick.
// Updates are emitted via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/convx/internal/models"
	"golang.org/x/time/rate"
)

// DefaultInterval is the client-chosen polling cadence.
const DefaultInterval = 3 * time.Second

// JobLister fetches the job collection filtered by status.
// This abstraction allows for easier testing and decoupling from the
// concrete HTTP client.
type JobLister interface {
	List(ctx context.Context, status models.JobStatus) ([]models.Job, error)
}

// PollOptions configures one polling cycle.
type PollOptions struct {
	Filter    models.JobStatus // Status filter, StatusAll for unfiltered
	Interval  time.Duration    // Tick cadence (default: DefaultInterval)
	RateLimit float64          // Max fetches per second (default: 5)

	// StopWhenSettled disarms the cycle once a snapshot contains only
	// terminal jobs, instead of polling indefinitely.
	StopWhenSettled bool
}

// Poller continuously synchronizes a local job snapshot with server state.
//
// The engine is either idle or polling. At most one cycle is armed at a
// time: starting a new cycle disarms the previous one first, and a response
// from a disarmed cycle is discarded rather than applied. Ticks within one
// cycle are serialized, so an older response can never overwrite a newer one.
type Poller struct {
	jobs JobLister

	mu       sync.Mutex
	snapshot []models.Job
	gen      int
	cancel   context.CancelFunc
	running  bool
}

// NewPoller creates an idle Poller reading jobs from lister.
func NewPoller(lister JobLister) *Poller {
	return &Poller{jobs: lister}
}

// Running reports whether a polling cycle is armed.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Snapshot returns a copy of the last good job snapshot.
func (p *Poller) Snapshot() []models.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Job, len(p.snapshot))
	copy(out, p.snapshot)
	return out
}

// Start arms a polling cycle. A cycle already in flight is disarmed first,
// so changing the filter restarts cleanly without two ticking cycles alive.
// Updates are sent to progress without blocking; a nil channel is allowed.
func (p *Poller) Start(ctx context.Context, progress chan<- PollUpdate, opts PollOptions) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Filter == "" {
		opts.Filter = models.StatusAll
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	tickCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.mu.Unlock()

	go p.run(tickCtx, gen, progress, opts)
}

// Stop disarms the current cycle. After Stop returns no further snapshot
// mutation occurs, including from a tick already in flight.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disarmLocked()
}

func (p *Poller) disarmLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.running = false
}

// run executes ticks until the cycle is disarmed. The first tick fires
// immediately; subsequent ticks wait out the interval. Fetch and apply are
// sequential within the goroutine, so ticks never overlap.
func (p *Poller) run(ctx context.Context, gen int, progress chan<- PollUpdate, opts PollOptions) {
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		if done := p.tick(ctx, gen, progress, opts); done {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick performs one fetch-and-replace cycle. Returns true when the cycle
// should end (disarmed, context cancelled, or settled).
func (p *Poller) tick(ctx context.Context, gen int, progress chan<- PollUpdate, opts PollOptions) bool {
	jobs, err := p.jobs.List(ctx, opts.Filter)
	if ctx.Err() != nil {
		return true
	}

	if err != nil {
		// Keep the last good snapshot; an empty list would read as "no jobs".
		sendUpdate(progress, warningUpdate(err))
		return false
	}

	if !p.apply(gen, jobs) {
		return true
	}
	sendUpdate(progress, snapshotUpdate(jobs))

	if opts.StopWhenSettled && settled(jobs) {
		p.mu.Lock()
		if p.gen == gen {
			p.disarmLocked()
		}
		p.mu.Unlock()
		sendUpdate(progress, settledUpdate(jobs))
		return true
	}

	return false
}

// apply replaces the snapshot wholesale iff the cycle is still current.
func (p *Poller) apply(gen int, jobs []models.Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return false
	}
	p.snapshot = jobs
	return true
}

// settled reports whether every job in the snapshot is terminal.
func settled(jobs []models.Job) bool {
	for _, job := range jobs {
		if !job.Status.Terminal() {
			return false
		}
	}
	return true
}

// Summary aggregates a job snapshot by status.
type Summary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Cancelled  int
}

// Summarize counts jobs per status for dashboard-style output.
func Summarize(jobs []models.Job) Summary {
	s := Summary{Total: len(jobs)}
	for _, job := range jobs {
		switch job.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusProcessing:
			s.Processing++
		case models.StatusCompleted:
			s.Completed++
		case models.StatusFailed:
			s.Failed++
		case models.StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}
