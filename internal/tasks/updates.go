package tasks

import (
	"fmt"

	"github.com/desertthunder/convx/internal/models"
)

// PollUpdate represents one event emitted by a polling cycle.
//
// Used to send real-time updates to the CLI or UI layer for display.
type PollUpdate struct {
	Phase   PollPhase    // Event kind
	Jobs    []models.Job // Snapshot for Snapshot/Settled phases
	Err     error        // Transient failure for the Warning phase
	Message string       // Human-readable message for display
}

// Polling event phase enumeration
type PollPhase int

const (
	Snapshot PollPhase = iota // Snapshot replaced with a fresh server read
	Warning                   // Fetch failed, last good snapshot retained
	Settled                   // Every tracked job is terminal, cycle disarmed
)

func (p PollPhase) String() string {
	switch p {
	case Snapshot:
		return "snapshot"
	case Warning:
		return "warning"
	case Settled:
		return "settled"
	default:
		return ""
	}
}

// sendUpdate sends a poll update through the channel without blocking.
// Uses select with default so reporting never stalls the polling cycle.
func sendUpdate(progress chan<- PollUpdate, update PollUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func snapshotUpdate(jobs []models.Job) PollUpdate {
	return PollUpdate{
		Phase:   Snapshot,
		Jobs:    jobs,
		Message: fmt.Sprintf("Fetched %d jobs", len(jobs)),
	}
}

func warningUpdate(err error) PollUpdate {
	return PollUpdate{
		Phase:   Warning,
		Err:     err,
		Message: fmt.Sprintf("Poll failed, showing last known jobs: %v", err),
	}
}

func settledUpdate(jobs []models.Job) PollUpdate {
	return PollUpdate{
		Phase:   Settled,
		Jobs:    jobs,
		Message: "All jobs finished, polling stopped",
	}
}
