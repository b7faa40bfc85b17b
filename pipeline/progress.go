package pipeline

import (
	"fmt"
	"math"
	"time"
)

// Status is the lifecycle of one batch item. An item never transitions back
// once it reaches StatusCompleted or StatusError.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Phase is the lifecycle of one batch run.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseCompleted Phase = "completed"
	PhaseCancelled Phase = "cancelled"
	PhaseFailed    Phase = "failed"
)

// Item tracks the progress of a single image within a run. The item list is
// rebuilt at the start of every run, one entry per input image in input order.
type Item struct {
	// ImageIndex is the position in the batch, stable for the run.
	ImageIndex int
	// ImageName is the display label copied from the image record.
	ImageName string
	// Progress is an integer percent in [0,100], non-decreasing within the
	// item's lifecycle.
	Progress int
	// Status is the item's current lifecycle state.
	Status Status
}

// Snapshot is a consistent, read-only view of the run state for presentation.
// Result is shared with the pipeline and must not be modified.
type Snapshot struct {
	Processing      bool
	Phase           Phase
	Items           []Item
	OverallProgress int
	EstimatedTime   string
	Result          []byte
}

// formatETA renders the remaining-time display. frac is the completed
// fraction of the run in (0,1]; zero or negative yields no estimate.
func formatETA(elapsed time.Duration, frac float64) string {
	if frac <= 0 {
		return ""
	}
	rate := elapsed.Seconds() / frac
	remaining := rate * (1 - frac)
	if minutes := int(remaining / 60); minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, int(math.Round(math.Mod(remaining, 60))))
	}
	return fmt.Sprintf("%ds", int(math.Round(remaining)))
}
