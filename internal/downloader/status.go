package downloader

// Phase is the orchestrator's position in a run.
type Phase string

const (
	PhaseIdle        Phase = "Idle"
	PhaseSearching   Phase = "Searching"
	PhaseDownloading Phase = "Downloading"
	PhaseDone        Phase = "Done"
	PhaseError       Phase = "Error"
)

func (p Phase) String() string {
	return string(p)
}

// IsTerminal returns true once a run can no longer make progress.
func (p Phase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseError
}

// Status is an immutable progress snapshot. A new snapshot is emitted
// before every resolve and every delivery, so observers always see a
// monotonically advancing index.
type Status struct {
	RunID string
	Index int
	Total int
	Label string
	Phase Phase
}

// Outcome tags the per-query result variants.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ItemResult records what happened to a single query.
type ItemResult struct {
	Query    string
	Outcome  Outcome
	Filename string
	Reason   string
	Err      error
}
