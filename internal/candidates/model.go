package candidates

import (
	"time"

	"hiring-backend/internal/parsing"
)

// Pipeline statuses, in board order.
const (
	StatusApplied            = "Applied"
	StatusScreening          = "Screening"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusOffer              = "Offer"
	StatusHired              = "Hired"
	StatusRejected           = "Rejected"
)

// Resume parse lifecycle.
const (
	ParseStatusNone       = ""
	ParseStatusPending    = "pending"
	ParseStatusProcessing = "processing"
	ParseStatusCompleted  = "completed"
	ParseStatusFailed     = "failed"
)

// Classified parse failure codes stored in ParseError. The raw error
// goes to the log, never the row.
const (
	ParseErrExtract   = "extract_failed"
	ParseErrEmptyText = "empty_text"
	ParseErrStore     = "store_failed"
	ParseErrEnqueue   = "enqueue_failed"
)

// Candidate is one person in the hiring pipeline. Contact fields are
// promoted out of the parsed profile so they stay editable and
// queryable on their own; Profile keeps the full extraction output.
type Candidate struct {
	ID             string
	OwnerID        string
	Name           string
	Email          string
	Phone          string
	Location       string
	Status         string
	ResumeKey      string
	ResumeFilename string
	ResumeSource   string
	ParseStatus    string
	ParseError     string
	Profile        *parsing.Result
	ParsedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Skills returns the parsed skill list, nil until a parse completed.
// The distinction matters to the matcher, which rejects nil outright.
func (c Candidate) Skills() []string {
	if c.Profile == nil {
		return nil
	}
	return c.Profile.Skills
}

// StatusEvent records one pipeline transition for audit history.
type StatusEvent struct {
	ID          string
	CandidateID string
	FromStatus  string
	ToStatus    string
	Note        string
	UpdatedBy   string
	CreatedAt   time.Time
}

var pipelineStatuses = []string{
	StatusApplied,
	StatusScreening,
	StatusInterviewScheduled,
	StatusOffer,
	StatusHired,
	StatusRejected,
}

// PipelineStatuses returns every pipeline status in board order.
func PipelineStatuses() []string {
	out := make([]string, len(pipelineStatuses))
	copy(out, pipelineStatuses)
	return out
}

// ValidStatus reports whether s is a known pipeline status.
func ValidStatus(s string) bool {
	for _, known := range pipelineStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// statusTransitions allows forward moves, including fast-tracking past
// intermediate stages. Hired and Rejected are terminal.
var statusTransitions = map[string][]string{
	StatusApplied:            {StatusScreening, StatusInterviewScheduled, StatusRejected},
	StatusScreening:          {StatusInterviewScheduled, StatusRejected},
	StatusInterviewScheduled: {StatusOffer, StatusHired, StatusRejected},
	StatusOffer:              {StatusHired, StatusRejected},
	StatusHired:              {},
	StatusRejected:           {},
}

// ValidTransition reports whether a candidate may move from one
// pipeline status to another.
func ValidTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}
