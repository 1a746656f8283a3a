package analytics

import "time"

// Activity feed entry types.
const (
	ActivityCandidateApplied   = "candidate_applied"
	ActivityInterviewScheduled = "interview_scheduled"
)

// Totals counts an owner's primary records.
type Totals struct {
	Jobs       int `json:"jobs"`
	Candidates int `json:"candidates"`
	Interviews int `json:"interviews"`
}

// Activity is one line in the recent-activity feed.
type Activity struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SkillCount reports how many parsed candidates list a skill.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// SuccessMetrics summarizes how the pipeline is converting.
type SuccessMetrics struct {
	// InterviewRate is interviews per candidate as a percentage,
	// rounded to one decimal.
	InterviewRate float64 `json:"interviewRate"`
	ActiveJobs    int     `json:"activeJobs"`
	// AvgMatchScore averages every stored match score, one decimal.
	AvgMatchScore float64 `json:"avgMatchScore"`
}

// Dashboard is the aggregate snapshot served to the overview page.
type Dashboard struct {
	Totals         Totals         `json:"totals"`
	PipelineStats  map[string]int `json:"pipelineStats"`
	RecentActivity []Activity     `json:"recentActivity"`
	TopSkills      []SkillCount   `json:"topSkills"`
	SuccessMetrics SuccessMetrics `json:"successMetrics"`
}
