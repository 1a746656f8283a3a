package interviews

import "time"

// InterviewResponse is the outward-facing representation of an
// interview.
type InterviewResponse struct {
	InterviewID     string    `json:"interviewId"`
	CandidateID     string    `json:"candidateId"`
	JobID           string    `json:"jobId"`
	CandidateName   string    `json:"candidateName"`
	JobTitle        string    `json:"jobTitle"`
	Interviewer     string    `json:"interviewer"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Type            string    `json:"type"`
	Location        string    `json:"location"`
	MeetingLink     string    `json:"meetingLink"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toResponse(iv Interview) InterviewResponse {
	return InterviewResponse{
		InterviewID:     iv.ID,
		CandidateID:     iv.CandidateID,
		JobID:           iv.JobID,
		CandidateName:   iv.CandidateName,
		JobTitle:        iv.JobTitle,
		Interviewer:     iv.Interviewer,
		ScheduledAt:     iv.ScheduledAt,
		DurationMinutes: iv.DurationMinutes,
		Type:            iv.Type,
		Location:        iv.Location,
		MeetingLink:     iv.MeetingLink,
		Status:          iv.Status,
		Notes:           iv.Notes,
		CreatedAt:       iv.CreatedAt,
		UpdatedAt:       iv.UpdatedAt,
	}
}

// SlotsResponse lists the bookable start times for one date.
type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type scheduleRequest struct {
	CandidateID     string    `json:"candidateId" binding:"required"`
	JobID           string    `json:"jobId" binding:"required"`
	Interviewer     string    `json:"interviewer" binding:"required,max=200"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"omitempty,min=15,max=480"`
	Type            string    `json:"type" binding:"required,oneof=phone video onsite"`
	Location        string    `json:"location" binding:"omitempty,max=200"`
	Notes           string    `json:"notes" binding:"omitempty,max=2000"`
}

type rescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}

type completeRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}
