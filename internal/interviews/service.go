package interviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/jobs"
	"hiring-backend/internal/shared/metrics"
	"hiring-backend/internal/shared/telemetry"
)

// Service contains business logic for interview scheduling. LinkBase
// overrides the host used for generated meeting links.
type Service struct {
	Repo       InterviewsRepo
	Candidates *candidates.Service
	Jobs       jobs.JobsRepo
	LinkBase   string
}

// ScheduleInput carries the fields for a new interview booking.
type ScheduleInput struct {
	CandidateID     string
	JobID           string
	Interviewer     string
	ScheduledAt     time.Time
	DurationMinutes int
	Type            string
	Location        string
	Notes           string
}

// Schedule books an interview after confirming the interviewer has no
// other Scheduled interview within an hour of the start time. Booking
// moves the candidate to Interview Scheduled and hands out a meeting
// link.
func (s *Service) Schedule(ctx context.Context, ownerID string, in ScheduleInput) (Interview, error) {
	interviewer := strings.TrimSpace(in.Interviewer)
	if interviewer == "" {
		return Interview{}, fmt.Errorf("%w: interviewer is required", ErrInvalidInput)
	}
	if !ValidType(in.Type) {
		return Interview{}, fmt.Errorf("%w: unknown interview type %q", ErrInvalidInput, in.Type)
	}
	if !in.ScheduledAt.After(time.Now()) {
		return Interview{}, fmt.Errorf("%w: scheduledAt must be in the future", ErrInvalidInput)
	}
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = DefaultDurationMinutes
	}

	cand, err := s.Candidates.Get(ctx, ownerID, in.CandidateID)
	if err != nil {
		return Interview{}, fmt.Errorf("candidate: %w", err)
	}
	job, err := s.Jobs.GetByID(ctx, ownerID, in.JobID)
	if err != nil {
		return Interview{}, fmt.Errorf("job: %w", err)
	}

	if err := s.checkAvailability(ctx, ownerID, interviewer, in.ScheduledAt, ""); err != nil {
		return Interview{}, err
	}

	now := time.Now().UTC()
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = "Virtual"
	}
	iv := Interview{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		CandidateID:     cand.ID,
		JobID:           job.ID,
		CandidateName:   cand.Name,
		JobTitle:        job.Title,
		Interviewer:     interviewer,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Type:            in.Type,
		Location:        location,
		MeetingLink:     newMeetingLink(s.LinkBase),
		Status:          StatusScheduled,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, iv); err != nil {
		return Interview{}, err
	}
	metrics.IncInterviewScheduled()
	s.syncCandidateStatus(ctx, ownerID, cand.ID, interviewer)
	telemetry.Info("interview.scheduled", map[string]any{
		"interview_id": iv.ID,
		"candidate_id": cand.ID,
		"job_id":       job.ID,
		"interviewer":  interviewer,
		"scheduled_at": iv.ScheduledAt.Format(time.RFC3339),
	})
	return iv, nil
}

// Get returns one interview for an owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Interview, error) {
	return s.Repo.GetByID(ctx, ownerID, id)
}

// List returns an owner's interviews, filtered and paged.
func (s *Service) List(ctx context.Context, ownerID string, f ListFilter) ([]Interview, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	return s.Repo.List(ctx, ownerID, f)
}

// Reschedule moves a Scheduled interview to a new start time after
// re-checking the interviewer's availability. The interview's own slot
// does not block the move.
func (s *Service) Reschedule(ctx context.Context, ownerID, id string, newStart time.Time) (Interview, error) {
	if !newStart.After(time.Now()) {
		return Interview{}, fmt.Errorf("%w: scheduledAt must be in the future", ErrInvalidInput)
	}
	iv, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return Interview{}, err
	}
	if iv.Status != StatusScheduled {
		return Interview{}, fmt.Errorf("%w: cannot reschedule a %s interview", ErrInvalidState, strings.ToLower(iv.Status))
	}
	if err := s.checkAvailability(ctx, ownerID, iv.Interviewer, newStart, iv.ID); err != nil {
		return Interview{}, err
	}

	iv.ScheduledAt = newStart.UTC()
	iv.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, iv); err != nil {
		return Interview{}, err
	}
	return iv, nil
}

// Cancel calls off a scheduled interview. Cancelling twice is a no-op;
// a completed interview cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, ownerID, id string) (Interview, error) {
	iv, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return Interview{}, err
	}
	switch iv.Status {
	case StatusCancelled:
		return iv, nil
	case StatusCompleted:
		return Interview{}, fmt.Errorf("%w: completed interviews cannot be cancelled", ErrInvalidState)
	}

	iv.Status = StatusCancelled
	iv.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, iv); err != nil {
		return Interview{}, err
	}
	return iv, nil
}

// Complete marks a scheduled interview done, appending any wrap-up
// notes to the record.
func (s *Service) Complete(ctx context.Context, ownerID, id, notes string) (Interview, error) {
	iv, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return Interview{}, err
	}
	if iv.Status != StatusScheduled {
		return Interview{}, fmt.Errorf("%w: cannot complete a %s interview", ErrInvalidState, strings.ToLower(iv.Status))
	}

	iv.Status = StatusCompleted
	if notes = strings.TrimSpace(notes); notes != "" {
		if iv.Notes != "" {
			iv.Notes += "\n"
		}
		iv.Notes += notes
	}
	iv.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, iv); err != nil {
		return Interview{}, err
	}
	return iv, nil
}

// syncCandidateStatus moves the candidate to Interview Scheduled.
// Candidates already past that stage keep their status; a booking never
// fails because the pipeline could not move.
func (s *Service) syncCandidateStatus(ctx context.Context, ownerID, candidateID, interviewer string) {
	_, err := s.Candidates.UpdateStatus(ctx, ownerID, candidateID, candidates.StatusInterviewScheduled,
		"interview scheduled with "+interviewer)
	if err != nil && !errors.Is(err, candidates.ErrInvalidStatus) {
		telemetry.Error("interview.status_sync", map[string]any{
			"candidate_id": candidateID,
			"error":        err.Error(),
		})
	}
}

func (s *Service) checkAvailability(ctx context.Context, ownerID, interviewer string, at time.Time, excludeID string) error {
	booked, err := s.Repo.ScheduledBetween(ctx, ownerID, interviewer,
		at.Add(-conflictWindow), at.Add(conflictWindow))
	if err != nil {
		return err
	}
	for _, iv := range booked {
		if iv.ID != excludeID {
			return fmt.Errorf("%w: %s at %s", ErrSlotTaken, interviewer, at.Format(time.RFC3339))
		}
	}
	return nil
}
