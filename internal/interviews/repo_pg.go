package interviews

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const interviewColumns = `id, owner_id, candidate_id, job_id, candidate_name, job_title,
       interviewer, scheduled_at, duration_minutes, interview_type,
       location, meeting_link, status, notes, created_at, updated_at`

// PGRepo implements InterviewsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new interview.
func (r *PGRepo) Create(ctx context.Context, iv Interview) error {
	const query = `
INSERT INTO interviews (
    id, owner_id, candidate_id, job_id, candidate_name, job_title,
    interviewer, scheduled_at, duration_minutes, interview_type,
    location, meeting_link, status, notes, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.DB.ExecContext(ctx, query,
		iv.ID,
		iv.OwnerID,
		iv.CandidateID,
		iv.JobID,
		iv.CandidateName,
		iv.JobTitle,
		iv.Interviewer,
		iv.ScheduledAt,
		iv.DurationMinutes,
		iv.Type,
		iv.Location,
		iv.MeetingLink,
		iv.Status,
		iv.Notes,
		iv.CreatedAt,
		iv.UpdatedAt,
	)
	return err
}

// GetByID returns an interview by ID for an owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, id string) (Interview, error) {
	const query = `
SELECT ` + interviewColumns + `
FROM interviews
WHERE owner_id = $1 AND id = $2
LIMIT 1`

	iv, err := scanInterview(r.DB.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Interview{}, ErrNotFound
		}
		return Interview{}, err
	}
	return iv, nil
}

// List returns an owner's interviews ordered by start time, soonest
// first, honoring filter and paging.
func (r *PGRepo) List(ctx context.Context, ownerID string, f ListFilter) ([]Interview, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT ` + interviewColumns + `
FROM interviews
WHERE owner_id = $1
  AND ($2 = '' OR candidate_id = $2)
  AND ($3 = '' OR job_id = $3)
  AND ($4 = '' OR interviewer = $4)
  AND ($5 = '' OR status = $5)
  AND ($6::timestamptz IS NULL OR scheduled_at >= $6)
ORDER BY scheduled_at ASC
LIMIT $7 OFFSET $8`

	var startAfter any
	if !f.StartAfter.IsZero() {
		startAfter = f.StartAfter
	}
	rows, err := r.DB.QueryContext(ctx, query,
		ownerID, f.CandidateID, f.JobID, f.Interviewer, f.Status, startAfter, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviews(rows)
}

// Update replaces the mutable columns of an interview.
func (r *PGRepo) Update(ctx context.Context, iv Interview) error {
	const query = `
UPDATE interviews
SET interviewer = $1,
    scheduled_at = $2,
    duration_minutes = $3,
    interview_type = $4,
    location = $5,
    meeting_link = $6,
    status = $7,
    notes = $8,
    updated_at = $9
WHERE owner_id = $10 AND id = $11`

	res, err := r.DB.ExecContext(ctx, query,
		iv.Interviewer,
		iv.ScheduledAt,
		iv.DurationMinutes,
		iv.Type,
		iv.Location,
		iv.MeetingLink,
		iv.Status,
		iv.Notes,
		iv.UpdatedAt,
		iv.OwnerID,
		iv.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ScheduledBetween returns an interviewer's Scheduled interviews whose
// start time falls inside [from, to], bounds inclusive.
func (r *PGRepo) ScheduledBetween(ctx context.Context, ownerID, interviewer string, from, to time.Time) ([]Interview, error) {
	const query = `
SELECT ` + interviewColumns + `
FROM interviews
WHERE owner_id = $1 AND interviewer = $2 AND status = 'Scheduled'
  AND scheduled_at BETWEEN $3 AND $4
ORDER BY scheduled_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, interviewer, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviews(rows)
}

// Count returns how many interviews an owner has.
func (r *PGRepo) Count(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interviews WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}

// Recent returns the latest-created interviews, newest first.
func (r *PGRepo) Recent(ctx context.Context, ownerID string, limit int) ([]Interview, error) {
	if limit <= 0 {
		return []Interview{}, nil
	}

	const query = `
SELECT ` + interviewColumns + `
FROM interviews
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviews(rows)
}

var _ InterviewsRepo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (Interview, error) {
	var iv Interview
	var notes sql.NullString
	err := row.Scan(
		&iv.ID,
		&iv.OwnerID,
		&iv.CandidateID,
		&iv.JobID,
		&iv.CandidateName,
		&iv.JobTitle,
		&iv.Interviewer,
		&iv.ScheduledAt,
		&iv.DurationMinutes,
		&iv.Type,
		&iv.Location,
		&iv.MeetingLink,
		&iv.Status,
		&notes,
		&iv.CreatedAt,
		&iv.UpdatedAt,
	)
	if err != nil {
		return Interview{}, err
	}
	if notes.Valid {
		iv.Notes = notes.String
	}
	return iv, nil
}

func collectInterviews(rows *sql.Rows) ([]Interview, error) {
	var out []Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}
