package candidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"hiring-backend/internal/parsing"
)

// PGRepo implements CandidatesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new candidate.
func (r *PGRepo) Create(ctx context.Context, cand Candidate) error {
	const query = `
INSERT INTO candidates (
    id, owner_id, name, email, phone, location, status,
    resume_key, resume_filename, resume_source,
    parse_status, parse_error, profile_json, parsed_at,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	profile, err := marshalProfile(cand.Profile)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		cand.ID,
		cand.OwnerID,
		cand.Name,
		cand.Email,
		cand.Phone,
		cand.Location,
		cand.Status,
		nullString(cand.ResumeKey),
		nullString(cand.ResumeFilename),
		nullString(cand.ResumeSource),
		cand.ParseStatus,
		nullString(cand.ParseError),
		profile,
		cand.ParsedAt,
		cand.CreatedAt,
		cand.UpdatedAt,
	)
	return err
}

// GetByID returns a candidate by ID for an owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, id string) (Candidate, error) {
	const query = `
SELECT id, owner_id, name, email, phone, location, status,
       resume_key, resume_filename, resume_source,
       parse_status, parse_error, profile_json, parsed_at,
       created_at, updated_at
FROM candidates
WHERE owner_id = $1 AND id = $2
LIMIT 1`

	var cand Candidate
	var resumeKey, resumeFilename, resumeSource, parseError, profile sql.NullString
	var parsedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, ownerID, id).Scan(
		&cand.ID,
		&cand.OwnerID,
		&cand.Name,
		&cand.Email,
		&cand.Phone,
		&cand.Location,
		&cand.Status,
		&resumeKey,
		&resumeFilename,
		&resumeSource,
		&cand.ParseStatus,
		&parseError,
		&profile,
		&parsedAt,
		&cand.CreatedAt,
		&cand.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	applyNullable(&cand, resumeKey, resumeFilename, resumeSource, parseError, profile, parsedAt)
	return cand, nil
}

// List returns an owner's candidates newest-first, optionally filtered
// by pipeline status.
func (r *PGRepo) List(ctx context.Context, ownerID string, f ListFilter) ([]Candidate, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT id, owner_id, name, email, phone, location, status,
       resume_key, resume_filename, resume_source,
       parse_status, parse_error, profile_json, parsed_at,
       created_at, updated_at
FROM candidates
WHERE owner_id = $1
  AND ($2 = '' OR status = $2)
  AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR email ILIKE '%' || $3 || '%')
ORDER BY created_at DESC
LIMIT $4 OFFSET $5`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, f.Status, strings.TrimSpace(f.Query), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var cand Candidate
		var resumeKey, resumeFilename, resumeSource, parseError, profile sql.NullString
		var parsedAt sql.NullTime
		if err := rows.Scan(
			&cand.ID,
			&cand.OwnerID,
			&cand.Name,
			&cand.Email,
			&cand.Phone,
			&cand.Location,
			&cand.Status,
			&resumeKey,
			&resumeFilename,
			&resumeSource,
			&cand.ParseStatus,
			&parseError,
			&profile,
			&parsedAt,
			&cand.CreatedAt,
			&cand.UpdatedAt,
		); err != nil {
			return nil, err
		}
		applyNullable(&cand, resumeKey, resumeFilename, resumeSource, parseError, profile, parsedAt)
		out = append(out, cand)
	}
	return out, rows.Err()
}

// Update replaces the mutable columns of a candidate.
func (r *PGRepo) Update(ctx context.Context, cand Candidate) error {
	const query = `
UPDATE candidates
SET name = $1,
    email = $2,
    phone = $3,
    location = $4,
    status = $5,
    resume_key = $6,
    resume_filename = $7,
    resume_source = $8,
    parse_status = $9,
    parse_error = $10,
    profile_json = $11,
    parsed_at = $12,
    updated_at = $13
WHERE owner_id = $14 AND id = $15`

	profile, err := marshalProfile(cand.Profile)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		cand.Name,
		cand.Email,
		cand.Phone,
		cand.Location,
		cand.Status,
		nullString(cand.ResumeKey),
		nullString(cand.ResumeFilename),
		nullString(cand.ResumeSource),
		cand.ParseStatus,
		nullString(cand.ParseError),
		profile,
		cand.ParsedAt,
		cand.UpdatedAt,
		cand.OwnerID,
		cand.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a candidate and cascades to its status history.
func (r *PGRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM candidates WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendStatusEvent records one pipeline transition.
func (r *PGRepo) AppendStatusEvent(ctx context.Context, ev StatusEvent) error {
	const query = `
INSERT INTO candidate_status_events (id, candidate_id, from_status, to_status, note, updated_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		ev.ID,
		ev.CandidateID,
		ev.FromStatus,
		ev.ToStatus,
		nullString(ev.Note),
		ev.UpdatedBy,
		ev.CreatedAt,
	)
	return err
}

// ListStatusEvents returns a candidate's transitions, oldest first.
func (r *PGRepo) ListStatusEvents(ctx context.Context, candidateID string) ([]StatusEvent, error) {
	const query = `
SELECT id, candidate_id, from_status, to_status, note, updated_by, created_at
FROM candidate_status_events
WHERE candidate_id = $1
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusEvent
	for rows.Next() {
		var ev StatusEvent
		var note sql.NullString
		if err := rows.Scan(&ev.ID, &ev.CandidateID, &ev.FromStatus, &ev.ToStatus, &note, &ev.UpdatedBy, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if note.Valid {
			ev.Note = note.String
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountByStatus tallies an owner's candidates per pipeline status.
func (r *PGRepo) CountByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	const query = `
SELECT status, COUNT(*)
FROM candidates
WHERE owner_id = $1
GROUP BY status`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

// SkillCounts tallies parsed skills across an owner's completed parses,
// lowercased so spelling variants collapse.
func (r *PGRepo) SkillCounts(ctx context.Context, ownerID string) (map[string]int, error) {
	const query = `
SELECT LOWER(s.skill), COUNT(*)
FROM candidates c,
     jsonb_array_elements_text(c.profile_json->'skills') AS s(skill)
WHERE c.owner_id = $1 AND c.parse_status = 'completed'
GROUP BY LOWER(s.skill)`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var skill string
		var count int
		if err := rows.Scan(&skill, &count); err != nil {
			return nil, err
		}
		out[skill] = count
	}
	return out, rows.Err()
}

// ClaimGuest reassigns candidates owned by a guest user to an
// authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	const query = `
UPDATE candidates
SET owner_id = $1
WHERE owner_id = $2`
	res, err := r.DB.ExecContext(ctx, query, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	updated, _ := res.RowsAffected()
	return int(updated), nil
}

var _ CandidatesRepo = (*PGRepo)(nil)

func marshalProfile(profile *parsing.Result) (any, error) {
	if profile == nil {
		return nil, nil
	}
	return json.Marshal(profile)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func applyNullable(cand *Candidate, resumeKey, resumeFilename, resumeSource, parseError, profile sql.NullString, parsedAt sql.NullTime) {
	if resumeKey.Valid {
		cand.ResumeKey = resumeKey.String
	}
	if resumeFilename.Valid {
		cand.ResumeFilename = resumeFilename.String
	}
	if resumeSource.Valid {
		cand.ResumeSource = resumeSource.String
	}
	if parseError.Valid {
		cand.ParseError = parseError.String
	}
	if profile.Valid {
		var res parsing.Result
		if err := json.Unmarshal([]byte(profile.String), &res); err == nil {
			cand.Profile = &res
		}
	}
	if parsedAt.Valid {
		cand.ParsedAt = &parsedAt.Time
	}
}
