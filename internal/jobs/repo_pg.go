package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements JobsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new job.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (
    id, owner_id, title, department, location, description,
    skills_json, experience_level, salary_range, status,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	skills, err := marshalSkills(job.Skills)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		job.ID,
		job.OwnerID,
		job.Title,
		job.Department,
		job.Location,
		job.Description,
		skills,
		job.ExperienceLevel,
		job.SalaryRange,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// GetByID returns a job by ID for an owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, id string) (Job, error) {
	const query = `
SELECT id, owner_id, title, department, location, description,
       skills_json, experience_level, salary_range, status,
       created_at, updated_at
FROM jobs
WHERE owner_id = $1 AND id = $2
LIMIT 1`

	var job Job
	var skills []byte
	err := r.DB.QueryRowContext(ctx, query, ownerID, id).Scan(
		&job.ID,
		&job.OwnerID,
		&job.Title,
		&job.Department,
		&job.Location,
		&job.Description,
		&skills,
		&job.ExperienceLevel,
		&job.SalaryRange,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	if err := unmarshalSkills(skills, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// List returns an owner's jobs newest-first, optionally filtered by
// status.
func (r *PGRepo) List(ctx context.Context, ownerID string, f ListFilter) ([]Job, error) {
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
SELECT id, owner_id, title, department, location, description,
       skills_json, experience_level, salary_range, status,
       created_at, updated_at
FROM jobs
WHERE owner_id = $1 AND ($2 = '' OR status = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, f.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var job Job
		var skills []byte
		if err := rows.Scan(
			&job.ID,
			&job.OwnerID,
			&job.Title,
			&job.Department,
			&job.Location,
			&job.Description,
			&skills,
			&job.ExperienceLevel,
			&job.SalaryRange,
			&job.Status,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := unmarshalSkills(skills, &job); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Update replaces the mutable columns of a job.
func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs
SET title = $1,
    department = $2,
    location = $3,
    description = $4,
    skills_json = $5,
    experience_level = $6,
    salary_range = $7,
    status = $8,
    updated_at = $9
WHERE owner_id = $10 AND id = $11`

	skills, err := marshalSkills(job.Skills)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		job.Title,
		job.Department,
		job.Location,
		job.Description,
		skills,
		job.ExperienceLevel,
		job.SalaryRange,
		job.Status,
		job.UpdatedAt,
		job.OwnerID,
		job.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a job.
func (r *PGRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus tallies an owner's jobs per status.
func (r *PGRepo) CountByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	const query = `
SELECT status, COUNT(*)
FROM jobs
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

var _ JobsRepo = (*PGRepo)(nil)

func marshalSkills(skills []string) ([]byte, error) {
	if skills == nil {
		skills = []string{}
	}
	return json.Marshal(skills)
}

func unmarshalSkills(data []byte, job *Job) error {
	if len(data) == 0 {
		job.Skills = []string{}
		return nil
	}
	if err := json.Unmarshal(data, &job.Skills); err != nil {
		return fmt.Errorf("unmarshal job skills: %w", err)
	}
	return nil
}
