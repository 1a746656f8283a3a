package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hiring-backend/internal/parsing"
)

// Service contains business logic for job postings. Taxonomy defaults
// to the parser's skill vocabulary when left zero-valued, so job
// requirements and extracted candidate skills share one spelling.
type Service struct {
	Repo     JobsRepo
	Taxonomy parsing.Config
}

var defaultTaxonomy = parsing.DefaultConfig()

func (s *Service) taxonomy() parsing.Config {
	if len(s.Taxonomy.Skills) > 0 {
		return s.Taxonomy
	}
	return defaultTaxonomy
}

// CreateInput carries the fields for a new job posting.
type CreateInput struct {
	Title           string
	Department      string
	Location        string
	Description     string
	Skills          []string
	ExperienceLevel string
	SalaryRange     string
	Status          string
}

// Create records a new job posting. Status defaults to Active and
// skills resolve to their taxonomy spellings.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Job{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	if !ValidStatus(status) {
		return Job{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	skills, err := s.canonicalizeSkills(in.Skills)
	if err != nil {
		return Job{}, err
	}

	now := time.Now().UTC()
	job := Job{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           title,
		Department:      strings.TrimSpace(in.Department),
		Location:        strings.TrimSpace(in.Location),
		Description:     strings.TrimSpace(in.Description),
		Skills:          skills,
		ExperienceLevel: strings.TrimSpace(in.ExperienceLevel),
		SalaryRange:     strings.TrimSpace(in.SalaryRange),
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns one job for an owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Job, error) {
	return s.Repo.GetByID(ctx, ownerID, id)
}

// List returns an owner's jobs, filtered and paged.
func (s *Service) List(ctx context.Context, ownerID string, f ListFilter) ([]Job, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	return s.Repo.List(ctx, ownerID, f)
}

// UpdateInput carries partial job edits; nil fields stay untouched. A
// non-nil Skills replaces the whole list.
type UpdateInput struct {
	Title           *string
	Department      *string
	Location        *string
	Description     *string
	Skills          *[]string
	ExperienceLevel *string
	SalaryRange     *string
	Status          *string
}

// Update applies a partial edit and returns the stored job.
func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (Job, error) {
	job, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return Job{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Job{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		job.Title = title
	}
	if in.Department != nil {
		job.Department = strings.TrimSpace(*in.Department)
	}
	if in.Location != nil {
		job.Location = strings.TrimSpace(*in.Location)
	}
	if in.Description != nil {
		job.Description = strings.TrimSpace(*in.Description)
	}
	if in.Skills != nil {
		skills, err := s.canonicalizeSkills(*in.Skills)
		if err != nil {
			return Job{}, err
		}
		job.Skills = skills
	}
	if in.ExperienceLevel != nil {
		job.ExperienceLevel = strings.TrimSpace(*in.ExperienceLevel)
	}
	if in.SalaryRange != nil {
		job.SalaryRange = strings.TrimSpace(*in.SalaryRange)
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return Job{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		job.Status = *in.Status
	}

	job.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Close marks a job Closed so it stops appearing in candidate match
// rankings. Closing an already closed job is a no-op.
func (s *Service) Close(ctx context.Context, ownerID, id string) (Job, error) {
	job, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return Job{}, err
	}
	if job.Status == StatusClosed {
		return job, nil
	}
	job.Status = StatusClosed
	job.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Delete removes a job.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.Repo.Delete(ctx, ownerID, id)
}

// canonicalizeSkills resolves requested skills to taxonomy spellings,
// deduplicating while preserving input order. Unknown skills are
// rejected rather than stored verbatim so match scores stay honest.
func (s *Service) canonicalizeSkills(in []string) ([]string, error) {
	taxonomy := s.taxonomy()
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		skill, ok := taxonomy.CanonicalSkill(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown skill %q", ErrInvalidInput, strings.TrimSpace(raw))
		}
		if seen[skill] {
			continue
		}
		seen[skill] = true
		out = append(out, skill)
	}
	return out, nil
}
