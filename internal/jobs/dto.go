package jobs

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
			return ValidStatus(fl.Field().String())
		})
		_ = v.RegisterValidation("taxonomyskill", func(fl validator.FieldLevel) bool {
			_, ok := defaultTaxonomy.CanonicalSkill(fl.Field().String())
			return ok
		})
	}
}

// JobResponse is the outward-facing representation of a job posting.
type JobResponse struct {
	JobID           string    `json:"jobId"`
	Title           string    `json:"title"`
	Department      string    `json:"department,omitempty"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description,omitempty"`
	Skills          []string  `json:"skills"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	SalaryRange     string    `json:"salaryRange,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toResponse(job Job) JobResponse {
	skills := job.Skills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		JobID:           job.ID,
		Title:           job.Title,
		Department:      job.Department,
		Location:        job.Location,
		Description:     job.Description,
		Skills:          skills,
		ExperienceLevel: job.ExperienceLevel,
		SalaryRange:     job.SalaryRange,
		Status:          job.Status,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
}

type createRequest struct {
	Title           string   `json:"title" binding:"required,max=200"`
	Department      string   `json:"department" binding:"omitempty,max=200"`
	Location        string   `json:"location" binding:"omitempty,max=200"`
	Description     string   `json:"description" binding:"omitempty,max=5000"`
	Skills          []string `json:"skills" binding:"omitempty,max=50,dive,taxonomyskill"`
	ExperienceLevel string   `json:"experienceLevel" binding:"omitempty,max=100"`
	SalaryRange     string   `json:"salaryRange" binding:"omitempty,max=100"`
	Status          string   `json:"status" binding:"omitempty,jobstatus"`
}

type updateRequest struct {
	Title           *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Department      *string   `json:"department" binding:"omitempty,max=200"`
	Location        *string   `json:"location" binding:"omitempty,max=200"`
	Description     *string   `json:"description" binding:"omitempty,max=5000"`
	Skills          *[]string `json:"skills" binding:"omitempty,max=50,dive,taxonomyskill"`
	ExperienceLevel *string   `json:"experienceLevel" binding:"omitempty,max=100"`
	SalaryRange     *string   `json:"salaryRange" binding:"omitempty,max=100"`
	Status          *string   `json:"status" binding:"omitempty,jobstatus"`
}
