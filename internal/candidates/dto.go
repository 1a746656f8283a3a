package candidates

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hiring-backend/internal/parsing"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("pipelinestatus", func(fl validator.FieldLevel) bool {
			return ValidStatus(fl.Field().String())
		})
	}
}

// CandidateResponse is the outward-facing representation of a candidate.
type CandidateResponse struct {
	CandidateID    string          `json:"candidateId"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Location       string          `json:"location,omitempty"`
	Status         string          `json:"status"`
	ResumeFileName string          `json:"resumeFileName,omitempty"`
	ParseStatus    string          `json:"parseStatus,omitempty"`
	ParseError     string          `json:"parseError,omitempty"`
	Profile        *parsing.Result `json:"profile,omitempty"`
	ParsedAt       *time.Time      `json:"parsedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewCandidateResponse converts a candidate to its API shape. Exported
// for handlers outside this package that return candidates.
func NewCandidateResponse(cand Candidate) CandidateResponse {
	return toResponse(cand)
}

func toResponse(cand Candidate) CandidateResponse {
	return CandidateResponse{
		CandidateID:    cand.ID,
		Name:           cand.Name,
		Email:          cand.Email,
		Phone:          cand.Phone,
		Location:       cand.Location,
		Status:         cand.Status,
		ResumeFileName: cand.ResumeFilename,
		ParseStatus:    cand.ParseStatus,
		ParseError:     cand.ParseError,
		Profile:        cand.Profile,
		ParsedAt:       cand.ParsedAt,
		CreatedAt:      cand.CreatedAt,
		UpdatedAt:      cand.UpdatedAt,
	}
}

// StatusEventResponse is one pipeline transition in a history listing.
type StatusEventResponse struct {
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus"`
	Note       string    `json:"note,omitempty"`
	UpdatedBy  string    `json:"updatedBy,omitempty"`
	At         time.Time `json:"at"`
}

func toEventResponse(ev StatusEvent) StatusEventResponse {
	return StatusEventResponse{
		FromStatus: ev.FromStatus,
		ToStatus:   ev.ToStatus,
		Note:       ev.Note,
		UpdatedBy:  ev.UpdatedBy,
		At:         ev.CreatedAt,
	}
}

type createRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,max=40"`
	Location string `json:"location" binding:"omitempty,max=200"`
	Status   string `json:"status" binding:"omitempty,pipelinestatus"`
}

type updateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=40"`
	Location *string `json:"location" binding:"omitempty,max=200"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,pipelinestatus"`
	Note   string `json:"note" binding:"omitempty,max=500"`
}
