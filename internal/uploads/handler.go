package uploads

import (
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hiring-backend/internal/candidates"
	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/shared/server/respond"
	"hiring-backend/internal/shared/telemetry"
	"hiring-backend/internal/shared/util"
)

const (
	presignExpires = 15 * time.Minute
	resumesPrefix  = "resumes/"
)

// allowedContentTypes mirrors the formats the text extractor handles.
var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain":    {},
	"text/markdown": {},
}

// Handler serves the resume upload surface: a one-shot multipart
// endpoint that creates a candidate from a resume, and a presign
// endpoint for direct-to-S3 uploads. Presign is nil when the object
// store is local.
type Handler struct {
	Svc            *candidates.Service
	MaxUploadBytes int64
	Presign        *s3.PresignClient
	Bucket         string
	Prefix         string
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/upload", h.upload)
	rg.POST("/resumes/presign", h.presign)
}

// upload accepts a multipart resume and creates a candidate from it.
// Contact form fields are optional; the parse fills what it finds.
func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "resume exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "file is required", nil)
		return
	}

	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid file name", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unable to read file", nil)
		return
	}
	defer file.Close()

	in := candidates.ResumeInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Phone:    c.PostForm("phone"),
		Location: c.PostForm("location"),
	}
	requestID := middleware.RequestIDFromContext(c)
	cand, err := h.Svc.CreateFromResume(c.Request.Context(), userID, fileName, requestID, in, file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	telemetry.Info("uploads.resume_received", map[string]any{
		"user_id":      userID,
		"candidate_id": cand.ID,
		"file":         fileName,
		"size":         fileHeader.Size,
	})
	respond.JSON(c, http.StatusCreated, candidates.NewCandidateResponse(cand))
}

type presignRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	SizeBytes   int64  `json:"sizeBytes" binding:"required,gt=0"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	Key              string `json:"key"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// presign issues a presigned S3 PUT for a resume object. The client
// uploads directly and then attaches the returned key.
func (h *Handler) presign(c *gin.Context) {
	if h.Presign == nil || h.Bucket == "" {
		respond.Error(c, http.StatusNotImplemented, "NOT_SUPPORTED", "presigned uploads require s3 storage", nil)
		return
	}

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	req.ContentType = strings.TrimSpace(req.ContentType)
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "contentType is not allowed", nil)
		return
	}
	if h.MaxUploadBytes > 0 && req.SizeBytes > h.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "sizeBytes exceeds limit", nil)
		return
	}
	fileName, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid fileName", nil)
		return
	}

	key := resumeKey(h.Prefix, fileName)
	out, err := h.Presign.PresignPutObject(c.Request.Context(), presignInput(h.Bucket, key), func(opts *s3.PresignOptions) {
		opts.Expires = presignExpires
	})
	if err != nil {
		telemetry.Error("uploads.presign_failed", map[string]any{
			"error":      err.Error(),
			"bucket":     h.Bucket,
			"key":        key,
			"request_id": middleware.RequestIDFromContext(c),
		})
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to generate upload url", nil)
		return
	}

	respond.JSON(c, http.StatusOK, presignResponse{
		UploadURL:        out.URL,
		Key:              key,
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, candidates.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, candidates.ErrQuotaExceeded):
		respond.Error(c, http.StatusTooManyRequests, "QUOTA_EXCEEDED", "monthly parse quota exceeded", nil)
	default:
		telemetry.Error("uploads.upload_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to upload resume", nil)
	}
}

// resumeKey builds the object key for a presigned upload. The uuid
// keeps keys collision-free; the extension survives so the extractor
// can pick a format.
func resumeKey(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	p := prefix
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p + resumesPrefix + uuid.NewString() + ext
}

func presignInput(bucket, key string) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
}
