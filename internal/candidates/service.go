package candidates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"hiring-backend/internal/parsing"
	"hiring-backend/internal/queue"
	"hiring-backend/internal/shared/metrics"
	"hiring-backend/internal/shared/storage/object"
	"hiring-backend/internal/shared/telemetry"
)

// TextExtractor turns a stored resume into plain text plus the source
// kind ("pdf", "docx", "txt") the parser's confidence bonus keys on.
type TextExtractor func(ctx context.Context, store object.ObjectStore, fileKey, mimeType, fileName string) (text string, kind string, err error)

// ParseQuota limits how many parses an owner may start per month.
// Implementations return ErrQuotaExceeded once the budget is spent.
type ParseQuota interface {
	ConsumeParse(ctx context.Context, ownerID string) error
}

// Service contains business logic for candidates and the resume parse
// lifecycle. Queue nil means resumes parse inline on upload; Quota nil
// disables quota enforcement.
type Service struct {
	Repo    CandidatesRepo
	Store   object.ObjectStore
	Queue   queue.Client
	Parser  *parsing.Parser
	Extract TextExtractor
	Quota   ParseQuota
}

var defaultParser = parsing.MustNew(parsing.DefaultConfig())

func (s *Service) parser() *parsing.Parser {
	if s.Parser != nil {
		return s.Parser
	}
	return defaultParser
}

// CreateInput carries the fields for a manually created candidate.
type CreateInput struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Status   string
}

// Create records a new candidate. Status defaults to Applied and the
// initial transition lands in the status history.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Candidate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Candidate{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = StatusApplied
	}
	if !ValidStatus(status) {
		return Candidate{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	now := time.Now().UTC()
	cand := Candidate{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Location:  strings.TrimSpace(in.Location),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, cand); err != nil {
		return Candidate{}, err
	}
	metrics.IncCandidateCreated()
	ev := StatusEvent{
		ID:          uuid.NewString(),
		CandidateID: cand.ID,
		ToStatus:    status,
		UpdatedBy:   ownerID,
		CreatedAt:   now,
	}
	if err := s.Repo.AppendStatusEvent(ctx, ev); err != nil {
		return Candidate{}, err
	}
	return cand, nil
}

// Get returns one candidate for an owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Candidate, error) {
	return s.Repo.GetByID(ctx, ownerID, id)
}

// List returns an owner's candidates, filtered and paged.
func (s *Service) List(ctx context.Context, ownerID string, f ListFilter) ([]Candidate, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	return s.Repo.List(ctx, ownerID, f)
}

// UpdateInput carries partial contact edits; nil fields stay untouched.
type UpdateInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Location *string
}

// Update applies contact edits to a candidate.
func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (Candidate, error) {
	cand, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return Candidate{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Candidate{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		cand.Name = name
	}
	if in.Email != nil {
		cand.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		cand.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Location != nil {
		cand.Location = strings.TrimSpace(*in.Location)
	}
	cand.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, cand); err != nil {
		return Candidate{}, err
	}
	return cand, nil
}

// UpdateStatus moves a candidate through the pipeline, recording the
// transition. Setting the current status again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, ownerID, id, to, note string) (Candidate, error) {
	if !ValidStatus(to) {
		return Candidate{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	cand, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return Candidate{}, err
	}
	if cand.Status == to {
		return cand, nil
	}
	if !ValidTransition(cand.Status, to) {
		return Candidate{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, cand.Status, to)
	}

	now := time.Now().UTC()
	from := cand.Status
	cand.Status = to
	cand.UpdatedAt = now
	if err := s.Repo.Update(ctx, cand); err != nil {
		return Candidate{}, err
	}
	ev := StatusEvent{
		ID:          uuid.NewString(),
		CandidateID: cand.ID,
		FromStatus:  from,
		ToStatus:    to,
		Note:        strings.TrimSpace(note),
		UpdatedBy:   ownerID,
		CreatedAt:   now,
	}
	if err := s.Repo.AppendStatusEvent(ctx, ev); err != nil {
		return Candidate{}, err
	}
	return cand, nil
}

// StatusHistory returns a candidate's pipeline transitions, oldest
// first.
func (s *Service) StatusHistory(ctx context.Context, ownerID, id string) ([]StatusEvent, error) {
	if _, err := s.Repo.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Repo.ListStatusEvents(ctx, id)
}

// Delete removes a candidate, its status history, and any stored resume
// objects. Object cleanup is best effort; the row is the record.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	cand, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if cand.ResumeKey != "" && s.Store != nil {
		if err := s.Store.Delete(ctx, cand.ResumeKey); err != nil {
			telemetry.Error("candidate.delete_object", map[string]any{
				"candidate_id": id,
				"storage_key":  cand.ResumeKey,
				"error":        err.Error(),
			})
		}
		_ = s.Store.Delete(ctx, cand.ResumeKey+".extracted.txt")
	}
	return nil
}

// AttachResume stores a resume file against a candidate and starts the
// parse: queued when a queue is configured, inline otherwise. An inline
// parse failure is not an upload failure; it lands in ParseStatus and
// ParseError on the returned candidate.
func (s *Service) AttachResume(ctx context.Context, ownerID, candidateID, fileName, requestID string, r io.Reader) (Candidate, error) {
	if strings.TrimSpace(fileName) == "" {
		return Candidate{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if !supportedResumeName(fileName) {
		return Candidate{}, fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, filepath.Ext(fileName))
	}
	cand, err := s.Repo.GetByID(ctx, ownerID, candidateID)
	if err != nil {
		return Candidate{}, err
	}

	if s.Quota != nil {
		if err := s.Quota.ConsumeParse(ctx, ownerID); err != nil {
			return Candidate{}, err
		}
	}

	storageKey, _, _, err := s.Store.Save(ctx, ownerID, fileName, r)
	if err != nil {
		return Candidate{}, err
	}
	metrics.IncResumeUploaded()

	cand.ResumeKey = storageKey
	cand.ResumeFilename = fileName
	cand.ResumeSource = sourceFromName(fileName)
	cand.ParseStatus = ParseStatusPending
	cand.ParseError = ""
	cand.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, cand); err != nil {
		return Candidate{}, err
	}

	return s.startParse(ctx, cand, requestID)
}

// ResumeInput carries optional contact details supplied alongside a
// resume upload. Fields left blank are filled from the parsed profile.
type ResumeInput struct {
	Name     string
	Email    string
	Phone    string
	Location string
}

// CreateFromResume creates a candidate directly from a resume upload.
// Contact fields may be blank; the parse fills what it finds. The
// candidate starts in Applied with the parse pending.
func (s *Service) CreateFromResume(ctx context.Context, ownerID, fileName, requestID string, in ResumeInput, r io.Reader) (Candidate, error) {
	if strings.TrimSpace(fileName) == "" {
		return Candidate{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if !supportedResumeName(fileName) {
		return Candidate{}, fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, filepath.Ext(fileName))
	}

	if s.Quota != nil {
		if err := s.Quota.ConsumeParse(ctx, ownerID); err != nil {
			return Candidate{}, err
		}
	}

	storageKey, _, _, err := s.Store.Save(ctx, ownerID, fileName, r)
	if err != nil {
		return Candidate{}, err
	}
	metrics.IncResumeUploaded()

	now := time.Now().UTC()
	cand := Candidate{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          strings.TrimSpace(in.Phone),
		Location:       strings.TrimSpace(in.Location),
		Status:         StatusApplied,
		ResumeKey:      storageKey,
		ResumeFilename: fileName,
		ResumeSource:   sourceFromName(fileName),
		ParseStatus:    ParseStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, cand); err != nil {
		return Candidate{}, err
	}
	metrics.IncCandidateCreated()
	ev := StatusEvent{
		ID:          uuid.NewString(),
		CandidateID: cand.ID,
		ToStatus:    StatusApplied,
		UpdatedBy:   ownerID,
		CreatedAt:   now,
	}
	if err := s.Repo.AppendStatusEvent(ctx, ev); err != nil {
		return Candidate{}, err
	}

	return s.startParse(ctx, cand, requestID)
}

// Reparse re-runs the pipeline against the stored resume. It consumes a
// quota unit like a fresh upload does.
func (s *Service) Reparse(ctx context.Context, ownerID, candidateID, requestID string) (Candidate, error) {
	cand, err := s.Repo.GetByID(ctx, ownerID, candidateID)
	if err != nil {
		return Candidate{}, err
	}
	if cand.ResumeKey == "" {
		return Candidate{}, ErrNoResume
	}

	if s.Quota != nil {
		if err := s.Quota.ConsumeParse(ctx, ownerID); err != nil {
			return Candidate{}, err
		}
	}

	cand.ParseStatus = ParseStatusPending
	cand.ParseError = ""
	cand.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, cand); err != nil {
		return Candidate{}, err
	}

	return s.startParse(ctx, cand, requestID)
}

// startParse hands a pending candidate to the queue, or parses inline
// when no queue is configured.
func (s *Service) startParse(ctx context.Context, cand Candidate, requestID string) (Candidate, error) {
	if s.Queue == nil {
		_ = s.ProcessParse(withRequestID(ctx, requestID), cand.OwnerID, cand.ID)
		return s.Repo.GetByID(ctx, cand.OwnerID, cand.ID)
	}

	msg := queue.Message{
		CandidateID: cand.ID,
		OwnerID:     cand.OwnerID,
		RequestID:   requestID,
		EnqueuedAt:  time.Now().UTC().Format(time.RFC3339),
		Version:     1,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		s.failParse(ctx, cand, ParseErrEnqueue, err)
		return Candidate{}, fmt.Errorf("enqueue parse task: %w", err)
	}
	return cand, nil
}

// ProcessParse runs the extract-then-parse pipeline for a candidate's
// stored resume. The worker calls this for queued tasks; AttachResume
// calls it directly in inline mode.
func (s *Service) ProcessParse(ctx context.Context, ownerID, candidateID string) error {
	cand, err := s.Repo.GetByID(ctx, ownerID, candidateID)
	if err != nil {
		return err
	}
	if cand.ResumeKey == "" {
		return ErrNoResume
	}
	if s.Extract == nil {
		return errors.New("text extractor not configured")
	}

	startedAt := time.Now().UTC()
	metrics.IncParseStarted()

	cand.ParseStatus = ParseStatusProcessing
	cand.ParseError = ""
	cand.UpdatedAt = startedAt
	if err := s.Repo.Update(ctx, cand); err != nil {
		return err
	}

	text, kind, err := s.Extract(ctx, s.Store, cand.ResumeKey, "", cand.ResumeFilename)
	if err != nil {
		s.failParse(ctx, cand, classifyExtractFailure(err), err)
		return fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		err := errors.New("no extractable text in resume")
		s.failParse(ctx, cand, ParseErrEmptyText, err)
		return err
	}

	result := s.parser().Extract(text, kind)

	now := time.Now().UTC()
	cand.Profile = &result
	cand.ResumeSource = result.Source
	cand.ParseStatus = ParseStatusCompleted
	cand.ParseError = ""
	cand.ParsedAt = &now
	cand.UpdatedAt = now
	fillContactsFromProfile(&cand, result)
	if err := s.Repo.Update(ctx, cand); err != nil {
		return err
	}

	metrics.IncParseCompleted()
	metrics.ObserveParseDurationMs(float64(now.Sub(startedAt).Microseconds()) / 1000.0)
	telemetry.Info("parse.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           ownerID,
		"candidate_id":      cand.ID,
		"status":            ParseStatusCompleted,
		"status_transition": "processing->completed",
		"source":            result.Source,
		"confidence":        result.Confidence,
		"skills":            len(result.Skills),
	})
	return nil
}

// Profile returns the parse result for a candidate, or ErrNotParsed
// until a parse has completed.
func (s *Service) Profile(ctx context.Context, ownerID, id string) (parsing.Result, error) {
	cand, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return parsing.Result{}, err
	}
	if cand.ParseStatus != ParseStatusCompleted || cand.Profile == nil {
		return parsing.Result{}, ErrNotParsed
	}
	return *cand.Profile, nil
}

func (s *Service) failParse(ctx context.Context, cand Candidate, code string, cause error) {
	cand.ParseStatus = ParseStatusFailed
	cand.ParseError = code
	cand.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, cand); err != nil {
		telemetry.Error("parse.fail_update", map[string]any{
			"candidate_id": cand.ID,
			"error":        err.Error(),
		})
	}
	metrics.IncParseFailed()
	telemetry.Info("parse.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           cand.OwnerID,
		"candidate_id":      cand.ID,
		"status":            ParseStatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"error":             sanitizeError(cause),
	})
}

// classifyExtractFailure decides which stored code an extraction error
// maps to. Object-store reads are retryable and classified apart from
// format problems inside the file itself.
func classifyExtractFailure(err error) string {
	if err == nil {
		return ParseErrExtract
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "open object") || strings.Contains(msg, "storage") || strings.Contains(msg, "no such file") {
		return ParseErrStore
	}
	return ParseErrExtract
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

// fillContactsFromProfile promotes parsed contact fields onto the
// candidate. Manual edits win: only empty fields are filled.
func fillContactsFromProfile(cand *Candidate, res parsing.Result) {
	if cand.Name == "" && res.Name.Found {
		cand.Name = res.Name.Value
	}
	if cand.Email == "" && res.Email.Found {
		cand.Email = res.Email.Value
	}
	if cand.Phone == "" && res.Phone.Found {
		cand.Phone = res.Phone.Value
	}
	if cand.Location == "" && res.Location.Found {
		cand.Location = res.Location.Value
	}
}

func sourceFromName(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return "pdf"
	case ".docx", ".doc":
		return "docx"
	default:
		return "txt"
	}
}

// supportedResumeName reports whether the file extension maps to a
// format the extractor handles.
func supportedResumeName(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".docx", ".doc", ".txt", ".md":
		return true
	}
	return false
}
