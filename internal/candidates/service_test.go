package candidates

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"hiring-backend/internal/queue"
	"hiring-backend/internal/shared/storage/object"
	"hiring-backend/internal/shared/storage/object/local"
)

const sampleResume = "Name: Dana Whitfield\n" +
	"dana.whitfield@example.com\n" +
	"Phone: 555-123-9876\n" +
	"Location: Portland, OR\n" +
	"Skills: Python, AWS\n"

// readBackExtractor opens the stored object and returns its bytes as
// plain text, the way the real extractor does for .txt uploads.
func readBackExtractor(ctx context.Context, store object.ObjectStore, fileKey, mimeType, fileName string) (string, string, error) {
	_ = mimeType
	_ = fileName
	rc, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", "", err
	}
	return string(b), "txt", nil
}

type captureQueue struct {
	sent []queue.Message
	err  error
}

func (q *captureQueue) Send(ctx context.Context, msg queue.Message) error {
	_ = ctx
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, msg)
	return nil
}

type countdownQuota struct {
	remaining int
}

func (q *countdownQuota) ConsumeParse(ctx context.Context, ownerID string) error {
	_ = ctx
	_ = ownerID
	if q.remaining <= 0 {
		return ErrQuotaExceeded
	}
	q.remaining--
	return nil
}

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := &Service{
		Repo:    repo,
		Store:   local.New(t.TempDir()),
		Extract: readBackExtractor,
	}
	return svc, repo
}

func TestCreateDefaultsAndHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "  Dana Whitfield  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cand.ID == "" {
		t.Fatalf("expected generated id")
	}
	if cand.Name != "Dana Whitfield" {
		t.Fatalf("expected trimmed name, got %q", cand.Name)
	}
	if cand.Status != StatusApplied {
		t.Fatalf("expected default status %s, got %s", StatusApplied, cand.Status)
	}

	events, err := svc.StatusHistory(ctx, "user-1", cand.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 initial event, got %d", len(events))
	}
	if events[0].FromStatus != "" || events[0].ToStatus != StatusApplied {
		t.Fatalf("unexpected initial event %+v", events[0])
	}
	if events[0].UpdatedBy != "user-1" {
		t.Fatalf("expected initial event stamped with actor, got %q", events[0].UpdatedBy)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", CreateInput{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana", Status: "Waitlisted"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	cand, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:  "Dana Whitfield",
		Email: " Dana.Whitfield@Example.COM ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cand.Email != "dana.whitfield@example.com" {
		t.Fatalf("expected lowercased email, got %q", cand.Email)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, "user-1", cand.ID, StatusScreening, "phone screen booked")
	if err != nil {
		t.Fatalf("applied -> screening: %v", err)
	}
	if got.Status != StatusScreening {
		t.Fatalf("expected %s, got %s", StatusScreening, got.Status)
	}

	// Backwards moves and skips outside the pipeline are conflicts.
	if _, err := svc.UpdateStatus(ctx, "user-1", cand.ID, StatusApplied, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for screening -> applied, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "user-1", cand.ID, StatusOffer, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for screening -> offer, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "user-1", cand.ID, "Waitlisted", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}

	// Re-setting the current status is a no-op, not a new event.
	if _, err := svc.UpdateStatus(ctx, "user-1", cand.ID, StatusScreening, "again"); err != nil {
		t.Fatalf("same-status no-op: %v", err)
	}

	events, err := svc.StatusHistory(ctx, "user-1", cand.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events (create + screening), got %d", len(events))
	}
	last := events[len(events)-1]
	if last.FromStatus != StatusApplied || last.ToStatus != StatusScreening || last.Note != "phone screen booked" {
		t.Fatalf("unexpected transition event %+v", last)
	}
	if last.UpdatedBy != "user-1" {
		t.Fatalf("expected transition stamped with actor, got %q", last.UpdatedBy)
	}
}

func TestUpdateStatusTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "user-1", cand.ID, StatusRejected, ""); err != nil {
		t.Fatalf("applied -> rejected: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "user-1", cand.ID, StatusScreening, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus out of terminal state, got %v", err)
	}
}

func TestAttachResumeQueued(t *testing.T) {
	svc, repo := newTestService(t)
	q := &captureQueue{}
	svc.Queue = q
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.AttachResume(ctx, "user-1", cand.ID, "resume.pdf", "req-42", bytes.NewReader([]byte(sampleResume)))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if got.ParseStatus != ParseStatusPending {
		t.Fatalf("expected parse status pending, got %q", got.ParseStatus)
	}
	if got.ResumeFilename != "resume.pdf" || got.ResumeSource != "pdf" {
		t.Fatalf("unexpected resume metadata %q / %q", got.ResumeFilename, got.ResumeSource)
	}
	if got.ResumeKey == "" {
		t.Fatalf("expected storage key to be set")
	}

	if len(q.sent) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(q.sent))
	}
	msg := q.sent[0]
	if msg.CandidateID != cand.ID || msg.OwnerID != "user-1" || msg.RequestID != "req-42" || msg.Version != 1 {
		t.Fatalf("unexpected message %+v", msg)
	}

	stored, err := repo.GetByID(ctx, "user-1", cand.ID)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if stored.ParseStatus != ParseStatusPending {
		t.Fatalf("expected persisted pending status, got %q", stored.ParseStatus)
	}
}

func TestAttachResumeEnqueueFailure(t *testing.T) {
	svc, repo := newTestService(t)
	svc.Queue = &captureQueue{err: errors.New("broker down")}
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AttachResume(ctx, "user-1", cand.ID, "resume.pdf", "", bytes.NewReader([]byte(sampleResume))); err == nil {
		t.Fatalf("expected enqueue error")
	}

	stored, err := repo.GetByID(ctx, "user-1", cand.ID)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if stored.ParseStatus != ParseStatusFailed {
		t.Fatalf("expected failed parse status, got %q", stored.ParseStatus)
	}
	if stored.ParseError != ParseErrEnqueue {
		t.Fatalf("unexpected parse error %q", stored.ParseError)
	}
}

func TestAttachResumeInlineParse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Manually entered name; email left blank so the parse can fill it.
	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Q. Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.AttachResume(ctx, "user-1", cand.ID, "resume.txt", "", bytes.NewReader([]byte(sampleResume)))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if got.ParseStatus != ParseStatusCompleted {
		t.Fatalf("expected completed parse, got %q (%s)", got.ParseStatus, got.ParseError)
	}
	if got.ParsedAt == nil {
		t.Fatalf("expected parsedAt to be set")
	}
	if got.Profile == nil {
		t.Fatalf("expected profile to be stored")
	}

	// Manual edits win: the hand-entered name stays, the blank contact
	// fields fill from the parse.
	if got.Name != "Dana Q. Whitfield" {
		t.Fatalf("expected manual name to survive, got %q", got.Name)
	}
	if got.Email != "dana.whitfield@example.com" {
		t.Fatalf("expected parsed email, got %q", got.Email)
	}
	if got.Phone != "555-123-9876" {
		t.Fatalf("expected parsed phone, got %q", got.Phone)
	}
	if got.Location != "Portland, OR" {
		t.Fatalf("expected parsed location, got %q", got.Location)
	}
	if got.Profile.Name.Value != "Dana Whitfield" {
		t.Fatalf("expected parsed name in profile, got %q", got.Profile.Name.Value)
	}
	if want := []string{"Python", "AWS"}; !reflect.DeepEqual(got.Skills(), want) {
		t.Fatalf("expected skills %v, got %v", want, got.Skills())
	}
}

func TestAttachResumeQuota(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Quota = &countdownQuota{remaining: 1}
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AttachResume(ctx, "user-1", cand.ID, "resume.txt", "", bytes.NewReader([]byte(sampleResume))); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	_, err = svc.AttachResume(ctx, "user-1", cand.ID, "resume.txt", "", bytes.NewReader([]byte(sampleResume)))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestAttachResumeValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AttachResume(ctx, "user-1", cand.ID, "  ", "", bytes.NewReader(nil)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank file name, got %v", err)
	}
	if _, err := svc.AttachResume(ctx, "user-1", "missing", "resume.txt", "", bytes.NewReader(nil)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown candidate, got %v", err)
	}
	if _, err := svc.AttachResume(ctx, "user-2", cand.ID, "resume.txt", "", bytes.NewReader(nil)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
}

func TestProcessParseFailureRecorded(t *testing.T) {
	svc, repo := newTestService(t)
	svc.Queue = &captureQueue{}
	svc.Extract = func(ctx context.Context, store object.ObjectStore, fileKey, mimeType, fileName string) (string, string, error) {
		return "", "", errors.New("corrupt archive")
	}
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AttachResume(ctx, "user-1", cand.ID, "resume.docx", "", bytes.NewReader([]byte("junk"))); err != nil {
		t.Fatalf("attach: %v", err)
	}

	if err := svc.ProcessParse(ctx, "user-1", cand.ID); err == nil {
		t.Fatalf("expected extract error")
	}

	stored, err := repo.GetByID(ctx, "user-1", cand.ID)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if stored.ParseStatus != ParseStatusFailed {
		t.Fatalf("expected failed status, got %q", stored.ParseStatus)
	}
	// The row carries the classified code; the raw cause only hits the log.
	if stored.ParseError != ParseErrExtract {
		t.Fatalf("expected %s, got %q", ParseErrExtract, stored.ParseError)
	}
}

func TestProcessParseEmptyText(t *testing.T) {
	svc, repo := newTestService(t)
	svc.Queue = &captureQueue{}
	svc.Extract = func(ctx context.Context, store object.ObjectStore, fileKey, mimeType, fileName string) (string, string, error) {
		return "   \n\t ", "pdf", nil
	}
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AttachResume(ctx, "user-1", cand.ID, "resume.pdf", "", bytes.NewReader([]byte("%PDF"))); err != nil {
		t.Fatalf("attach: %v", err)
	}

	if err := svc.ProcessParse(ctx, "user-1", cand.ID); err == nil {
		t.Fatalf("expected empty-text error")
	}

	stored, err := repo.GetByID(ctx, "user-1", cand.ID)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if stored.ParseError != ParseErrEmptyText {
		t.Fatalf("expected %s, got %q", ParseErrEmptyText, stored.ParseError)
	}
}

func TestReparse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Reparse(ctx, "user-1", cand.ID, ""); !errors.Is(err, ErrNoResume) {
		t.Fatalf("expected ErrNoResume before upload, got %v", err)
	}

	if _, err := svc.AttachResume(ctx, "user-1", cand.ID, "resume.txt", "", bytes.NewReader([]byte(sampleResume))); err != nil {
		t.Fatalf("attach: %v", err)
	}

	got, err := svc.Reparse(ctx, "user-1", cand.ID, "req-7")
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got.ParseStatus != ParseStatusCompleted {
		t.Fatalf("expected completed after reparse, got %q (%s)", got.ParseStatus, got.ParseError)
	}

	// Reparse consumes quota like an upload.
	svc.Quota = &countdownQuota{remaining: 0}
	if _, err := svc.Reparse(ctx, "user-1", cand.ID, ""); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestProcessParseWithoutResume(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.ProcessParse(ctx, "user-1", cand.ID); !errors.Is(err, ErrNoResume) {
		t.Fatalf("expected ErrNoResume, got %v", err)
	}
}

func TestProfileLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cand, err := svc.Create(ctx, "user-1", CreateInput{Name: "Dana Whitfield"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Profile(ctx, "user-1", cand.ID); !errors.Is(err, ErrNotParsed) {
		t.Fatalf("expected ErrNotParsed before upload, got %v", err)
	}

	if _, err := svc.AttachResume(ctx, "user-1", cand.ID, "resume.txt", "", bytes.NewReader([]byte(sampleResume))); err != nil {
		t.Fatalf("attach: %v", err)
	}

	res, err := svc.Profile(ctx, "user-1", cand.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !res.Email.Found || res.Email.Value != "dana.whitfield@example.com" {
		t.Fatalf("unexpected parsed email %+v", res.Email)
	}
	if res.Confidence < 70 || res.Confidence > 95 {
		t.Fatalf("overall confidence out of range: %d", res.Confidence)
	}
	if res.Source != "txt" {
		t.Fatalf("expected txt source, got %q", res.Source)
	}
}
