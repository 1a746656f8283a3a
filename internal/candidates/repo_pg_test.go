package candidates

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateCandidate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	cand := Candidate{
		ID:        "cand-1",
		OwnerID:   "user-1",
		Name:      "Dana Whitfield",
		Email:     "dana@example.com",
		Status:    StatusApplied,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO candidates").
		WithArgs(
			cand.ID,
			cand.OwnerID,
			cand.Name,
			cand.Email,
			cand.Phone,
			cand.Location,
			cand.Status,
			sqlmock.AnyArg(), // resume_key
			sqlmock.AnyArg(), // resume_filename
			sqlmock.AnyArg(), // resume_source
			cand.ParseStatus,
			sqlmock.AnyArg(), // parse_error
			nil,              // profile_json
			nil,              // parsed_at
			cand.CreatedAt,
			cand.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), cand); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDUnmarshalsProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	profileJSON := `{"name":{"value":"Dana Whitfield","confidence":98,"found":true},"skills":["Python","AWS"],"source":"txt","confidence":90}`

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "name", "email", "phone", "location", "status",
		"resume_key", "resume_filename", "resume_source",
		"parse_status", "parse_error", "profile_json", "parsed_at",
		"created_at", "updated_at",
	}).AddRow(
		"cand-1", "user-1", "Dana Whitfield", "dana@example.com", "", "", StatusScreening,
		"u1/resume.txt", "resume.txt", "txt",
		ParseStatusCompleted, nil, profileJSON, now,
		now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM candidates").
		WithArgs("user-1", "cand-1").
		WillReturnRows(rows)

	cand, err := repo.GetByID(context.Background(), "user-1", "cand-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cand.Profile == nil {
		t.Fatalf("expected profile to be unmarshalled")
	}
	if want := []string{"Python", "AWS"}; !reflect.DeepEqual(cand.Profile.Skills, want) {
		t.Fatalf("expected skills %v, got %v", want, cand.Profile.Skills)
	}
	if cand.ParsedAt == nil {
		t.Fatalf("expected parsedAt to be set")
	}
	if cand.ResumeSource != "txt" {
		t.Fatalf("expected resume source txt, got %q", cand.ResumeSource)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM candidates").
		WithArgs("user-1", "missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE candidates").
		WillReturnResult(sqlmock.NewResult(0, 0))

	cand := Candidate{ID: "missing", OwnerID: "user-1", Name: "Dana"}
	if err := repo.Update(context.Background(), cand); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSkillCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rows := sqlmock.NewRows([]string{"skill", "count"}).
		AddRow("python", 3).
		AddRow("aws", 2)
	mock.ExpectQuery("SELECT LOWER(.+) FROM candidates").
		WithArgs("user-1").
		WillReturnRows(rows)

	counts, err := repo.SkillCounts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("SkillCounts: %v", err)
	}
	if counts["python"] != 3 || counts["aws"] != 2 {
		t.Fatalf("unexpected counts %v", counts)
	}
}
