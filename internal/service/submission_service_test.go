package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/kerkportaal/lms-backend/internal/service"
	"github.com/rs/zerolog"
)

func newSubmissionFixture() (*service.SubmissionService, *fakeSubmissionStore) {
	store := newFakeSubmissionStore()
	return service.NewSubmissionService(store, zerolog.Nop()), store
}

func TestSubmitStoresSubmission(t *testing.T) {
	svc, _ := newSubmissionFixture()
	les := opdragLes("Opdrag")
	gebruikerID := uuid.New()

	record, err := svc.Submit(context.Background(), gebruikerID, &les, &model.SubmitOpdragRequest{
		TeksAntwoord: "My antwoord",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.Status != model.IndieningIngedien {
		t.Fatalf("expected status ingedien, got %s", record.Status)
	}
	if record.MaksimumPunte != 100 {
		t.Fatalf("expected max score 100 from the lesson, got %d", record.MaksimumPunte)
	}
}

func TestSubmitRejectsEmptySubmission(t *testing.T) {
	svc, _ := newSubmissionFixture()
	les := opdragLes("Opdrag")

	_, err := svc.Submit(context.Background(), uuid.New(), &les, &model.SubmitOpdragRequest{
		TeksAntwoord: "   \n\t ",
	})
	if !errors.Is(err, service.ErrEmptySubmission) {
		t.Fatalf("expected ErrEmptySubmission, got %v", err)
	}
}

func TestSubmitAcceptsFileOnly(t *testing.T) {
	svc, _ := newSubmissionFixture()
	les := opdragLes("Opdrag")

	record, err := svc.Submit(context.Background(), uuid.New(), &les, &model.SubmitOpdragRequest{
		LeerURL:  "https://files.example/opdrag.pdf",
		Leernaam: "opdrag.pdf",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.LeerURL == "" || record.Leernaam != "opdrag.pdf" {
		t.Fatalf("file reference lost: %+v", record)
	}
}

func TestSubmitRejectsNonAssignmentLesson(t *testing.T) {
	svc, _ := newSubmissionFixture()
	les := teksLes("Teks")

	_, err := svc.Submit(context.Background(), uuid.New(), &les, &model.SubmitOpdragRequest{TeksAntwoord: "x"})
	if !errors.Is(err, service.ErrLessonTypeMismatch) {
		t.Fatalf("expected ErrLessonTypeMismatch, got %v", err)
	}
}

func TestResubmitKeepsIdentityAndResetsGrading(t *testing.T) {
	svc, store := newSubmissionFixture()
	les := opdragLes("Opdrag")
	gebruikerID := uuid.New()
	ctx := context.Background()

	first, err := svc.Submit(ctx, gebruikerID, &les, &model.SubmitOpdragRequest{TeksAntwoord: "eerste poging"})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// A moderator grades it in the meantime.
	punt := 40
	now := first.IngedienOp
	stored := store.records[progressKey(gebruikerID, les.ID)]
	stored.Status = model.IndieningGemerk
	stored.Punt = &punt
	stored.GemerkOp = &now
	stored.Terugvoer = "Brei uit op punt 2"

	second, err := svc.Submit(ctx, gebruikerID, &les, &model.SubmitOpdragRequest{TeksAntwoord: "tweede poging"})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmission must keep the record identity: %s vs %s", second.ID, first.ID)
	}
	if second.Status != model.IndieningIngedien {
		t.Fatalf("resubmission must go back in the grading queue, got %s", second.Status)
	}
	if second.Punt != nil || second.GemerkOp != nil {
		t.Fatal("old grade must be cleared on resubmission")
	}
	if second.Terugvoer != "Brei uit op punt 2" {
		t.Fatalf("feedback must be retained, got %q", second.Terugvoer)
	}
	if second.TeksAntwoord != "tweede poging" {
		t.Fatalf("content not replaced: %q", second.TeksAntwoord)
	}
}
