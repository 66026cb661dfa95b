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

type progressFixture struct {
	svc     *service.ProgressService
	store   *fakeProgressStore
	awarder *fakeAwarder
	issuer  *fakeIssuer
	kursus  *model.Kursus
	user    *model.Gebruiker
}

func newProgressFixture(lesse ...model.Les) *progressFixture {
	store := newFakeProgressStore()
	awarder := &fakeAwarder{}
	issuer := &fakeIssuer{}
	kursus := buildCourse(lesse...)
	svc := service.NewProgressService(store, &fakeContent{kursus: kursus}, awarder, issuer, nil, zerolog.Nop())
	return &progressFixture{
		svc:     svc,
		store:   store,
		awarder: awarder,
		issuer:  issuer,
		kursus:  kursus,
		user:    &model.Gebruiker{ID: uuid.New(), Naam: "Jan", Van: "Malan", Rol: model.RolLidmaat, IsAktief: true},
	}
}

func TestCompleteLessonMarksComplete(t *testing.T) {
	fx := newProgressFixture(teksLes("Les 1"), teksLes("Les 2"))
	lesID := fx.kursus.Modules[0].Lesse[0].ID

	record, overall, err := fx.svc.CompleteLesson(context.Background(), fx.user, fx.kursus.ID, lesID, model.TeksGelees{})
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if record.Status != model.VorderingVoltooi {
		t.Fatalf("expected status voltooi, got %s", record.Status)
	}
	if record.VoltooiDatum == nil {
		t.Fatal("expected voltooi_datum to be set")
	}
	if overall.VoltooideLesse != 1 || overall.TotaleLesse != 2 {
		t.Fatalf("expected 1/2 complete, got %d/%d", overall.VoltooideLesse, overall.TotaleLesse)
	}
	if overall.KursusVoltooi {
		t.Fatal("course should not be complete after one of two lessons")
	}
	if fx.awarder.count() != 0 || fx.issuer.count() != 0 {
		t.Fatal("follow-ups must not fire on partial completion")
	}
}

func TestCompleteLessonRejectsMismatchedEvidence(t *testing.T) {
	fx := newProgressFixture(toetsLes("Toets", 70))
	lesID := fx.kursus.Modules[0].Lesse[0].ID

	_, _, err := fx.svc.CompleteLesson(context.Background(), fx.user, fx.kursus.ID, lesID, model.VideoKlaar{DuurSekondes: 300})
	if !errors.Is(err, service.ErrLessonTypeMismatch) {
		t.Fatalf("expected ErrLessonTypeMismatch, got %v", err)
	}
	if rec, _ := fx.store.GetByUserAndLesson(context.Background(), fx.user.ID, lesID); rec != nil {
		t.Fatal("no progress record expected after rejected evidence")
	}
}

func TestCompleteLessonUnknownLesson(t *testing.T) {
	fx := newProgressFixture(teksLes("Les 1"))

	_, _, err := fx.svc.CompleteLesson(context.Background(), fx.user, fx.kursus.ID, uuid.New(), model.TeksGelees{})
	if !errors.Is(err, service.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestCourseCompletionFiresFollowUps(t *testing.T) {
	fx := newProgressFixture(teksLes("Les 1"), videoLes("Les 2"))
	lesse := fx.kursus.Modules[0].Lesse
	ctx := context.Background()

	if _, _, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesse[0].ID, model.TeksGelees{}); err != nil {
		t.Fatalf("complete lesson 1: %v", err)
	}
	_, overall, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesse[1].ID, model.VideoKlaar{DuurSekondes: 640})
	if err != nil {
		t.Fatalf("complete lesson 2: %v", err)
	}
	if !overall.KursusVoltooi {
		t.Fatal("expected course complete")
	}
	if fx.awarder.count() != 1 {
		t.Fatalf("expected 1 award call, got %d", fx.awarder.count())
	}
	if fx.issuer.count() != 1 {
		t.Fatalf("expected 1 certificate request, got %d", fx.issuer.count())
	}

	// Repeating the final completion re-evaluates the idempotent award
	// but never requests another certificate.
	if _, _, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesse[1].ID, model.VideoKlaar{DuurSekondes: 640}); err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if fx.awarder.count() != 2 {
		t.Fatalf("expected the award to be re-evaluated, got %d calls", fx.awarder.count())
	}
	if fx.issuer.count() != 1 {
		t.Fatalf("certificate requested again: %d", fx.issuer.count())
	}
}

func TestAwardReEvaluatedAfterCourseComplete(t *testing.T) {
	fx := newProgressFixture(teksLes("Les 1"), teksLes("Les 2"))
	lesse := fx.kursus.Modules[0].Lesse
	ctx := context.Background()

	if _, _, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesse[0].ID, model.TeksGelees{}); err != nil {
		t.Fatalf("complete lesson 1: %v", err)
	}
	if _, _, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesse[1].ID, model.TeksGelees{}); err != nil {
		t.Fatalf("complete lesson 2: %v", err)
	}
	if fx.awarder.count() != 1 {
		t.Fatalf("expected 1 award call, got %d", fx.awarder.count())
	}

	// The award swallows its own persistence errors. If the first call
	// failed silently, a later completion in the complete course must give
	// it another chance.
	if _, _, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesse[0].ID, model.TeksGelees{Implisiet: true}); err != nil {
		t.Fatalf("re-completion: %v", err)
	}
	if fx.awarder.count() != 2 {
		t.Fatalf("award not re-evaluated: calls=%d", fx.awarder.count())
	}
	if fx.issuer.count() != 1 {
		t.Fatalf("certificate must fire on the transition only, got %d", fx.issuer.count())
	}
}

func TestRepeatedCompletionKeepsFirstDate(t *testing.T) {
	fx := newProgressFixture(teksLes("Les 1"), teksLes("Les 2"))
	lesID := fx.kursus.Modules[0].Lesse[0].ID
	ctx := context.Background()

	first, _, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesID, model.TeksGelees{})
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	again, _, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesID, model.TeksGelees{Implisiet: true})
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if !again.VoltooiDatum.Equal(*first.VoltooiDatum) {
		t.Fatalf("voltooi_datum changed on repeat: %v vs %v", again.VoltooiDatum, first.VoltooiDatum)
	}
}

func TestEmptyCourseNeverComplete(t *testing.T) {
	fx := newProgressFixture()

	overall, err := fx.svc.CourseProgress(context.Background(), fx.user.ID, fx.kursus)
	if err != nil {
		t.Fatalf("CourseProgress: %v", err)
	}
	if overall.KursusVoltooi {
		t.Fatal("a course with no lessons must never report complete")
	}
	if overall.Persentasie != 0 {
		t.Fatalf("expected 0%%, got %v", overall.Persentasie)
	}
}

func TestTouchAccessDoesNotDowngradeCompletion(t *testing.T) {
	fx := newProgressFixture(teksLes("Les 1"), teksLes("Les 2"))
	lesID := fx.kursus.Modules[0].Lesse[0].ID
	ctx := context.Background()

	if _, _, err := fx.svc.CompleteLesson(ctx, fx.user, fx.kursus.ID, lesID, model.TeksGelees{}); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if err := fx.svc.TouchAccess(ctx, fx.user.ID, fx.kursus.ID, lesID); err != nil {
		t.Fatalf("TouchAccess: %v", err)
	}
	rec, err := fx.svc.GetLessonProgress(ctx, fx.user.ID, lesID)
	if err != nil {
		t.Fatalf("GetLessonProgress: %v", err)
	}
	if rec.Status != model.VorderingVoltooi {
		t.Fatalf("status downgraded to %s after access", rec.Status)
	}
}
