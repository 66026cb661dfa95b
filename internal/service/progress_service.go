package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProgressStore is the progress persistence surface the service needs.
type ProgressStore interface {
	GetByUserAndLesson(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.Vordering, error)
	ListByUserAndCourse(ctx context.Context, gebruikerID, kursusID uuid.UUID) ([]model.Vordering, error)
	TouchAccess(ctx context.Context, gebruikerID, kursusID, lesID uuid.UUID) error
	MarkComplete(ctx context.Context, gebruikerID, kursusID, lesID uuid.UUID, toetsGeslaag *bool, videoDuur int) (*model.Vordering, error)
}

// ContentLoader returns the published content tree for a course.
type ContentLoader interface {
	GetContent(ctx context.Context, kursusID uuid.UUID) (*model.Kursus, error)
}

// CredentialAwarder evaluates an automatic credit award after a course
// completion. Implementations must be idempotent.
type CredentialAwarder interface {
	AwardOnCourseCompletion(ctx context.Context, user *model.Gebruiker, kursus *model.Kursus)
}

// CertificateIssuer requests certificate issuance after a course completion.
type CertificateIssuer interface {
	RequestIssue(user *model.Gebruiker, kursus *model.Kursus)
}

// ProgressService coordinates lesson completion: it validates the evidence
// against the lesson type, records the completion, recomputes course
// progress, and triggers the follow-ups. The certificate request fires only
// when a completion tips the course over; the credit award is re-evaluated
// on every completion of a complete course, since it is idempotent.
type ProgressService struct {
	progress ProgressStore
	content  ContentLoader
	awards   CredentialAwarder
	certs    CertificateIssuer
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	progress ProgressStore,
	content ContentLoader,
	awards CredentialAwarder,
	certs CertificateIssuer,
	rdb *redis.Client,
	log zerolog.Logger,
) *ProgressService {
	return &ProgressService{
		progress: progress,
		content:  content,
		awards:   awards,
		certs:    certs,
		rdb:      rdb,
		log:      log.With().Str("component", "progress_service").Logger(),
	}
}

// CompleteLesson marks a lesson complete for a user. The evidence must
// match the lesson type. Completing an already-complete lesson is a no-op
// on the record; the credit award is still re-evaluated while the course
// stands complete, the certificate request is not.
func (s *ProgressService) CompleteLesson(ctx context.Context, user *model.Gebruiker, kursusID, lesID uuid.UUID, bewys model.Bewys) (*model.Vordering, *model.KursusVordering, error) {
	kursus, err := s.content.GetContent(ctx, kursusID)
	if err != nil {
		return nil, nil, err
	}

	les := kursus.FindLes(lesID)
	if les == nil {
		return nil, nil, ErrLessonNotFound
	}
	if bewys == nil || !bewys.GeldigVir(les.Tipe) {
		return nil, nil, ErrLessonTypeMismatch
	}

	existing, err := s.progress.GetByUserAndLesson(ctx, user.ID, lesID)
	if err != nil {
		return nil, nil, fmt.Errorf("get progress: %w", err)
	}
	alreadyComplete := existing != nil && existing.Status == model.VorderingVoltooi

	var toetsGeslaag *bool
	videoDuur := 0
	switch b := bewys.(type) {
	case model.ToetsGeslaag:
		t := true
		toetsGeslaag = &t
	case model.VideoKlaar:
		videoDuur = b.DuurSekondes
	}

	record, err := s.progress.MarkComplete(ctx, user.ID, kursusID, lesID, toetsGeslaag, videoDuur)
	if err != nil {
		return nil, nil, fmt.Errorf("mark complete: %w", err)
	}

	overall, err := s.CourseProgress(ctx, user.ID, kursus)
	if err != nil {
		return nil, nil, err
	}

	// The idempotent award is re-evaluated on every completion while the
	// course is complete; the certificate request fires once, on the
	// transition.
	if overall.KursusVoltooi {
		if !alreadyComplete {
			s.onCourseCompleted(ctx, user, kursus)
		} else if s.awards != nil {
			s.awards.AwardOnCourseCompletion(ctx, user, kursus)
		}
	}

	s.publishRefresh(ctx, user.ID)
	return record, overall, nil
}

// CourseProgress computes the completed-over-total aggregate for a user in
// a course. A course with no lessons is never complete.
func (s *ProgressService) CourseProgress(ctx context.Context, gebruikerID uuid.UUID, kursus *model.Kursus) (*model.KursusVordering, error) {
	records, err := s.progress.ListByUserAndCourse(ctx, gebruikerID, kursus.ID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	voltooi := make(map[uuid.UUID]bool, len(records))
	for _, r := range records {
		if r.Status == model.VorderingVoltooi {
			voltooi[r.LesID] = true
		}
	}

	lesse := kursus.AlleLesse()
	done := 0
	for _, l := range lesse {
		if voltooi[l.ID] {
			done++
		}
	}

	overall := &model.KursusVordering{
		KursusID:       kursus.ID,
		TotaleLesse:    len(lesse),
		VoltooideLesse: done,
	}
	if len(lesse) > 0 {
		overall.Persentasie = float64(done) / float64(len(lesse)) * 100
		overall.KursusVoltooi = done == len(lesse)
	}
	return overall, nil
}

// ListCourseProgress returns the user's per-lesson records for a course.
func (s *ProgressService) ListCourseProgress(ctx context.Context, gebruikerID, kursusID uuid.UUID) ([]model.Vordering, error) {
	return s.progress.ListByUserAndCourse(ctx, gebruikerID, kursusID)
}

// TouchAccess records that the user opened a lesson.
func (s *ProgressService) TouchAccess(ctx context.Context, gebruikerID, kursusID, lesID uuid.UUID) error {
	return s.progress.TouchAccess(ctx, gebruikerID, kursusID, lesID)
}

// GetLessonProgress returns the progress record for one lesson, or nil.
func (s *ProgressService) GetLessonProgress(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.Vordering, error) {
	return s.progress.GetByUserAndLesson(ctx, gebruikerID, lesID)
}

func (s *ProgressService) onCourseCompleted(ctx context.Context, user *model.Gebruiker, kursus *model.Kursus) {
	s.log.Info().
		Str("gebruiker_id", user.ID.String()).
		Str("kursus_id", kursus.ID.String()).
		Msg("Course completed")

	if s.awards != nil {
		s.awards.AwardOnCourseCompletion(ctx, user, kursus)
	}
	if s.certs != nil {
		s.certs.RequestIssue(user, kursus)
	}
}

// publishRefresh notifies the user's open WebSocket streams that their
// progress changed. Delivery is best effort.
func (s *ProgressService) publishRefresh(ctx context.Context, gebruikerID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	channel := config.CacheKey.ProgressChannel(gebruikerID)
	if err := s.rdb.Publish(ctx, channel, "refresh").Err(); err != nil {
		s.log.Warn().Err(err).Msg("Progress refresh publish failed")
	}
}
