package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/rs/zerolog"
)

// SubmissionStore persists assignment submissions.
type SubmissionStore interface {
	GetByUserAndLesson(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.Indiening, error)
	Upsert(ctx context.Context, s *model.Indiening) (*model.Indiening, error)
}

// SubmissionService handles assignment hand-ins. Submission completes the
// lesson; grading happens later and never reopens it.
type SubmissionService struct {
	submissions SubmissionStore
	log         zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(submissions SubmissionStore, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		log:         log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit stores an assignment submission. At least one of the text answer
// and file URL must be present. Resubmitting replaces the earlier content
// under the same record and puts it back in the grading queue.
func (s *SubmissionService) Submit(ctx context.Context, gebruikerID uuid.UUID, les *model.Les, req *model.SubmitOpdragRequest) (*model.Indiening, error) {
	if les.Tipe != model.LesTipeOpdrag {
		return nil, ErrLessonTypeMismatch
	}

	teks := strings.TrimSpace(req.TeksAntwoord)
	if teks == "" && req.LeerURL == "" {
		return nil, ErrEmptySubmission
	}

	record, err := s.submissions.Upsert(ctx, &model.Indiening{
		GebruikerID:   gebruikerID,
		LesID:         les.ID,
		TeksAntwoord:  teks,
		LeerURL:       req.LeerURL,
		Leernaam:      req.Leernaam,
		MaksimumPunte: les.MaksimumPunte(),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert submission: %w", err)
	}

	s.log.Info().
		Str("gebruiker_id", gebruikerID.String()).
		Str("les_id", les.ID.String()).
		Msg("Assignment submitted")
	return record, nil
}

// GetForLesson returns the user's submission for a lesson, or nil.
func (s *SubmissionService) GetForLesson(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.Indiening, error) {
	return s.submissions.GetByUserAndLesson(ctx, gebruikerID, lesID)
}
