package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/kerkportaal/lms-backend/internal/repository"
	"github.com/rs/zerolog"
)

// CredentialStore is the credit persistence surface the service needs.
type CredentialStore interface {
	FindGrant(ctx context.Context, predikantID, kursusID uuid.UUID, jaar int) (*model.VBOIndiening, error)
	InsertGrant(ctx context.Context, v *model.VBOIndiening) error
	ListByPredikant(ctx context.Context, predikantID uuid.UUID) ([]model.VBOIndiening, error)
	ListRecent(ctx context.Context, limit int) ([]model.VBOIndiening, error)
	SummaryByYear(ctx context.Context, predikantID uuid.UUID) ([]model.VBOJaarOpsomming, error)
}

// CredentialService awards automatic VBO credits when a minister completes
// an eligible course. One grant per (minister, course, calendar year),
// whatever order or number of completion events arrives.
type CredentialService struct {
	credentials    CredentialStore
	defaultCredits int
	log            zerolog.Logger
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(credentials CredentialStore, defaultCredits int, log zerolog.Logger) *CredentialService {
	return &CredentialService{
		credentials:    credentials,
		defaultCredits: defaultCredits,
		log:            log.With().Str("component", "credential_service").Logger(),
	}
}

// AwardOnCourseCompletion grants VBO credits for a completed course when
// the user is a minister and the course is VBO-eligible. The award is a
// side effect of course completion: failures are logged, never surfaced to
// the completing request.
func (s *CredentialService) AwardOnCourseCompletion(ctx context.Context, user *model.Gebruiker, kursus *model.Kursus) {
	if user.Rol != model.RolPredikant || !kursus.IsVBOGeskik {
		return
	}

	jaar := time.Now().Year()

	existing, err := s.credentials.FindGrant(ctx, user.ID, kursus.ID, jaar)
	if err != nil {
		s.log.Error().Err(err).
			Str("predikant_id", user.ID.String()).
			Str("kursus_id", kursus.ID.String()).
			Msg("VBO grant lookup failed")
		return
	}
	if existing != nil {
		s.log.Debug().
			Str("predikant_id", user.ID.String()).
			Str("kursus_id", kursus.ID.String()).
			Int("jaar", jaar).
			Msg("VBO credits already granted")
		return
	}

	krediete := kursus.VBOKrediete
	if krediete <= 0 {
		krediete = s.defaultCredits
	}

	grant := &model.VBOIndiening{
		PredikantID:     user.ID,
		KursusID:        kursus.ID,
		Jaar:            jaar,
		Krediete:        krediete,
		Status:          model.VBOStatusGoedgekeur,
		IsOutomaties:    true,
		AktiwiteitTitel: kursus.Titel,
	}
	if err := s.credentials.InsertGrant(ctx, grant); err != nil {
		if errors.Is(err, repository.ErrGrantExists) {
			// A concurrent completion won the insert race.
			s.log.Debug().
				Str("predikant_id", user.ID.String()).
				Str("kursus_id", kursus.ID.String()).
				Msg("VBO grant lost insert race, already granted")
			return
		}
		s.log.Error().Err(err).
			Str("predikant_id", user.ID.String()).
			Str("kursus_id", kursus.ID.String()).
			Msg("VBO grant insert failed")
		return
	}

	s.log.Info().
		Str("predikant_id", user.ID.String()).
		Str("kursus_id", kursus.ID.String()).
		Int("jaar", jaar).
		Int("krediete", krediete).
		Msg("VBO credits granted")
}

// ListForPredikant returns a minister's credit entries, newest first.
func (s *CredentialService) ListForPredikant(ctx context.Context, predikantID uuid.UUID) ([]model.VBOIndiening, error) {
	entries, err := s.credentials.ListByPredikant(ctx, predikantID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.VBOIndiening{}
	}
	return entries, nil
}

// ListRecentGrants returns the newest credit entries across all ministers
// for the admin moderation view.
func (s *CredentialService) ListRecentGrants(ctx context.Context, limit int) ([]model.VBOIndiening, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.credentials.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.VBOIndiening{}
	}
	return entries, nil
}

// YearSummary returns a minister's approved credits aggregated per year.
func (s *CredentialService) YearSummary(ctx context.Context, predikantID uuid.UUID) ([]model.VBOJaarOpsomming, error) {
	summaries, err := s.credentials.SummaryByYear(ctx, predikantID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []model.VBOJaarOpsomming{}
	}
	return summaries, nil
}
