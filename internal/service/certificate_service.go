package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/rs/zerolog"
)

// CertificateStore persists issued certificates.
type CertificateStore interface {
	Insert(ctx context.Context, s *model.Sertifikaat) error
	ListByUser(ctx context.Context, gebruikerID uuid.UUID) ([]model.Sertifikaat, error)
}

// issueRequest is the payload sent to the external rendering service.
type issueRequest struct {
	GebruikerID uuid.UUID `json:"gebruiker_id"`
	KursusID    uuid.UUID `json:"kursus_id"`
	Naam        string    `json:"naam"`
	KursusTitel string    `json:"kursus_titel"`
}

// issueResponse is what the rendering service returns on success.
type issueResponse struct {
	SertifikaatNommer string `json:"sertifikaat_nommer"`
	SertifikaatURL    string `json:"sertifikaat_url"`
}

// CertificateService requests certificate rendering from the external
// service. Issuance is fire and forget: course completion never blocks on
// it and a failure costs the user a certificate, not their progress.
type CertificateService struct {
	client       *resty.Client
	certificates CertificateStore
	log          zerolog.Logger
}

// NewCertificateService creates a new CertificateService. baseURL may be
// empty, in which case issuance is disabled and requests are dropped with
// a log line.
func NewCertificateService(baseURL string, certificates CertificateStore, log zerolog.Logger) *CertificateService {
	// Single attempt only: a failed request is logged and dropped, never
	// replayed against a renderer that may not be idempotent.
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)

	return &CertificateService{
		client:       client,
		certificates: certificates,
		log:          log.With().Str("component", "certificate_service").Logger(),
	}
}

// RequestIssue asks the rendering service for a certificate in the
// background and records the result when it succeeds.
func (s *CertificateService) RequestIssue(user *model.Gebruiker, kursus *model.Kursus) {
	if s.client.BaseURL == "" {
		s.log.Warn().
			Str("kursus_id", kursus.ID.String()).
			Msg("Certificate service not configured, skipping issue request")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := s.issue(ctx, user, kursus); err != nil {
			s.log.Error().Err(err).
				Str("gebruiker_id", user.ID.String()).
				Str("kursus_id", kursus.ID.String()).
				Msg("Certificate issue failed")
		}
	}()
}

func (s *CertificateService) issue(ctx context.Context, user *model.Gebruiker, kursus *model.Kursus) error {
	var result issueResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(issueRequest{
			GebruikerID: user.ID,
			KursusID:    kursus.ID,
			Naam:        user.VolleNaam(),
			KursusTitel: kursus.Titel,
		}).
		SetResult(&result).
		Post("/certificates/issue")
	if err != nil {
		return fmt.Errorf("call rendering service: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("rendering service returned %s", resp.Status())
	}

	cert := &model.Sertifikaat{
		GebruikerID:       user.ID,
		KursusID:          kursus.ID,
		SertifikaatNommer: result.SertifikaatNommer,
		SertifikaatURL:    result.SertifikaatURL,
		UitgereikOp:       time.Now(),
		IsGeldig:          true,
	}
	if err := s.certificates.Insert(ctx, cert); err != nil {
		return fmt.Errorf("record certificate: %w", err)
	}

	s.log.Info().
		Str("gebruiker_id", user.ID.String()).
		Str("kursus_id", kursus.ID.String()).
		Str("nommer", cert.SertifikaatNommer).
		Msg("Certificate issued")
	return nil
}

// ListForUser returns a user's certificates, newest first.
func (s *CertificateService) ListForUser(ctx context.Context, gebruikerID uuid.UUID) ([]model.Sertifikaat, error) {
	certs, err := s.certificates.ListByUser(ctx, gebruikerID)
	if err != nil {
		return nil, err
	}
	if certs == nil {
		certs = []model.Sertifikaat{}
	}
	return certs, nil
}
