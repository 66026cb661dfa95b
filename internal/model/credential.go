package model

import (
	"time"

	"github.com/google/uuid"
)

// VBOIndieningStatus enumerates credit submission states. Automatic grants
// are approved on creation; the pending/rejected states exist for manual
// submissions handled by moderators.
type VBOIndieningStatus string

const (
	VBOStatusHangende   VBOIndieningStatus = "hangende"
	VBOStatusGoedgekeur VBOIndieningStatus = "goedgekeur"
	VBOStatusAfgekeur   VBOIndieningStatus = "afgekeur"
)

// VBOIndiening is a professional-development (VBO) credit entry for a
// minister. At most one exists per (predikant, kursus, jaar) — the
// idempotency boundary of the award engine.
type VBOIndiening struct {
	ID              uuid.UUID          `json:"id"`
	PredikantID     uuid.UUID          `json:"predikant_id"`
	KursusID        uuid.UUID          `json:"kursus_id"`
	Jaar            int                `json:"jaar"`
	Krediete        int                `json:"krediete"`
	Status          VBOIndieningStatus `json:"status"`
	IsOutomaties    bool               `json:"is_outomaties"`
	AktiwiteitTitel string             `json:"aktiwiteit_titel"`
	Notas           string             `json:"notas,omitempty"`
	GoedgekeurOp    *time.Time         `json:"goedgekeur_op,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// VBOJaarOpsomming summarizes a minister's credits for one calendar year.
type VBOJaarOpsomming struct {
	Jaar           int `json:"jaar"`
	TotaleKrediete int `json:"totale_krediete"`
	Indienings     int `json:"indienings"`
}
