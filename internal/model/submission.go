package model

import (
	"time"

	"github.com/google/uuid"
)

// IndieningStatus enumerates assignment submission states.
type IndieningStatus string

const (
	IndieningIngedien     IndieningStatus = "ingedien"
	IndieningGemerk       IndieningStatus = "gemerk"
	IndieningTeruggestuur IndieningStatus = "teruggestuur"
)

// Indiening is a user's assignment submission. One row exists per
// (gebruiker_id, les_id); resubmission overwrites it in place.
type Indiening struct {
	ID            uuid.UUID       `json:"id"`
	LesID         uuid.UUID       `json:"les_id"`
	GebruikerID   uuid.UUID       `json:"gebruiker_id"`
	TeksAntwoord  string          `json:"teks_antwoord,omitempty"`
	LeerURL       string          `json:"leer_url,omitempty"`
	Leernaam      string          `json:"leernaam,omitempty"`
	Status        IndieningStatus `json:"status"`
	Punt          *int            `json:"punt,omitempty"`
	MaksimumPunte int             `json:"maksimum_punte"`
	Terugvoer     string          `json:"terugvoer,omitempty"`
	IngedienOp    time.Time       `json:"ingedien_op"`
	GemerkOp      *time.Time      `json:"gemerk_op,omitempty"`
}

// SubmitOpdragRequest is the payload for an assignment submission. At
// least one of teks_antwoord and leer_url must be present.
type SubmitOpdragRequest struct {
	TeksAntwoord string `json:"teks_antwoord" binding:"max=20000"`
	LeerURL      string `json:"leer_url" binding:"omitempty,url"`
	Leernaam     string `json:"leernaam" binding:"max=255"`
}
