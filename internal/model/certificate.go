package model

import (
	"time"

	"github.com/google/uuid"
)

// Sertifikaat is an issued course-completion certificate. The number is
// generated by the external rendering service; issuance is requested, not
// locally serialized, so uniqueness per (gebruiker, kursus) is expected
// but not enforced here.
type Sertifikaat struct {
	ID                uuid.UUID `json:"id"`
	GebruikerID       uuid.UUID `json:"gebruiker_id"`
	KursusID          uuid.UUID `json:"kursus_id"`
	SertifikaatNommer string    `json:"sertifikaat_nommer"`
	SertifikaatURL    string    `json:"sertifikaat_url,omitempty"`
	UitgereikOp       time.Time `json:"uitgereik_op"`
	IsGeldig          bool      `json:"is_geldig"`
}
