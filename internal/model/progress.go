package model

import (
	"time"

	"github.com/google/uuid"
)

// VorderingStatus enumerates per-lesson progress states.
type VorderingStatus string

const (
	VorderingBegin     VorderingStatus = "begin"
	VorderingInProgres VorderingStatus = "in_vordering"
	VorderingVoltooi   VorderingStatus = "voltooi"
)

// Vordering is the persisted progress record for one user on one lesson.
// At most one row exists per (gebruiker_id, les_id); all writes are
// upserts by that key, and status never downgrades from voltooi.
type Vordering struct {
	ID             uuid.UUID       `json:"id"`
	GebruikerID    uuid.UUID       `json:"gebruiker_id"`
	KursusID       uuid.UUID       `json:"kursus_id"`
	LesID          uuid.UUID       `json:"les_id"`
	Status         VorderingStatus `json:"status"`
	ToetsGeslaag   *bool           `json:"toets_geslaag,omitempty"`
	VideoPosisie   int             `json:"video_posisie"`
	VideoDuur      int             `json:"video_duur"`
	LastAccessedAt *time.Time      `json:"last_accessed_at,omitempty"`
	VoltooiDatum   *time.Time      `json:"voltooi_datum,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// VideoCheckpoint is the queue payload for a periodic playback position
// save. Last write wins; the worker batches these into lms_vordering.
type VideoCheckpoint struct {
	GebruikerID uuid.UUID `json:"gebruiker_id"`
	KursusID    uuid.UUID `json:"kursus_id"`
	LesID       uuid.UUID `json:"les_id"`
	Posisie     int       `json:"posisie"`
	Duur        int       `json:"duur"`
}

// KursusVordering is the aggregate shown after every mutating player
// operation: completed lessons over total lessons.
type KursusVordering struct {
	KursusID       uuid.UUID `json:"kursus_id"`
	TotaleLesse    int       `json:"totale_lesse"`
	VoltooideLesse int       `json:"voltooide_lesse"`
	Persentasie    float64   `json:"persentasie"`
	KursusVoltooi  bool      `json:"kursus_voltooi"`
}
