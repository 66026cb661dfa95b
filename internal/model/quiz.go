package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// VraagTipe enumerates quiz question types.
type VraagTipe string

const (
	VraagTipeMCQ       VraagTipe = "mcq"
	VraagTipeTrueFalse VraagTipe = "true_false"
	VraagTipeTeks      VraagTipe = "text"
)

// Vraag is a single quiz/exam question. KorrekteAntwoord never leaves the
// backend; the player payload only carries the prompt and options.
type Vraag struct {
	ID               uuid.UUID       `json:"id"`
	LesID            uuid.UUID       `json:"les_id"`
	VraagTeks        string          `json:"vraag_teks"`
	VraagTipe        VraagTipe       `json:"vraag_tipe"`
	Opsies           json.RawMessage `json:"opsies,omitempty"`
	KorrekteAntwoord string          `json:"-"`
	Punte            int             `json:"punte"`
	Volgorde         int             `json:"volgorde"`
}

// QuizAttempt records one scored quiz submission. Attempts are append-only;
// the most recent determines current mastery, all are retained for audit.
type QuizAttempt struct {
	ID            uuid.UUID         `json:"id"`
	LesID         uuid.UUID         `json:"les_id"`
	GebruikerID   uuid.UUID         `json:"gebruiker_id"`
	Telling       int               `json:"telling"`
	MaksimumPunte int               `json:"maksimum_punte"`
	Persentasie   float64           `json:"persentasie"`
	Geslaag       bool              `json:"geslaag"`
	Antwoorde     map[string]string `json:"antwoorde"`
	VoltooiOp     time.Time         `json:"voltooi_op"`
}

// SubmitQuizRequest is the payload for a quiz submission: question ID to
// submitted answer.
type SubmitQuizRequest struct {
	Antwoorde map[string]string `json:"antwoorde" binding:"required"`
}

// QuizUitslag is the outcome returned to the player after an attempt.
type QuizUitslag struct {
	Telling       int     `json:"telling"`
	MaksimumPunte int     `json:"maksimum_punte"`
	Persentasie   float64 `json:"persentasie"`
	Geslaag       bool    `json:"geslaag"`
	// TeksPunteHangende is the number of free-text questions awaiting
	// manual grading (auto-scored as zero).
	TeksPunteHangende int `json:"teks_punte_hangende"`
}
