package model

import "github.com/google/uuid"

// LesView is the player payload for one opened lesson: the lesson itself
// plus everything the front end needs to render and resume it.
type LesView struct {
	Les           *Les         `json:"les"`
	Vordering     *Vordering   `json:"vordering,omitempty"`
	ResumePosisie int          `json:"resume_posisie"`
	Vrae          []Vraag      `json:"vrae,omitempty"`
	LaastePoging  *QuizAttempt `json:"laaste_poging,omitempty"`
	Indiening     *Indiening   `json:"indiening,omitempty"`
	VorigeLesID   *uuid.UUID   `json:"vorige_les_id,omitempty"`
	VolgendeLesID *uuid.UUID   `json:"volgende_les_id,omitempty"`
}

// VoltooiTeksRequest completes a text lesson. Implisiet marks completions
// that come from navigating past the lesson rather than the done button.
type VoltooiTeksRequest struct {
	Implisiet bool `json:"implisiet"`
}

// KontrolepuntRequest saves a periodic video playback position.
type KontrolepuntRequest struct {
	Posisie int `json:"posisie" binding:"min=0"`
	Duur    int `json:"duur" binding:"required,min=1"`
}

// VideoKlaarRequest completes a video lesson on the ended event.
type VideoKlaarRequest struct {
	Duur int `json:"duur" binding:"required,min=1"`
}

// KursusOorsig is the course overview payload: content tree plus the
// user's aggregate and per-lesson progress.
type KursusOorsig struct {
	Kursus    *Kursus          `json:"kursus"`
	Vordering *KursusVordering `json:"vordering"`
	Lesse     []Vordering      `json:"les_vordering"`
}
