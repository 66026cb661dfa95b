package model

import "github.com/google/uuid"

// Bewys is the completion evidence a lesson-type handler presents to the
// completion coordinator. One concrete type exists per lesson type, so a
// mismatched pairing (e.g. a video-ended event for a quiz lesson) is
// rejected instead of silently marking the lesson complete.
type Bewys interface {
	// GeldigVir reports whether this evidence can complete a lesson of
	// the given type.
	GeldigVir(tipe LesTipe) bool
}

// TeksGelees completes a text lesson, either through the explicit
// "mark as done" action or implicitly by navigating past the lesson.
type TeksGelees struct {
	Implisiet bool
}

func (TeksGelees) GeldigVir(tipe LesTipe) bool { return tipe == LesTipeTeks }

// VideoKlaar completes a video lesson on the player's ended event.
// Posisie is the full duration, independent of checkpoint cadence.
type VideoKlaar struct {
	DuurSekondes int
}

func (VideoKlaar) GeldigVir(tipe LesTipe) bool { return tipe == LesTipeVideo }

// ToetsGeslaag completes a quiz/exam lesson with a passing attempt.
// A failing attempt never reaches the coordinator.
type ToetsGeslaag struct {
	AttemptID uuid.UUID
}

func (ToetsGeslaag) GeldigVir(tipe LesTipe) bool { return tipe.IsToets() }

// OpdragIngedien completes an assignment lesson on submission; grading is
// advisory and never gates progress.
type OpdragIngedien struct {
	SubmissionID uuid.UUID
}

func (OpdragIngedien) GeldigVir(tipe LesTipe) bool { return tipe == LesTipeOpdrag }
