package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// LesTipe enumerates lesson types.
type LesTipe string

const (
	LesTipeTeks    LesTipe = "teks"
	LesTipeVideo   LesTipe = "video"
	LesTipeToets   LesTipe = "toets"
	LesTipeEksamen LesTipe = "eksamen"
	LesTipeOpdrag  LesTipe = "opdrag"
)

// IsToets reports whether the type is quiz-like (toets or eksamen share
// the same completion rule: pass required).
func (t LesTipe) IsToets() bool {
	return t == LesTipeToets || t == LesTipeEksamen
}

// LesDetail is the type-specific payload of a lesson. Exactly one concrete
// detail exists per lesson type; fields that only make sense for one type
// live here instead of as optionals on Les.
type LesDetail interface {
	Tipe() LesTipe
}

// TeksDetail carries the body of a text lesson (markdown or HTML).
type TeksDetail struct {
	Inhoud string
}

func (TeksDetail) Tipe() LesTipe { return LesTipeTeks }

// VideoDetail carries the video reference plus optional notes shown below it.
type VideoDetail struct {
	VideoURL string
	Inhoud   string
}

func (VideoDetail) Tipe() LesTipe { return LesTipeVideo }

// ToetsDetail carries the pass threshold for a quiz or exam lesson.
// Questions belong to the question store, not the lesson record.
type ToetsDetail struct {
	SlaagPersentasie float64
	IsEksamen        bool
}

func (d ToetsDetail) Tipe() LesTipe {
	if d.IsEksamen {
		return LesTipeEksamen
	}
	return LesTipeToets
}

// OpdragDetail carries the assignment prompt and its maximum score.
type OpdragDetail struct {
	Inhoud        string
	MaksimumPunte int
}

func (OpdragDetail) Tipe() LesTipe { return LesTipeOpdrag }

// Les represents a single lesson: the atomic unit of course content.
type Les struct {
	ID         uuid.UUID
	ModuleID   uuid.UUID
	KursusID   uuid.UUID
	Titel      string
	Tipe       LesTipe
	DuurMinute int
	Volgorde   int
	IsAktief   bool
	Detail     LesDetail
}

// lesJSON is the wire shape the portal front end consumes: the variant
// payload flattened onto the lesson record.
type lesJSON struct {
	ID               uuid.UUID `json:"id"`
	ModuleID         uuid.UUID `json:"module_id"`
	KursusID         uuid.UUID `json:"kursus_id"`
	Titel            string    `json:"titel"`
	Tipe             LesTipe   `json:"tipe"`
	DuurMinute       int       `json:"duur_minute"`
	Volgorde         int       `json:"volgorde"`
	IsAktief         bool      `json:"is_aktief"`
	Inhoud           string    `json:"inhoud,omitempty"`
	VideoURL         string    `json:"video_url,omitempty"`
	SlaagPersentasie *float64  `json:"slaag_persentasie,omitempty"`
	MaksimumPunte    *int      `json:"maksimum_punte,omitempty"`
}

// MarshalJSON flattens the detail union for the front end.
func (l Les) MarshalJSON() ([]byte, error) {
	out := lesJSON{
		ID:         l.ID,
		ModuleID:   l.ModuleID,
		KursusID:   l.KursusID,
		Titel:      l.Titel,
		Tipe:       l.Tipe,
		DuurMinute: l.DuurMinute,
		Volgorde:   l.Volgorde,
		IsAktief:   l.IsAktief,
	}
	switch d := l.Detail.(type) {
	case TeksDetail:
		out.Inhoud = d.Inhoud
	case VideoDetail:
		out.VideoURL = d.VideoURL
		out.Inhoud = d.Inhoud
	case ToetsDetail:
		out.SlaagPersentasie = &d.SlaagPersentasie
	case OpdragDetail:
		out.Inhoud = d.Inhoud
		if d.MaksimumPunte > 0 {
			out.MaksimumPunte = &d.MaksimumPunte
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the detail union from the flattened wire shape,
// so a cached payload round-trips.
func (l *Les) UnmarshalJSON(data []byte) error {
	var in lesJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	l.ID = in.ID
	l.ModuleID = in.ModuleID
	l.KursusID = in.KursusID
	l.Titel = in.Titel
	l.Tipe = in.Tipe
	l.DuurMinute = in.DuurMinute
	l.Volgorde = in.Volgorde
	l.IsAktief = in.IsAktief

	switch in.Tipe {
	case LesTipeTeks:
		l.Detail = TeksDetail{Inhoud: in.Inhoud}
	case LesTipeVideo:
		l.Detail = VideoDetail{VideoURL: in.VideoURL, Inhoud: in.Inhoud}
	case LesTipeToets, LesTipeEksamen:
		d := ToetsDetail{IsEksamen: in.Tipe == LesTipeEksamen}
		if in.SlaagPersentasie != nil {
			d.SlaagPersentasie = *in.SlaagPersentasie
		}
		l.Detail = d
	case LesTipeOpdrag:
		d := OpdragDetail{Inhoud: in.Inhoud}
		if in.MaksimumPunte != nil {
			d.MaksimumPunte = *in.MaksimumPunte
		}
		l.Detail = d
	}
	return nil
}

// SlaagPersentasie returns the pass threshold for quiz/exam lessons, 0 otherwise.
func (l *Les) SlaagPersentasie() float64 {
	if d, ok := l.Detail.(ToetsDetail); ok {
		return d.SlaagPersentasie
	}
	return 0
}

// MaksimumPunte returns the assignment maximum score, defaulting to 100
// when unset, and 0 for non-assignment lessons.
func (l *Les) MaksimumPunte() int {
	d, ok := l.Detail.(OpdragDetail)
	if !ok {
		return 0
	}
	if d.MaksimumPunte <= 0 {
		return 100
	}
	return d.MaksimumPunte
}
