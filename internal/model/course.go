package model

import (
	"time"

	"github.com/google/uuid"
)

// Kursus represents an LMS course.
type Kursus struct {
	ID            uuid.UUID `json:"id"`
	Titel         string    `json:"titel"`
	Beskrywing    string    `json:"beskrywing,omitempty"`
	IsGratis      bool      `json:"is_gratis"`
	Prys          float64   `json:"prys"`
	IsVBOGeskik   bool      `json:"is_vbo_geskik"`
	VBOKrediete   int       `json:"vbo_krediete"`
	DuurMinute    int       `json:"duur_minute"`
	IsGepubliseer bool      `json:"is_gepubliseer"`
	IsAktief      bool      `json:"is_aktief"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Modules is populated by CourseRepository.GetWithContent, ordered by
	// volgorde, with each module's lessons ordered likewise.
	Modules []Module `json:"modules,omitempty"`
}

// Module groups an ordered run of lessons within a course.
type Module struct {
	ID       uuid.UUID `json:"id"`
	KursusID uuid.UUID `json:"kursus_id"`
	Titel    string    `json:"titel"`
	Volgorde int       `json:"volgorde"`
	IsAktief bool      `json:"is_aktief"`
	Lesse    []Les     `json:"lesse,omitempty"`
}

// AlleLesse flattens the course's modules into the single ordered lesson
// list the player navigates over.
func (k *Kursus) AlleLesse() []Les {
	var lesse []Les
	for _, m := range k.Modules {
		lesse = append(lesse, m.Lesse...)
	}
	return lesse
}

// FindLes looks a lesson up by ID within the course content.
func (k *Kursus) FindLes(lesID uuid.UUID) *Les {
	for mi := range k.Modules {
		for li := range k.Modules[mi].Lesse {
			if k.Modules[mi].Lesse[li].ID == lesID {
				return &k.Modules[mi].Lesse[li]
			}
		}
	}
	return nil
}
