package model

import (
	"time"

	"github.com/google/uuid"
)

// Rol enumerates portal user roles.
type Rol string

const (
	RolLidmaat   Rol = "lidmaat"
	RolPredikant Rol = "predikant"
	RolModerator Rol = "moderator"
	RolAdmin     Rol = "admin"
)

// Gebruiker represents a portal user (member, minister, moderator or admin).
type Gebruiker struct {
	ID           uuid.UUID `json:"id"`
	Naam         string    `json:"naam"`
	Van          string    `json:"van"`
	Epos         string    `json:"epos"`
	WagwoordHash string    `json:"-"`
	Rol          Rol       `json:"rol"`
	IsAktief     bool      `json:"is_aktief"`
	CreatedAt    time.Time `json:"created_at"`
}

// VolleNaam returns the display name used on certificates.
func (g *Gebruiker) VolleNaam() string {
	return g.Naam + " " + g.Van
}

// LoginRequest is the payload for member and admin login.
type LoginRequest struct {
	Epos     string `json:"epos" binding:"required,email"`
	Wagwoord string `json:"wagwoord" binding:"required,min=6,max=128"`
}
