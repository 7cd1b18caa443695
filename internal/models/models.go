package models

import (
	"time"
)

const (
	RoleDelegate = "DELEGATE"
	RoleAdmin    = "ADMIN"
)

const (
	TournamentCampeonato = "CAMPEONATO_PANAMERICANO"
	TournamentCopa       = "COPA_PANAMERICANA"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"unique;not null"          json:"username"`
	PasswordHash string     `gorm:"not null"                 json:"-"`
	Country      string     `gorm:"size:3;not null;index"    json:"country"`
	Role         string     `gorm:"not null"                 json:"role"`
	Active       bool       `gorm:"default:true"             json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

type Tournament struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Type        string    `gorm:"not null"                 json:"type"`
	Description string    `json:"description"`
	StartDate   time.Time `gorm:"not null"                 json:"start_date"`
	EndDate     time.Time `gorm:"not null"                 json:"end_date"`
	Location    string    `json:"location"`
	Active      bool      `gorm:"default:true"             json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Gymnast is the local copy of a FIG-licensed athlete. Rows are
// upserted from the FIG API and referenced by choreographies.
type Gymnast struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FigID       string    `gorm:"unique;not null"          json:"fig_id"`
	FirstName   string    `gorm:"not null"                 json:"first_name"`
	LastName    string    `gorm:"not null"                 json:"last_name"`
	Gender      string    `json:"gender"`
	Country     string    `gorm:"size:3;not null;index"    json:"country"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Category    string    `json:"category"`
	LicenseEnd  time.Time `json:"license_end"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Choreography struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Category     string    `gorm:"not null"                 json:"category"`
	Type         string    `gorm:"not null"                 json:"type"`
	Country      string    `gorm:"size:3;not null;index"    json:"country"`
	TournamentID uint      `gorm:"index;not null"           json:"tournament_id"`
	Status       Status    `gorm:"not null;default:PENDING" json:"status"`
	Notes        string    `json:"notes"`
	Gymnasts     []Gymnast `gorm:"many2many:choreography_gymnasts" json:"gymnasts"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Coach struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FigID        string    `gorm:"not null"                 json:"fig_id"`
	FirstName    string    `gorm:"not null"                 json:"first_name"`
	LastName     string    `gorm:"not null"                 json:"last_name"`
	Gender       string    `json:"gender"`
	Country      string    `gorm:"size:3;not null;index"    json:"country"`
	Level        string    `gorm:"not null"                 json:"level"`
	TournamentID uint      `gorm:"index;not null"           json:"tournament_id"`
	Status       Status    `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Judge struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FigID        string    `gorm:"not null"                 json:"fig_id"`
	FirstName    string    `gorm:"not null"                 json:"first_name"`
	LastName     string    `gorm:"not null"                 json:"last_name"`
	Gender       string    `json:"gender"`
	Country      string    `gorm:"size:3;not null;index"    json:"country"`
	Category     string    `gorm:"not null"                 json:"category"`
	TournamentID uint      `gorm:"index;not null"           json:"tournament_id"`
	Status       Status    `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SupportStaff struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"not null"                 json:"first_name"`
	LastName     string    `gorm:"not null"                 json:"last_name"`
	Role         string    `gorm:"not null"                 json:"role"`
	Country      string    `gorm:"size:3;not null;index"    json:"country"`
	TournamentID uint      `gorm:"index;not null"           json:"tournament_id"`
	Status       Status    `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
