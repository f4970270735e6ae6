package models

import "time"

type SeatingPreference string

const (
	SeatingNoPreference SeatingPreference = "no_preference"
	SeatingIndoor       SeatingPreference = "indoor"
	SeatingOutdoor      SeatingPreference = "outdoor"
	SeatingBar          SeatingPreference = "bar"
	SeatingWindow       SeatingPreference = "window"
)

type Reservation struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"not null;index" json:"business_id"`

	CustomerName  string  `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail *string `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	CustomerPhone *string `gorm:"type:varchar(50)" json:"customer_phone,omitempty"`

	Date            string `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	Time            string `gorm:"type:varchar(5);not null" json:"time"`        // HH:MM
	PartySize       int    `gorm:"not null" json:"party_size"`
	DurationMinutes int    `gorm:"not null;default:90" json:"duration_minutes"`

	// Table assignment is a side attribute, changed independently of
	// status. Capacity and conflict checks stay with the availability
	// lookup; nothing here re-validates them.
	TableID *uint  `gorm:"index" json:"table_id,omitempty"`
	Table   *Table `gorm:"foreignKey:TableID" json:"table,omitempty"`

	SeatingPreference SeatingPreference `gorm:"type:varchar(20);not null;default:'no_preference'" json:"seating_preference"`
	SpecialRequests   string            `gorm:"type:text" json:"special_requests"`
	Occasion          *string           `gorm:"type:varchar(50)" json:"occasion,omitempty"`

	Status        ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	InternalNotes string            `gorm:"type:text" json:"internal_notes"`
	Source        string            `gorm:"type:varchar(20);not null;default:'staff'" json:"source"` // staff, online

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
