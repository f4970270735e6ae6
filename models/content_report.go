package models

import "time"

type ContentReport struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ReporterID     *uint     `gorm:"index" json:"reporter_id,omitempty"`
	Reporter       *User     `gorm:"foreignKey:ReporterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"reporter,omitempty"`
	PostID         uint      `gorm:"not null;index" json:"post_id"`
	Post           Post      `gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"post"`
	Reason         string    `gorm:"type:varchar(255);not null" json:"reason"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending, reviewed, resolved, dismissed
	ResolutionNote *string   `gorm:"type:text" json:"resolution_note,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
