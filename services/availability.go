package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/models"
)

// FallbackSlots is the fixed list offered when a business has no bookable
// data for the requested date: lunch and dinner half-hours.
var FallbackSlots = []string{
	"11:00", "11:30", "12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"17:00", "17:30", "18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30",
}

type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// Slots returns the bookable times for a date and party size. Tables that
// can hold the party define capacity; a slot is dropped only when every
// capable table already has a reservation starting at that exact time.
// Overlap detection beyond that is out of scope here.
func (s *AvailabilityService) Slots(businessID uint, date string, partySize int) ([]string, error) {
	var tables []models.Table
	if err := s.DB.
		Where("business_id = ? AND active = ? AND max_capacity >= ?", businessID, true, partySize).
		Find(&tables).Error; err != nil {
		return nil, err
	}

	var hours []models.BusinessHour
	if err := s.DB.
		Where("business_id = ?", businessID).
		Order("open asc").
		Find(&hours).Error; err != nil {
		return nil, err
	}

	// No capable tables or no configured hours: offer the static fallback.
	if len(tables) == 0 || len(hours) == 0 {
		return FallbackSlots, nil
	}

	candidates := make([]string, 0)
	for _, window := range hours {
		candidates = append(candidates, halfHourSlots(window.Open, window.Close)...)
	}
	if len(candidates) == 0 {
		return FallbackSlots, nil
	}

	var reservations []models.Reservation
	if err := s.DB.
		Where("business_id = ? AND date = ? AND status NOT IN ?",
			businessID, date, []models.ReservationStatus{models.ReservationCancelled, models.ReservationCompleted}).
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	bookedAt := make(map[string]int)
	for _, r := range reservations {
		bookedAt[r.Time]++
	}

	open := make([]string, 0, len(candidates))
	for _, slot := range candidates {
		if bookedAt[slot] < len(tables) {
			open = append(open, slot)
		}
	}
	return open, nil
}

// halfHourSlots expands an open/close window ("HH:MM", close inclusive)
// into half-hour start times. Malformed windows yield nothing.
func halfHourSlots(open, close string) []string {
	start, err := time.Parse("15:04", open)
	if err != nil {
		return nil
	}
	end, err := time.Parse("15:04", close)
	if err != nil || end.Before(start) {
		return nil
	}

	var slots []string
	for t := start; !t.After(end); t = t.Add(30 * time.Minute) {
		slots = append(slots, t.Format("15:04"))
	}
	return slots
}
