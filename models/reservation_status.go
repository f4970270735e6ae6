package models

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// reservationNext mirrors the order table: one successor per non-terminal
// status, nothing after completed or cancelled.
var reservationNext = map[ReservationStatus]ReservationStatus{
	ReservationPending:   ReservationConfirmed,
	ReservationConfirmed: ReservationSeated,
	ReservationSeated:    ReservationCompleted,
}

// NextReservationStatus returns the successor of s, or ok=false if s is
// terminal or unknown.
func NextReservationStatus(s ReservationStatus) (ReservationStatus, bool) {
	next, ok := reservationNext[s]
	return next, ok
}

// CanCancelReservation reports whether a reservation in status s may be
// cancelled.
func CanCancelReservation(s ReservationStatus) bool {
	switch s {
	case ReservationCompleted, ReservationCancelled:
		return false
	}
	_, known := reservationNext[s]
	return known
}
