package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

const (
	MinSeatsPerReservation = 1
	MaxSeatsPerReservation = 10
)

// Reservation records a confirmed seat allocation. All fields except Status
// are immutable once created; confirmed -> cancelled is the only legal
// transition and happens at most once.
type Reservation struct {
	ReservationID string
	EventID       string
	PartnerID     string
	Seats         int
	Status        ReservationStatus
	CreatedAt     time.Time
}
