package domain

import "time"

// BookingRequest captures the booking attributes pricing is computed from.
// Date is a calendar date (time of day is ignored); Time is a 12-hour clock
// string such as "7:00 PM".
type BookingRequest struct {
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	PartySize int       `json:"party_size"`
	Occasion  string    `json:"occasion,omitempty"`
}

// Validate checks the booking request fields.
func (b BookingRequest) Validate() error {
	if b.Date.IsZero() {
		return NewInvalidInputError("booking date is required", "")
	}
	if b.Time == "" {
		return NewInvalidInputError("booking time is required", "")
	}
	if b.PartySize <= 0 {
		return NewInvalidInputError("party size must be positive", "")
	}
	return nil
}

// OccupancyData is a read-only fact supplied by the occupancy collaborator.
// Rate is a percentage in [0,100].
type OccupancyData struct {
	Date time.Time `json:"date"`
	Time string    `json:"time"`
	Rate float64   `json:"rate"`
}

// SpecialDate is a read-only fact supplied by the special-date collaborator.
type SpecialDate struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}
