package event

import "time"

// Event is a mutable aggregate; Attendees carries set semantics enforced by
// the store's conditional append.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ClubID        string    `json:"clubId"`
	ClubName      string    `json:"clubName,omitempty"`
	Description   string    `json:"description,omitempty"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location,omitempty"`
	FeeMinorUnits int64     `json:"feeMinorUnits"`
	Attendees     []string  `json:"attendees"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Update struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	FeeMinorUnits int64     `json:"feeMinorUnits"`
}
