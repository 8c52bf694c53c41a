package models

import "time"

type Reservation struct {
	ID              string    `json:"id"`
	TableID         string    `json:"tableId"`
	TableNumber     int       `json:"tableNumber"` // snapshot of the table number at booking time
	HallID          string    `json:"hallId"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	Guests          int       `json:"guests"`
	Date            time.Time `json:"date"` // calendar day, time-of-day always midnight
	Time            string    `json:"time"` // HH:MM, 24-hour, restaurant-local
	Duration        float64   `json:"duration"` // hours
	Status          string    `json:"status"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ReservationPatch carries partial updates; nil fields are left untouched.
type ReservationPatch struct {
	TableID         *string  `json:"tableId"`
	HallID          *string  `json:"hallId"`
	CustomerName    *string  `json:"customerName"`
	CustomerPhone   *string  `json:"customerPhone"`
	Guests          *int     `json:"guests"`
	Date            *string  `json:"date"`
	Time            *string  `json:"time"`
	Duration        *float64 `json:"duration"`
	Status          *string  `json:"status"`
	SpecialRequests *string  `json:"specialRequests"`
}

// ReservationFilter narrows List queries; zero values mean "no filter".
type ReservationFilter struct {
	Date    time.Time
	HallID  string
	Status  string
	TableID string
}
