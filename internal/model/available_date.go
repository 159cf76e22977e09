package model

import "time"

// AvailableDate is an admin-curated bookable date.
type AvailableDate struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddDateRequest is the payload for /admin/add-date.
type AddDateRequest struct {
	Date string `json:"date" binding:"required,max=32"`
	Year int    `json:"year" binding:"required"`
}
