package models

import "time"

// Trainer is read-only directory data; the booking core never mutates it.
type Trainer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Specialization  string    `json:"specialization"`
	Bio             string    `json:"bio"`
	HourlyRate      float64   `json:"hourly_rate"`
	Rating          float64   `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
	ExperienceYears int       `json:"experience_years"`
	Certifications  []string  `json:"certifications"`
	Availability    []string  `json:"availability"`
	ProfileImage    string    `json:"profile_image,omitempty"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}
