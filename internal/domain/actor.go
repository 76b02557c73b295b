package domain

import (
	"time"
)

// Role constants for the three principal types.
const (
	RoleAdmin    = "admin"
	RoleArtist   = "artist"
	RoleCustomer = "customer"
)

// Admin represents a platform operator account.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Artist represents a makeup artist offering services on the platform.
// Artists must be approved by an admin before they appear in listings
// and can accept bookings.
type Artist struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	IsApproved   bool      `json:"is_approved"`
	IsActive     bool      `json:"is_active"`
	Rating       float64   `json:"rating"`
	RatingCount  int       `json:"rating_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApplyRating folds a new review score into the artist's running average.
func (a *Artist) ApplyRating(score float64) {
	total := a.Rating*float64(a.RatingCount) + score
	a.RatingCount++
	a.Rating = total / float64(a.RatingCount)
}

// Customer represents a customer account that books artists.
type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRoles returns all principal roles.
func ValidRoles() []string {
	return []string{RoleAdmin, RoleArtist, RoleCustomer}
}

// IsValidRole checks whether the given role is one of the principal roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}
