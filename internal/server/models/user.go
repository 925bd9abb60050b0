package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Favorites    []string  `json:"favorites"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the public view of a user.
type Profile struct {
	Name    string    `json:"name"`
	Recipes []*Recipe `json:"recipes"`
}
