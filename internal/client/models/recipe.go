// Package models holds the client-side views of API payloads.
package models

import "time"

type Rating struct {
	UserID string `json:"user"`
	Value  int    `json:"value"`
}

type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user"`
	AuthorName string    `json:"name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"date"`
}

// Recipe is a recipe as returned by the API, with the derived rating fields.
type Recipe struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"user"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Instructions  string    `json:"instructions"`
	Ingredients   []string  `json:"ingredients"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"imageUrl"`
	AuthorName    string    `json:"author"`
	Ratings       []Rating  `json:"ratings"`
	Comments      []Comment `json:"comments"`
	AverageRating *float64  `json:"averageRating"`
	RatingCount   int       `json:"ratingCount"`
	CreatedAt     time.Time `json:"createdAt"`

	// External provider records only.
	IsExternal bool   `json:"isExternal"`
	SourceURL  string `json:"sourceUrl"`
}

type RecipePage struct {
	Recipes []Recipe `json:"recipes"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
}

type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewRecipe is the payload of a recipe write. Nil fields are not sent.
type NewRecipe struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Instructions *string  `json:"instructions,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Category     *string  `json:"category,omitempty"`
}
