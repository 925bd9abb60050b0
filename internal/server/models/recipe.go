// Package models defines server-side data models persisted in the database
// and returned by the API.
package models

import (
	"math"
	"time"
)

// Recipe is the central entity. Ratings and comments are embedded so a
// recipe is read and returned as one document.
type Recipe struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"user"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Instructions string    `json:"instructions"`
	Ingredients  []string  `json:"ingredients"`
	Category     string    `json:"category,omitempty"`
	ImageURL     string    `json:"imageUrl"`
	ImageKey     string    `json:"-"`
	AuthorName   string    `json:"author"`
	Ratings      []Rating  `json:"ratings"`
	Comments     []Comment `json:"comments"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Rating is a single user's 1–5 score. A recipe holds at most one per user.
type Rating struct {
	UserID string `json:"user"`
	Value  int    `json:"value"`
}

// Comment is an entry of a recipe's comment ledger.
type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user"`
	AuthorName string    `json:"name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"date"`
}

// RecipeFields carries the owner-editable part of a recipe. Nil pointers
// mean "not supplied".
type RecipeFields struct {
	Title        *string
	Description  *string
	Instructions *string
	Ingredients  []string
	Category     *string
}

// Suggestion is an autocomplete hit.
type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// RecipePage is one window of the feed.
type RecipePage struct {
	Recipes []*Recipe `json:"recipes"`
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
}

// AverageRating returns the mean of the ratings rounded to one decimal.
// ok is false when there are no ratings ("not yet rated").
func AverageRating(ratings []Rating) (avg float64, ok bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10, true
}

// RatingOf returns the value userID gave, or 0.
func (r *Recipe) RatingOf(userID string) int {
	for _, rt := range r.Ratings {
		if rt.UserID == userID {
			return rt.Value
		}
	}
	return 0
}

// FindComment returns the comment with the given id, or nil.
func (r *Recipe) FindComment(id string) *Comment {
	for i := range r.Comments {
		if r.Comments[i].ID == id {
			return &r.Comments[i]
		}
	}
	return nil
}
