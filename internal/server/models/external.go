package models

// ExternalRecipe is a recipe-shaped record from a third-party provider.
// It is never stored and cannot be rated, commented or edited.
type ExternalRecipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Instructions string   `json:"instructions"`
	ImageURL     string   `json:"imageUrl"`
	Ingredients  []string `json:"ingredients"`
	Category     string   `json:"category"`
	AuthorName   string   `json:"author"`
	OwnerID      string   `json:"user"`
	IsExternal   bool     `json:"isExternal"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
}
