package models

// Categories is the closed category vocabulary accepted on writes.
var Categories = []string{
	"Breakfast",
	"Lunch",
	"Dinner",
	"Dessert",
	"Appetizer",
	"Snack",
	"Beverage",
	"Side Dish",
	"Vegetarian",
	"Other",
}

// IsKnownCategory reports whether c is in Categories. Matching is exact.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}
