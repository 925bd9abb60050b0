package external

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/recipeshare/internal/server/models"
)

const (
	maxIngredientSlots = 20
	descriptionLength  = 150

	defaultAuthor    = "TheMealDB"
	noDescription    = "No description available."
	externalOwner    = "external"
	externalIDPrefix = "external-"
	ellipsis         = "..."
)

func field(meal map[string]*string, key string) string {
	if v, ok := meal[key]; ok && v != nil {
		return *v
	}
	return ""
}

// AdaptMeal converts one TheMealDB meal object into an ExternalRecipe.
func AdaptMeal(meal map[string]*string) models.ExternalRecipe {
	instructions := field(meal, "strInstructions")
	source := field(meal, "strSource")

	description := noDescription
	if instructions != "" {
		description = truncate(instructions, descriptionLength) + ellipsis         
	}

	return models.ExternalRecipe{
		ID:           externalIDPrefix + field(meal, "idMeal"),
		Title:        field(meal, "strMeal"),
		Description:  description,
		Instructions: instructions,
		ImageURL:     field(meal, "strMealThumb"),
		Ingredients:  ingredients(meal),
		Category:     field(meal, "strCategory"),
		AuthorName:   author(source),
		OwnerID:      externalOwner,
		IsExternal:   true,
		SourceURL:    source,
	}
}

func ingredients(meal map[string]*string) []string {
	out := []string{}
	for i := 1; i <= maxIngredientSlots; i++ {
		name := strings.TrimSpace(field(meal, fmt.Sprintf("strIngredient%d", i)))
		if name == "" {
			continue
		}
		measure := strings.TrimSpace(field(meal, fmt.Sprintf("strMeasure%d", i)))
		out = append(out, strings.TrimSpace(measure+" "+name))
	}
	return out
}

// author is the source hostname without "www.", or TheMealDB when the
// source is missing or unparsable.
func author(source string) string {
	if source == "" {
		return defaultAuthor
	}
	u, err := url.Parse(source)
	if err != nil || u.Hostname() == "" {
		return defaultAuthor
	}
	return strings.Replace(u.Hostname(), "www.", "", 1)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
