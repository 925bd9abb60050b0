package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/recipeshare/internal/client/models"
)

func ratingLabel(r *models.Recipe) string {
	if r.AverageRating == nil {
		return "not yet rated"
	}
	return fmt.Sprintf("%.1f/5 (%d ratings)", *r.AverageRating, r.RatingCount)
}

func printRecipeList(w io.Writer, list []models.Recipe) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tAUTHOR\tRATING")
	for i := range list {
		r := &list[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Category, r.AuthorName, ratingLabel(r))
	}
	tw.Flush()
}

func printRecipe(w io.Writer, r *models.Recipe) {
	fmt.Fprintf(w, "%s\n%s\n\n", r.Title, strings.Repeat("=", len(r.Title)))
	fmt.Fprintf(w, "by %s, %s\n", r.AuthorName, r.CreatedAt.Format("2006-01-02"))
	if r.Category != "" {
		fmt.Fprintf(w, "category: %s\n", r.Category)
	}
	fmt.Fprintf(w, "rating: %s\n\n%s\n\nIngredients:\n", ratingLabel(r), r.Description)
	for _, ing := range r.Ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}
	fmt.Fprintf(w, "\nInstructions:\n%s\n", r.Instructions)
	if r.ImageURL != "" {
		fmt.Fprintf(w, "\nimage: %s\n", r.ImageURL)
	}
	if len(r.Comments) > 0 {
		fmt.Fprintln(w)
		printComments(w, r.Comments)
	}
}

func printComments(w io.Writer, comments []models.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments")
		return
	}
	for _, c := range comments {
		fmt.Fprintf(w, "[%s] %s (%s): %s\n", c.ID, c.AuthorName, c.CreatedAt.Format("2006-01-02 15:04"), c.Text)
	}
}
