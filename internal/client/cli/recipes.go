package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipeshare/internal/client/models"
)

func usage(s string) error {
	return errors.New("usage: " + s)
}

func pageArg(args []string, i int) int {
	if len(args) <= i {
		return 1
	}
	p, err := strconv.Atoi(args[i])
	if err != nil {
		return 1
	}
	return p
}

func (a *App) List(ctx context.Context, args []string) error {
	return a.printPage(ctx, "", "", pageArg(args, 0))
}

func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("search <terms>")
	}
	return a.printPage(ctx, strings.Join(args, " "), "", 1)
}

// Category lists a category. Multi-word names are joined; a trailing number
// is the page.
func (a *App) Category(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("category <name> [page]")
	}
	page := 1
	if p, err := strconv.Atoi(args[len(args)-1]); err == nil && len(args) > 1 {
		page = p
		args = args[:len(args)-1]
	}
	return a.printPage(ctx, "", strings.Join(args, " "), page)
}

func (a *App) printPage(ctx context.Context, term, category string, page int) error {
	p, err := a.client.ListRecipes(ctx, term, category, page)
	if err != nil {
		return err
	}
	if len(p.Recipes) == 0 {
		fmt.Fprintln(a.out, "No recipes found")
		return nil
	}
	printRecipeList(a.out, p.Recipes)
	fmt.Fprintf(a.out, "page %d of %d\n", p.Page, p.Pages)
	return nil
}

func (a *App) Suggest(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("suggest <term>")
	}
	hits, err := a.client.Suggest(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	for _, h := range hits {
		fmt.Fprintf(a.out, "%s  %s\n", h.ID, h.Title)
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <id>")
	}
	r, err := a.client.GetRecipe(ctx, args[0])
	if err != nil {
		return err
	}
	printRecipe(a.out, r)
	return nil
}

func (a *App) Mine(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	list, err := a.client.MyRecipes(ctx)
	if err != nil {
		return err
	}
	printRecipeList(a.out, list)
	return nil
}

// Add prompts for the recipe fields and creates it.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	instructions, err := GetMultiline(a.reader, "Instructions", a.out)
	if err != nil {
		return err
	}
	ingredients, err := getSimpleText(a.reader, "Ingredients (comma separated)", a.out)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (optional)", a.out)
	if err != nil {
		return err
	}

	nr := models.NewRecipe{
		Title:        &title,
		Description:  &description,
		Instructions: &instructions,
		Ingredients:  splitList(ingredients),
	}
	if category != "" {
		nr.Category = &category
	}

	r, err := a.client.CreateRecipe(ctx, nr)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", r.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <id>")
	}
	if err := a.client.DeleteRecipe(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Recipe removed")
	return nil
}

func (a *App) Rate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("rate <id> <1-5>")
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return usage("rate <id> <1-5>")
	}
	r, err := a.client.Rate(ctx, args[0], v)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Rated. %s\n", ratingLabel(r))
	return nil
}

func (a *App) Comment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("comment <id>")
	}
	text, err := getSimpleText(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	comments, err := a.client.AddComment(ctx, args[0], text)
	if err != nil {
		return err
	}
	printComments(a.out, comments)
	return nil
}

func (a *App) Uncomment(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("uncomment <id> <commentId>")
	}
	comments, err := a.client.DeleteComment(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printComments(a.out, comments)
	return nil
}

func (a *App) Fav(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("fav <id>")
	}
	ids, err := a.client.ToggleFavorite(ctx, args[0])
	if err != nil {
		return err
	}
	state := "removed from"
	for _, id := range ids {
		if id == args[0] {
			state = "added to"
		}
	}
	fmt.Fprintf(a.out, "Recipe %s favorites (%d total)\n", state, len(ids))
	return nil
}

func (a *App) Favs(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	list, err := a.client.Favorites(ctx)
	if err != nil {
		return err
	}
	printRecipeList(a.out, list)
	return nil
}

func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("profile <userId>")
	}
	p, err := a.client.Profile(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%d recipes)\n", p.Name, len(p.Recipes))
	printRecipeList(a.out, p.Recipes)
	return nil
}

func (a *App) External(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("external <term>")
	}
	list, err := a.client.SearchExternal(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No recipes found")
		return nil
	}
	for _, r := range list {
		fmt.Fprintf(a.out, "%-14s %s [%s] by %s\n", r.ID, r.Title, r.Category, r.AuthorName)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
