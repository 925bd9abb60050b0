package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipeshare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("please login first")

// Register prompts for name, email and password and creates an account.
// On success the session is logged in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, name, email, password); err != nil {
		return err
	}

	a.userName = name
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, email, password); err != nil {
		return err
	}

	u, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	a.userName = u.Name
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout revokes the session on the server.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	err := a.client.Logout(ctx)
	a.userName = ""
	return err
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	u, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> id=%s favorites=%d\n", u.Name, u.Email, u.ID, len(u.Favorites))
	return nil
}
