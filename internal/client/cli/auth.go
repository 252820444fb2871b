package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/inkpost/internal/shared"
)

// Register prompts for email, name and password and creates an account.
// The password buffer is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	u, err := a.api.Register(ctx, email, name, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s). You can log in now.\n", u.Email, u.ID)
	return nil
}

// Login prompts for credentials. On success the client keeps the token.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if _, err := a.api.Login(ctx, email, password); err != nil {
		return err
	}

	a.userName = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the token. Tokens are stateless, so nothing is sent.
func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
