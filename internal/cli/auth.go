package cli

import (
	"context"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and attempts to authenticate.
// Validation failures and service errors are printed; the session stays
// anonymous on failure.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.session.Login(ctx, email, password)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}
	printlnFn(msg)
	return nil
}

// Register prompts for name, email and password and attempts to create an
// account. A successful registration also signs the user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.session.Register(ctx, name, email, password)
	if err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}
	printlnFn(msg)
	return nil
}

// Logout clears the stored credential. Always succeeds.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("You have been logged out.")
	return nil
}
