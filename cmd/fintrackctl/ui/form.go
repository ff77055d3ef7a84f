package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/nixfunds/finance-api/internal/password"
)

// Credentials collected by the interactive user form
type Credentials struct {
	Email    string
	Password string
}

// RunUserForm asks for an email and a password, checking the password policy
// as the user types. email pre-fills the first field.
func RunUserForm(email string) (*Credentials, error) {
	var pw, confirm string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&email).
				Validate(requireEmail),

			huh.NewInput().
				Title("Password").
				Description("8+ characters with lower, upper, digit and special").
				EchoMode(huh.EchoModePassword).
				Value(&pw).
				Validate(checkPassword),

			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Validate(func(s string) error {
					if s != pw {
						return errors.New("passwords do not match")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return nil, err
	}

	return &Credentials{Email: strings.TrimSpace(email), Password: pw}, nil
}

func requireEmail(s string) error {
	if !strings.Contains(strings.TrimSpace(s), "@") {
		return errors.New("a valid email is required")
	}
	return nil
}

// checkPassword reports the first violated rule, the form shows one line
func checkPassword(s string) error {
	if v := password.Validate(s); len(v) > 0 {
		return errors.New(v[0])
	}
	return nil
}

// PrintUser prints a created account.
func PrintUser(id, email string) {
	fmt.Println(successStyle.Render("User created"))
	fmt.Printf("  ID:    %s\n", id)
	fmt.Printf("  Email: %s\n", email)
}

// PrintToken prints an issued token and its lifetime.
func PrintToken(email, token string, ttl time.Duration) {
	fmt.Println(titleStyle.Render("Token for " + email))
	fmt.Println(token)
	fmt.Println(subtleStyle.Render(fmt.Sprintf("valid for %s", ttl)))
}

// PrintViolations prints every validation message.
func PrintViolations(msgs []string) {
	fmt.Println(errorStyle.Render("Validation failed:"))
	for _, m := range msgs {
		fmt.Printf("  - %s\n", m)
	}
}

// PrintSuccess prints a one-line success message.
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Println(errorStyle.Render("Error: " + msg))
}
