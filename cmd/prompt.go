// ABOUTME: Interactive master password prompt for headless commands
// ABOUTME: Uses a huh password input when stdin is a terminal

package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// canPrompt reports whether an interactive prompt can be shown; tests override it
var canPrompt = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// promptPassword asks for the master password; tests override it
var promptPassword = func() (string, error) {
	var password string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Master password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(validatePassword),
		),
	).WithTheme(huh.ThemeBase()).Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}

func validatePassword(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("password cannot be empty")
	}
	return nil
}
