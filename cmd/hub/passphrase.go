package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassphrase returns HUB_PASSPHRASE when set, otherwise prompts on the terminal
// without echo.
func readPassphrase(prompt string) (string, error) {
	if p := os.Getenv("HUB_PASSPHRASE"); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal; set HUB_PASSPHRASE")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

func storedPassphrase() (string, error) {
	return readPassphrase("Passphrase: ")
}

// newPassphrase asks twice and requires both answers to match.
func newPassphrase() (string, error) {
	if p := os.Getenv("HUB_PASSPHRASE"); p != "" {
		return p, nil
	}
	first, err := readPassphrase("New passphrase: ")
	if err != nil {
		return "", err
	}
	second, err := readPassphrase("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	return first, nil
}
