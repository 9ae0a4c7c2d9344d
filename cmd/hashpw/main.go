// Command hashpw prints the bcrypt hash of a password, for
// provisioning admin accounts directly in the user directory.
package main

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/garagedesk/garagedesk/internal/auth"
)

func main() {
	var password string
	if len(os.Args) >= 2 {
		password = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		password = string(raw)
	}

	if err := auth.ValidatePassword(password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
