// Command adduser registers an account from the terminal, prompting for the
// password without echo.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"vytraty/internal/auth"
	"vytraty/internal/config"
	"vytraty/internal/storage"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <email>\n", os.Args[0])
		os.Exit(2)
	}
	email := strings.TrimSpace(os.Args[1])
	if err := auth.ValidateEmail(email); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error reading password:", err)
		os.Exit(1)
	}
	fmt.Print("Repeat password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error reading password:", err)
		os.Exit(1)
	}
	if string(password) != string(confirm) {
		fmt.Fprintln(os.Stderr, "error: passwords do not match")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error opening database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := repo.CreateUser(context.Background(), email, hash)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error creating user:", err)
		os.Exit(1)
	}
	fmt.Printf("created user %d (%s)\n", user.ID, user.Email)
}
