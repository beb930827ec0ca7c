// Command adduser creates an account directly in the database, for
// local bootstrap without going through the signup page.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/gustavotrrsenac/datefy/internal/auth"
	"github.com/gustavotrrsenac/datefy/internal/storage"
)

const defaultDBPath = "./data/datefy.db"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	nome := fs.String("nome", "", "Display name")
	email := fs.String("email", "", "E-mail address (login)")
	senhaFlag := fs.String("senha", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", defaultDBPath, "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *nome == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -nome <name> -email <email> [-senha <password>] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: nome, email")
	}

	senha := *senhaFlag
	if senha == "" {
		fmt.Fprint(stdout, "Senha: ")
		var err error
		senha, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(senha) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	// Env var overrides the default path, but not an explicit -db flag.
	if path := os.Getenv("SQLITE_DB_PATH"); path != "" && *dbPath == defaultDBPath {
		*dbPath = path
	}

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(senha)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := repo.CreateUsuario(context.Background(), *nome, strings.ToLower(*email), hash)
	if err != nil {
		if errors.Is(err, storage.ErrEmailEmUso) {
			return fmt.Errorf("account %s already exists", *email)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Fprintf(stdout, "Account %s created successfully with ID %d\n", u.Email, u.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Hidden input on a real terminal; plain line read for pipes and tests.
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
