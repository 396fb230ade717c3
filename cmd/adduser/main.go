// Command adduser creates an account from the command line, applying the
// same rules as the registration form.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"car-expense-tracker/internal/auth"
	"car-expense-tracker/internal/config"
	"car-expense-tracker/internal/forms"
	applog "car-expense-tracker/internal/log"
	"car-expense-tracker/internal/models"
	"car-expense-tracker/internal/storage"

	"golang.org/x/term"
)

const usage = "Usage: adduser -user <username> [-password <password>] [-db <db_path>]"

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	username string
	password string
	dbPath   string
}

func parseFlags(args []string, stdout, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.username, "user", "", "Username (4-15 characters, no surrounding spaces)")
	fs.StringVar(&opts.password, "password", "", "Password (prompted for when omitted)")
	fs.StringVar(&opts.dbPath, "db", "", "Database file (defaults to DB_PATH)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.username == "" {
		fmt.Fprintln(stdout, usage)
		fs.PrintDefaults()
		return opts, errors.New("missing required flags: user")
	}
	return opts, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stdout, stderr)
	if err != nil {
		return err
	}

	lc := applog.DefaultConfig()
	lc.Component = applog.ComponentCLI
	lc.Output = stderr
	logger := applog.New(lc)

	if opts.password == "" {
		fmt.Fprint(stdout, "Password: ")
		opts.password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(opts.password) == "" {
		return errors.New("password cannot be empty")
	}

	if result := forms.ValidateRegistration(opts.username, opts.password); !result.OK() {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
	}

	if opts.dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		opts.dbPath = cfg.DBPath
	}

	user, err := createUser(opts)
	if err != nil {
		logger.Error("User not created", applog.FieldOperation, applog.OpRegister, applog.FieldUsername, opts.username, applog.FieldError, err)
		return err
	}

	logger.Info("User created", applog.FieldOperation, applog.OpRegister, applog.FieldUserID, user.ID, "db", opts.dbPath)
	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

func createUser(opts options) (*models.User, error) {
	db, err := storage.NewDB(opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(opts.password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := db.CreateUser(opts.username, hash)
	if errors.Is(err, storage.ErrUsernameTaken) {
		return nil, fmt.Errorf("user %s already exists", opts.username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
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
