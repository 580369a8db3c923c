// Command createadmin bootstraps an admin account. Public registration never
// grants the admin role unless AUTH_ALLOW_ADMIN_SIGNUP is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/vacq/booking-service/internal/config"
	"github.com/vacq/booking-service/internal/domain"
	"github.com/vacq/booking-service/internal/observability"
	"github.com/vacq/booking-service/internal/persistence"
	"github.com/vacq/booking-service/internal/repository"
	"github.com/vacq/booking-service/internal/service"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type userCreator interface {
	CreateUser(ctx context.Context, in service.NewUser) (*domain.User, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer pg.Close()
	if !pg.Enabled() {
		log.Fatal("POSTGRES_DSN is required to create an admin")
	}

	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: repository.NewUserRepository(pg.PoolHandle()),
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("failed to init auth service: %v", err)
	}

	if err := run(ctx, os.Args[1:], os.Stdout, authService); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, w io.Writer, users userCreator) error {
	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(w)
	name := fs.String("name", "", "admin display name")
	email := fs.String("email", "", "admin email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return errors.New("-name and -email are required")
	}

	password, err := promptPassword(w)
	if err != nil {
		return err
	}

	user, err := users.CreateUser(ctx, service.NewUser{
		Name:     *name,
		Email:    *email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	fmt.Fprintf(w, "created admin %s (%s)\n", user.Email, user.ID)
	return nil
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter password: ")
	first, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	fmt.Fprint(w, "Repeat password: ")
	second, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
