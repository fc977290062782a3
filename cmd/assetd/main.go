package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"asset-tracking-backend/config"
	"asset-tracking-backend/internal/accounts"
	"asset-tracking-backend/internal/api"
	"asset-tracking-backend/internal/auth"
	"asset-tracking-backend/internal/db"
	"asset-tracking-backend/internal/logger"
	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to read .env: %v", err)
	}

	root := &cli.Command{
		Name:  "assetd",
		Usage: "Asset tracking API server and admin tools",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "./config/config.yaml",
				Usage:   "path to the YAML configuration file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			ensureAdminCommand(),
			createUserCommand(),
		},
		Action: runServer,
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// app is the wiring shared by every subcommand.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	store store.Store
}

func setup(cmd *cli.Command) (*app, error) {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}

	zlog := logger.New(&cfg.Logging)
	zlog.Info("configuration loaded", zap.String("path", path))

	gormDB, err := db.Init(&cfg.Database, zlog)
	if err != nil {
		_ = zlog.Sync()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &app{cfg: cfg, log: zlog, db: gormDB, store: store.NewGormStore(gormDB)}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API (default)",
		Action: runServer,
	}
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	gin.SetMode(a.cfg.Server.Mode)
	router := api.NewRouter(api.Deps{
		Store:     a.store,
		Tokens:    auth.NewTokenIssuer(&a.cfg.Auth),
		Passwords: auth.NewPasswordHasher(a.cfg.Auth.BcryptCost),
		Log:       a.log,
		Server:    a.cfg.Server,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server starting", zap.Int("port", a.cfg.Server.Port))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		a.log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	a.log.Info("server gracefully stopped")
	return nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema and exit",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// setup already migrates.
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			a.close()
			return nil
		},
	}
}

func ensureAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "ensure-admin",
		Usage: "Create the administrator account or reset its flags and password",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			svc := accounts.NewService(a.store, auth.NewPasswordHasher(a.cfg.Auth.BcryptCost))
			u, created, err := svc.EnsureAdmin(ctx, a.cfg.Admin)
			if err != nil {
				return fmt.Errorf("ensure admin: %w", err)
			}
			if created {
				fmt.Printf("Superuser %q created\n", u.Username)
			} else {
				fmt.Printf("Superuser %q updated\n", u.Username)
			}
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create a regular account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email"},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "role", Value: string(model.RoleEmployee), Usage: "ADMIN, EMPLOYEE or TECHNICIAN"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			svc := accounts.NewService(a.store, auth.NewPasswordHasher(a.cfg.Auth.BcryptCost))
			u, err := svc.CreateUser(ctx, accounts.NewUser{
				Username: cmd.String("username"),
				Email:    cmd.String("email"),
				Password: cmd.String("password"),
				Role:     model.Role(cmd.String("role")),
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("User %q created with id %d\n", u.Username, u.ID)
			return nil
		},
	}
}
