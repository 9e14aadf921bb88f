package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/foodrecipe/internal/logging"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
	"github.com/dmitrijs2005/foodrecipe/internal/server/manage"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/foodrecipe/internal/shared"
	"golang.org/x/term"
)

func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	defer shared.WipeByteArray(b)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &manage.App{
		Out:        os.Stdout,
		Logger:     logging.New(logging.Config{Level: "info", Format: "console"}),
		Repos:      repomanager.NewPostgresRepositoryManager(),
		LoadConfig: config.Load,
		Connect: func(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
			return repomanager.OpenDB(ctx, cfg.DatabaseDSN)
		},
		ReadPassword: readPassword,
		NewSource:    manage.OpenSource,
	}

	if err := app.Command().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
